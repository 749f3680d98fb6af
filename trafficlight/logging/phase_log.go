// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// PhaseLogger writes one line per phase change for people watching the intersection
type PhaseLogger struct {
	logger *log.Logger
}

// NewPhaseLogger returns a PhaseLogger writing to output.
func NewPhaseLogger(output io.Writer) *PhaseLogger {
	prefix, flags := "", 0
	return &PhaseLogger{
		logger: log.New(output, prefix, flags),
	}
}

// OnPhaseChange implements core.PhaseObserver.
func (l *PhaseLogger) OnPhaseChange(change core.PhaseChange) {
	format := "PHASE\tLight: %s\tCycle: %d\tFrom: %s\tTo: %s\tDuration: %s"
	l.logger.Println(fmt.Sprintf(format, change.LightID, change.Cycle,
		change.From, change.To, change.Elapsed.Round(time.Millisecond)))
}
