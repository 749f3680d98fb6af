// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// PhaseChange describes one flip published by the cycling loop.
type PhaseChange struct {
	LightID string
	From    Phase
	To      Phase
	At      time.Time
	// Elapsed is the time spent in From.
	Elapsed time.Duration
	// Cycle counts flips starting at 1.
	Cycle uint64
}

// PhaseObserver is notified on the cycling goroutine after every published flip.
// Implementations must not block.
type PhaseObserver interface {
	OnPhaseChange(change PhaseChange)
}

// PhaseObserverFunc adapts a function to PhaseObserver.
type PhaseObserverFunc func(change PhaseChange)

// OnPhaseChange calls f(change).
func (f PhaseObserverFunc) OnPhaseChange(change PhaseChange) {
	f(change)
}

// LoggingObserver logs every phase change.
type LoggingObserver struct {
	Level log.Level
}

// NewLoggingObserver returns a LoggingObserver logging at info level.
func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{Level: log.InfoLevel}
}

func (o *LoggingObserver) OnPhaseChange(change PhaseChange) {
	log.WithFields(log.Fields{
		"light":   change.LightID,
		"from":    change.From.String(),
		"to":      change.To.String(),
		"cycle":   change.Cycle,
		"elapsed": change.Elapsed.Round(time.Millisecond).String(),
	}).Log(o.Level, "Traffic light phase changed")
}
