// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// DefaultRecorderBuffer is the number of phase changes a Recorder queues
// before dropping new ones.
const DefaultRecorderBuffer = 256

// Recorder is a core.PhaseObserver persisting changes on its own goroutine,
// keeping database latency off the cycling loop.
type Recorder struct {
	store   *Store
	changes chan core.PhaseChange
	done    chan struct{}

	mutex  sync.RWMutex
	closed bool
}

// NewRecorder starts a recorder writing to store.
func NewRecorder(store *Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultRecorderBuffer
	}

	r := &Recorder{
		store:   store,
		changes: make(chan core.PhaseChange, buffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for change := range r.changes {
		if err := r.store.RecordPhase(context.Background(), change); err != nil {
			log.WithError(err).WithField("light", change.LightID).Warn("Failed to record phase change")
		}
	}
}

// OnPhaseChange implements core.PhaseObserver. It never blocks.
func (r *Recorder) OnPhaseChange(change core.PhaseChange) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.changes <- change:
	default:
		log.WithFields(log.Fields{
			"light": change.LightID,
			"cycle": change.Cycle,
		}).Warn("History buffer full, dropping phase change")
	}
}

// Close stops accepting changes and waits until queued ones are written.
func (r *Recorder) Close() {
	r.mutex.Lock()
	if !r.closed {
		r.closed = true
		close(r.changes)
	}
	r.mutex.Unlock()

	<-r.done
}
