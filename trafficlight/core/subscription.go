// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSubscriptionClosed returned by a subscription after Close
var ErrSubscriptionClosed = errors.New("Subscription closed")

// Subscription receives every phase published after it was created, in order,
// on a channel of its own.
type Subscription struct {
	id        uuid.UUID
	light     *TrafficLight
	queue     *SignalChannel[Phase]
	closeOnce sync.Once
}

// Subscribe registers a new subscription. Subscribing to a stopped light
// returns a subscription that fails with ErrLightStopped.
func (l *TrafficLight) Subscribe() *Subscription {
	s := &Subscription{
		id:    uuid.New(),
		light: l,
		queue: NewSignalChannel[Phase](),
	}

	l.subscriptionsMutex.Lock()
	defer l.subscriptionsMutex.Unlock()
	if l.subscriptions == nil {
		s.queue.CancelWithError(ErrLightStopped)
		return s
	}
	l.subscriptions[s] = struct{}{}
	return s
}

func (l *TrafficLight) unsubscribe(s *Subscription) {
	l.subscriptionsMutex.Lock()
	defer l.subscriptionsMutex.Unlock()
	delete(l.subscriptions, s)
}

func (l *TrafficLight) fanOut(phase Phase) {
	l.subscriptionsMutex.Lock()
	defer l.subscriptionsMutex.Unlock()
	for s := range l.subscriptions {
		s.queue.Send(phase) // closed subscriptions drop the value
	}
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Next returns the next published phase.
func (s *Subscription) Next(ctx context.Context) (Phase, error) {
	return s.queue.ReceiveWithContext(ctx)
}

// WaitForGreen blocks until the next Green phase is published.
func (s *Subscription) WaitForGreen(ctx context.Context) error {
	_, err := awaitPhase(ctx, s.queue, Green)
	return err
}

// Pending returns the number of phases not yet consumed.
func (s *Subscription) Pending() int {
	return s.queue.Len()
}

// Close detaches the subscription from the light and releases its waiters.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.light.unsubscribe(s)
		s.queue.CancelWithError(ErrSubscriptionClosed)
	})
}
