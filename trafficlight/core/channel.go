// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelCanceled is returned by a canceled channel when no cancellation error was provided.
var ErrChannelCanceled = errors.New("ErrChannelCanceled")

// SignalChannel is an unbounded FIFO handing values from any number of
// producers to any number of consumers. Each value is delivered to exactly
// one Receive call.
type SignalChannel[T any] struct {
	cond     *sync.Cond
	queue    []T
	canceled bool
	err      error
}

// NewSignalChannel returns an empty SignalChannel.
func NewSignalChannel[T any]() *SignalChannel[T] {
	return &SignalChannel[T]{
		cond: sync.NewCond(&sync.Mutex{}),
	}
}

// Send appends value to the tail of the channel and wakes one blocked receiver.
// Send never waits for a consumer. Values sent after cancellation are dropped.
func (c *SignalChannel[T]) Send(value T) error {
	c.cond.L.Lock()
	defer c.cond.L.Unlock()

	if c.canceled {
		return c.cancelError()
	}

	c.queue = append(c.queue, value)
	c.cond.Signal()
	return nil
}

// Receive suspends the calling goroutine until a value is available or the
// channel is canceled, then removes and returns the oldest value.
func (c *SignalChannel[T]) Receive() (T, error) {
	c.cond.L.Lock()
	defer c.cond.L.Unlock()

	for len(c.queue) == 0 && !c.canceled {
		c.cond.Wait()
	}

	return c.popUnsafe()
}

// ReceiveWithContext is Receive bounded by ctx. A queued value is returned
// even when ctx is already done; a receiver returning ctx.Err() has
// consumed nothing.
func (c *SignalChannel[T]) ReceiveWithContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		c.cond.L.Lock()
		defer c.cond.L.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.cond.L.Lock()
	defer c.cond.L.Unlock()

	for len(c.queue) == 0 && !c.canceled && ctx.Err() == nil {
		c.cond.Wait()
	}

	if len(c.queue) == 0 && !c.canceled {
		var zero T
		return zero, ctx.Err()
	}

	return c.popUnsafe()
}

// popUnsafe must be called with the lock held. Values queued before
// cancellation are still handed out.
func (c *SignalChannel[T]) popUnsafe() (T, error) {
	var zero T
	if len(c.queue) == 0 {
		return zero, c.cancelError()
	}

	value := c.queue[0]
	c.queue[0] = zero
	c.queue = c.queue[1:]
	return value, nil
}

func (c *SignalChannel[T]) cancelError() error {
	if c.err != nil {
		return c.err
	}
	return ErrChannelCanceled
}

// CancelWithError cancels the channel with error and awakes suspended receivers.
func (c *SignalChannel[T]) CancelWithError(err error) {
	c.cond.L.Lock()
	defer c.cond.L.Unlock()
	c.canceled = true
	c.err = err
	c.cond.Broadcast()
}

// Len returns the number of pending values.
func (c *SignalChannel[T]) Len() int {
	c.cond.L.Lock()
	defer c.cond.L.Unlock()
	return len(c.queue)
}

// Clear drops pending values and the cancellation state.
func (c *SignalChannel[T]) Clear() {
	c.cond.L.Lock()
	defer c.cond.L.Unlock()

	c.queue = nil
	c.canceled = false
	c.err = nil
}
