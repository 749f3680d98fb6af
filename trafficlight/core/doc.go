// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

/*
Package core provides the traffic light state machine and the synchronization
primitive connecting it to the participants waiting at the intersection.

# Phases

A light is either RED or GREEN. Transitions strictly alternate:

	RED -> GREEN -> RED -> ...

# Signal channel

SignalChannel is an unbounded FIFO guarded by a single mutex and condition
variable. Send never waits for a consumer, Receive suspends the caller until
a value is queued:

[light] ch.Send(Green)
[light] // not blocked

[vehicle] phase, err := ch.Receive()
[vehicle] // blocked until a value is queued or the channel is canceled

Every value is handed to exactly one receiver, so several vehicles waiting on
the same channel compete for published phases.

# Traffic light

TrafficLight runs its cycling loop on a dedicated goroutine started by
Simulate. Each cycle draws a random duration, polls the clock until the
duration has elapsed, toggles the phase and publishes it on the channel.
WaitForGreen drains the channel until GREEN is received.

Subscribe returns a Subscription with a channel of its own, fed on every
publish, for participants that must observe every phase change.

Stop cancels the loop and releases every blocked waiter with ErrLightStopped.
*/
package core
