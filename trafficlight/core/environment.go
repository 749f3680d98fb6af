// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Clock is the time source of the cycling loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RandomSource yields uniformly distributed integers.
type RandomSource interface {
	// IntRange returns an integer in the closed interval [min, max].
	IntRange(min, max int) int
}

// SystemClock reads the monotonic wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

type lockedRandom struct {
	mutex sync.Mutex
	rand  *rand.Rand
}

// NewRandomSource returns a goroutine safe RandomSource seeded from the runtime.
func NewRandomSource() RandomSource {
	return &lockedRandom{
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededRandomSource returns a deterministic RandomSource.
func NewSeededRandomSource(seed1, seed2 uint64) RandomSource {
	return &lockedRandom{
		rand: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

func (r *lockedRandom) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return min + r.rand.IntN(max-min+1)
}
