// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultCycleMin and DefaultCycleMax bound the random cycle length, in cycle units.
	DefaultCycleMin = 4
	DefaultCycleMax = 6
	// DefaultCycleUnit is the length of one cycle unit.
	DefaultCycleUnit = time.Second
	// DefaultPollInterval is how often the cycling loop checks elapsed time.
	DefaultPollInterval = time.Millisecond
)

// ErrAlreadySimulating returned when Simulate is called more than once
var ErrAlreadySimulating = errors.New("Traffic light is already simulating")

// ErrLightStopped returned to waiters once the light has stopped cycling
var ErrLightStopped = errors.New("Traffic light stopped")

// ErrInvalidCycleBounds returned by NewTrafficLight on a bad cycle configuration
var ErrInvalidCycleBounds = errors.New("Invalid cycle bounds")

// LightService is the surface of a traffic light used by participants
// of the intersection.
type LightService interface {
	ID() string
	CurrentPhase() Phase
	Stats() Stats
	WaitForGreen() error
	WaitForGreenWithContext(ctx context.Context) error
	Subscribe() *Subscription
}

// Stats is a snapshot of a light.
type Stats struct {
	ID          string
	Phase       Phase
	Cycles      uint64
	LastChange  time.Time
	Pending     int
	Subscribers int
}

// TrafficLight alternates between Red and Green at random intervals on its
// own goroutine and publishes every flip on a SignalChannel.
type TrafficLight struct {
	id string

	currentPhase atomic.Int32
	queue        *SignalChannel[Phase]

	cycleMin     int
	cycleMax     int
	cycleUnit    time.Duration
	pollInterval time.Duration
	clock        Clock
	random       RandomSource

	observersMutex sync.RWMutex
	observers      []PhaseObserver

	subscriptionsMutex sync.Mutex
	subscriptions      map[*Subscription]struct{}

	cycles     atomic.Uint64
	lastChange atomic.Int64

	lifecycleMutex sync.Mutex
	started        bool
	stopped        bool
	cancel         context.CancelFunc
	done           chan struct{}
	shutdownOnce   sync.Once
}

// Option configures a TrafficLight.
type Option func(*TrafficLight)

// WithID sets the light identifier, a random UUID is used otherwise.
func WithID(id string) Option {
	return func(l *TrafficLight) { l.id = id }
}

// WithCycleBounds sets the closed interval, in cycle units, the cycle length is drawn from.
func WithCycleBounds(min, max int) Option {
	return func(l *TrafficLight) {
		l.cycleMin = min
		l.cycleMax = max
	}
}

// WithCycleUnit sets the length of one cycle unit.
func WithCycleUnit(unit time.Duration) Option {
	return func(l *TrafficLight) { l.cycleUnit = unit }
}

// WithPollInterval sets how often the cycling loop samples the clock.
func WithPollInterval(interval time.Duration) Option {
	return func(l *TrafficLight) { l.pollInterval = interval }
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(l *TrafficLight) { l.clock = clock }
}

// WithRandomSource replaces the default random source.
func WithRandomSource(random RandomSource) Option {
	return func(l *TrafficLight) { l.random = random }
}

// WithObserver registers an observer before the light starts.
func WithObserver(observer PhaseObserver) Option {
	return func(l *TrafficLight) { l.observers = append(l.observers, observer) }
}

// NewTrafficLight returns a Red light with an empty channel.
func NewTrafficLight(opts ...Option) (*TrafficLight, error) {
	l := &TrafficLight{
		id:            uuid.New().String(),
		queue:         NewSignalChannel[Phase](),
		cycleMin:      DefaultCycleMin,
		cycleMax:      DefaultCycleMax,
		cycleUnit:     DefaultCycleUnit,
		pollInterval:  DefaultPollInterval,
		clock:         SystemClock{},
		subscriptions: make(map[*Subscription]struct{}),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.cycleMin <= 0 || l.cycleMax < l.cycleMin || l.cycleUnit <= 0 || l.pollInterval <= 0 {
		return nil, fmt.Errorf("%w: cycle [%d, %d] x %s, poll %s",
			ErrInvalidCycleBounds, l.cycleMin, l.cycleMax, l.cycleUnit, l.pollInterval)
	}

	if l.random == nil {
		l.random = NewRandomSource()
	}

	l.currentPhase.Store(int32(Red))
	return l, nil
}

// ID returns the light identifier.
func (l *TrafficLight) ID() string {
	return l.id
}

// CurrentPhase returns the most recently set phase. The value may change
// right after it is returned.
func (l *TrafficLight) CurrentPhase() Phase {
	return Phase(l.currentPhase.Load())
}

// Stats returns a snapshot of the light.
func (l *TrafficLight) Stats() Stats {
	l.subscriptionsMutex.Lock()
	subscribers := len(l.subscriptions)
	l.subscriptionsMutex.Unlock()

	stats := Stats{
		ID:          l.id,
		Phase:       l.CurrentPhase(),
		Cycles:      l.cycles.Load(),
		Pending:     l.queue.Len(),
		Subscribers: subscribers,
	}
	if nanos := l.lastChange.Load(); nanos != 0 {
		stats.LastChange = time.Unix(0, nanos)
	}
	return stats
}

// AddObserver registers observer for subsequent phase changes.
func (l *TrafficLight) AddObserver(observer PhaseObserver) {
	l.observersMutex.Lock()
	defer l.observersMutex.Unlock()
	l.observers = append(l.observers, observer)
}

// Simulate starts the cycling loop on its own goroutine. The loop runs until
// ctx is done or Stop is called.
func (l *TrafficLight) Simulate(ctx context.Context) error {
	l.lifecycleMutex.Lock()
	defer l.lifecycleMutex.Unlock()

	if l.stopped {
		return ErrLightStopped
	}
	if l.started {
		return ErrAlreadySimulating
	}
	l.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel

	log.WithFields(log.Fields{
		"light":        l.id,
		"cycleMin":     l.cycleMin,
		"cycleMax":     l.cycleMax,
		"cycleUnit":    l.cycleUnit.String(),
		"pollInterval": l.pollInterval.String(),
	}).Info("Starting traffic light")

	go func() {
		defer close(l.done)
		l.cycleThroughPhases(loopCtx)
		l.shutdown()
	}()

	return nil
}

// Stop ends the cycling loop and releases every blocked waiter with
// ErrLightStopped. Stop is idempotent.
func (l *TrafficLight) Stop() {
	l.lifecycleMutex.Lock()
	alreadyStopped := l.stopped
	l.stopped = true
	started := l.started
	cancel := l.cancel
	if !started && !alreadyStopped {
		close(l.done)
	}
	l.lifecycleMutex.Unlock()

	if !started {
		l.shutdown()
		return
	}

	cancel()
	<-l.done
}

// Done is closed once the cycling loop has exited.
func (l *TrafficLight) Done() <-chan struct{} {
	return l.done
}

func (l *TrafficLight) shutdown() {
	l.shutdownOnce.Do(func() {
		l.queue.CancelWithError(ErrLightStopped)

		l.subscriptionsMutex.Lock()
		subscriptions := l.subscriptions
		l.subscriptions = nil
		l.subscriptionsMutex.Unlock()

		for s := range subscriptions {
			s.queue.CancelWithError(ErrLightStopped)
		}

		log.WithField("light", l.id).Info("Traffic light stopped")
	})
}

// WaitForGreen blocks until Green is drained from the light's channel,
// discarding every other phase received first. Concurrent waiters compete
// for published values, use Subscribe to observe every change.
func (l *TrafficLight) WaitForGreen() error {
	_, err := awaitPhase(context.Background(), l.queue, Green)
	return err
}

// WaitForGreenWithContext is WaitForGreen bounded by ctx.
func (l *TrafficLight) WaitForGreenWithContext(ctx context.Context) error {
	_, err := awaitPhase(ctx, l.queue, Green)
	return err
}

// awaitPhase drains ch until target is received and reports how many values were received.
func awaitPhase(ctx context.Context, ch *SignalChannel[Phase], target Phase) (int, error) {
	received := 0
	for {
		phase, err := ch.ReceiveWithContext(ctx)
		if err != nil {
			return received, err
		}
		received++
		if phase == target {
			return received, nil
		}
	}
}

func (l *TrafficLight) nextCycleDuration() time.Duration {
	return time.Duration(l.random.IntRange(l.cycleMin, l.cycleMax)) * l.cycleUnit
}

// cycleThroughPhases flips the phase every cycle, drawing a new cycle length each time.
func (l *TrafficLight) cycleThroughPhases(ctx context.Context) {
	lastUpdate := l.clock.Now()
	cycleDuration := l.nextCycleDuration()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		l.clock.Sleep(l.pollInterval)

		now := l.clock.Now()
		elapsed := now.Sub(lastUpdate)
		if elapsed < cycleDuration {
			continue
		}

		if err := l.togglePhase(now, elapsed); err != nil {
			log.WithError(err).WithField("light", l.id).Warn("Failed to publish phase")
			return
		}

		lastUpdate = l.clock.Now()
		cycleDuration = l.nextCycleDuration()
	}
}

func (l *TrafficLight) togglePhase(now time.Time, elapsed time.Duration) error {
	from := l.CurrentPhase()
	to := from.Toggle()

	l.currentPhase.Store(int32(to))
	if err := l.queue.Send(to); err != nil {
		return err
	}

	l.lastChange.Store(now.UnixNano())
	change := PhaseChange{
		LightID: l.id,
		From:    from,
		To:      to,
		At:      now,
		Elapsed: elapsed,
		Cycle:   l.cycles.Add(1),
	}

	l.fanOut(to)
	l.notifyObservers(change)
	return nil
}

func (l *TrafficLight) notifyObservers(change PhaseChange) {
	l.observersMutex.RLock()
	defer l.observersMutex.RUnlock()
	for _, observer := range l.observers {
		observer.OnPhaseChange(change)
	}
}
