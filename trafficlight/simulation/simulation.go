// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package simulation drives vehicles through an intersection controlled by a
// traffic light. Every vehicle arrives after a random delay and waits for
// GREEN before crossing.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// ErrInvalidSimulation returned by New on a bad configuration
var ErrInvalidSimulation = errors.New("Invalid simulation")

// Vehicle approaches the intersection once its arrival delay has passed.
type Vehicle struct {
	ID           string
	ArrivalDelay time.Duration
}

// Crossing records one vehicle going through the intersection.
type Crossing struct {
	VehicleID string
	Arrived   time.Time
	Crossed   time.Time
	Waited    time.Duration
}

// Simulation owns a fleet of vehicles bound to one light.
type Simulation struct {
	light     core.LightService
	vehicles  []Vehicle
	broadcast bool
	clock     core.Clock
}

type settings struct {
	vehicles  int
	spread    time.Duration
	broadcast bool
	clock     core.Clock
	random    core.RandomSource
}

// Option configures a Simulation.
type Option func(*settings)

// WithVehicles sets how many vehicles approach the intersection.
func WithVehicles(n int) Option {
	return func(s *settings) { s.vehicles = n }
}

// WithArrivalSpread sets the upper bound of the random arrival delay.
func WithArrivalSpread(spread time.Duration) Option {
	return func(s *settings) { s.spread = spread }
}

// WithBroadcast makes every vehicle wait on a subscription of its own
// instead of competing for the light's published phases.
func WithBroadcast(broadcast bool) Option {
	return func(s *settings) { s.broadcast = broadcast }
}

// WithClock replaces the system clock used to timestamp crossings.
func WithClock(clock core.Clock) Option {
	return func(s *settings) { s.clock = clock }
}

// WithRandomSource replaces the source of arrival delays.
func WithRandomSource(random core.RandomSource) Option {
	return func(s *settings) { s.random = random }
}

// New creates a simulation with randomly spread arrivals.
func New(light core.LightService, opts ...Option) (*Simulation, error) {
	cfg := settings{
		vehicles: 1,
		clock:    core.SystemClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.vehicles < 0 || cfg.spread < 0 {
		return nil, fmt.Errorf("%w: %d vehicles, arrival spread %s", ErrInvalidSimulation, cfg.vehicles, cfg.spread)
	}
	if cfg.random == nil {
		cfg.random = core.NewRandomSource()
	}

	vehicles := make([]Vehicle, cfg.vehicles)
	for i := range vehicles {
		vehicles[i] = Vehicle{
			ID:           uuid.New().String(),
			ArrivalDelay: time.Duration(cfg.random.IntRange(0, int(cfg.spread/time.Millisecond))) * time.Millisecond,
		}
	}

	return &Simulation{
		light:     light,
		vehicles:  vehicles,
		broadcast: cfg.broadcast,
		clock:     cfg.clock,
	}, nil
}

// Vehicles returns the fleet in creation order.
func (s *Simulation) Vehicles() []Vehicle {
	return append([]Vehicle(nil), s.vehicles...)
}

// Run releases every vehicle and blocks until all of them crossed. Crossings
// are returned in the order they happened. The first failing vehicle cancels
// the others.
func (s *Simulation) Run(ctx context.Context) ([]Crossing, error) {
	crossings := make([]Crossing, len(s.vehicles))

	errg, ctx := errgroup.WithContext(ctx)
	for i, vehicle := range s.vehicles {
		errg.Go(func() error {
			crossing, err := s.drive(ctx, vehicle)
			if err != nil {
				return fmt.Errorf("vehicle %s: %w", vehicle.ID, err)
			}
			crossings[i] = crossing
			return nil
		})
	}

	if err := errg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(crossings, func(i, j int) bool {
		return crossings[i].Crossed.Before(crossings[j].Crossed)
	})
	return crossings, nil
}

func (s *Simulation) drive(ctx context.Context, vehicle Vehicle) (Crossing, error) {
	if err := sleepWithContext(ctx, vehicle.ArrivalDelay); err != nil {
		return Crossing{}, err
	}

	arrived := s.clock.Now()
	logger := log.WithFields(log.Fields{
		"vehicle": vehicle.ID,
		"light":   s.light.ID(),
	})
	logger.WithField("phase", s.light.CurrentPhase().String()).Debug("Vehicle arrived at intersection")

	if err := s.waitForGreen(ctx); err != nil {
		return Crossing{}, err
	}

	crossed := s.clock.Now()
	waited := crossed.Sub(arrived)
	logger.WithField("waited", waited.Round(time.Millisecond).String()).Info("Vehicle crossed intersection")

	return Crossing{
		VehicleID: vehicle.ID,
		Arrived:   arrived,
		Crossed:   crossed,
		Waited:    waited,
	}, nil
}

func (s *Simulation) waitForGreen(ctx context.Context) error {
	if !s.broadcast {
		return s.light.WaitForGreenWithContext(ctx)
	}

	subscription := s.light.Subscribe()
	defer subscription.Close()
	return subscription.WaitForGreen(ctx)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
