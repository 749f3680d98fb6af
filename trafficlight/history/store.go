// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package history persists phase changes, vehicle crossings and simulator
// runs through gorm. An empty DSN selects an in-memory SQLite database, a
// postgres URL or keyword DSN selects Postgres, anything else is a SQLite file.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

// MaxLimit caps the number of records a single query returns.
const MaxLimit = 1000

// Store reads and writes history records.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the schema.
func Open(dsn string) (*Store, error) {
	dialector, inMemory := dialectorFor(dsn)

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if inMemory {
		sqlDB, err := db.DB()
		if err != nil {
			closeConnPool(db.ConnPool)
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	store, err := New(db)
	if err != nil {
		closeConnPool(db.ConnPool)
		return nil, err
	}
	return store, nil
}

// closeConnPool releases a pool that never made it into a Store.
func closeConnPool(pool gorm.ConnPool) {
	closer, ok := pool.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.WithError(err).Warn("Failed to close history database")
	}
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	log.WithField("dialect", db.Dialector.Name()).Debug("History database ready")
	return &Store{db: db}, nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case dsn == "" || dsn == ":memory:":
		return sqlite.Open(":memory:"), true
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), false
	default:
		return sqlite.Open(dsn), false
	}
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordPhase stores a phase change.
func (s *Store) RecordPhase(ctx context.Context, change core.PhaseChange) error {
	return s.db.WithContext(ctx).Create(&PhaseRecord{
		LightID:   change.LightID,
		Cycle:     change.Cycle,
		FromPhase: change.From.String(),
		ToPhase:   change.To.String(),
		ChangedAt: change.At.UTC(),
		ElapsedMs: change.Elapsed.Milliseconds(),
	}).Error
}

// RecordCrossing stores a vehicle crossing.
func (s *Store) RecordCrossing(ctx context.Context, lightID, vehicleID string, arrived, crossed time.Time) error {
	return s.db.WithContext(ctx).Create(&CrossingRecord{
		LightID:   lightID,
		VehicleID: vehicleID,
		ArrivedAt: arrived.UTC(),
		CrossedAt: crossed.UTC(),
		WaitedMs:  crossed.Sub(arrived).Milliseconds(),
	}).Error
}

// RecordRun stores a simulator start. settings is stored as JSON.
func (s *Store) RecordRun(ctx context.Context, lightID string, startedAt time.Time, settings interface{}) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode run settings: %w", err)
	}

	return s.db.WithContext(ctx).Create(&RunRecord{
		LightID:   lightID,
		StartedAt: startedAt.UTC(),
		Settings:  datatypes.JSON(raw),
	}).Error
}

// Phases returns the latest phase changes of a light, newest first.
func (s *Store) Phases(ctx context.Context, lightID string, limit int) ([]PhaseRecord, error) {
	var records []PhaseRecord
	err := s.db.WithContext(ctx).
		Where("light_id = ?", lightID).
		Order("changed_at DESC").Order("id DESC").
		Limit(clampLimit(limit)).
		Find(&records).Error
	return records, err
}

// Crossings returns the latest crossings at a light, newest first.
func (s *Store) Crossings(ctx context.Context, lightID string, limit int) ([]CrossingRecord, error) {
	var records []CrossingRecord
	err := s.db.WithContext(ctx).
		Where("light_id = ?", lightID).
		Order("crossed_at DESC").Order("id DESC").
		Limit(clampLimit(limit)).
		Find(&records).Error
	return records, err
}

// Runs returns every recorded start of a light, oldest first.
func (s *Store) Runs(ctx context.Context, lightID string) ([]RunRecord, error) {
	var records []RunRecord
	err := s.db.WithContext(ctx).
		Where("light_id = ?", lightID).
		Order("started_at").Order("id").
		Find(&records).Error
	return records, err
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
