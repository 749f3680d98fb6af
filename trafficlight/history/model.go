// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"time"

	"gorm.io/datatypes"
)

// PhaseRecord is one persisted phase change.
type PhaseRecord struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	LightID   string    `json:"lightId" gorm:"size:64;index:idx_phase_light_at,priority:1"`
	Cycle     uint64    `json:"cycle"`
	FromPhase string    `json:"from" gorm:"size:8"`
	ToPhase   string    `json:"to" gorm:"size:8"`
	ChangedAt time.Time `json:"at" gorm:"index:idx_phase_light_at,priority:2"`
	ElapsedMs int64     `json:"elapsedMs"`
}

// CrossingRecord is one vehicle that went through the intersection.
type CrossingRecord struct {
	ID        uint      `json:"-" gorm:"primarykey"`
	LightID   string    `json:"lightId" gorm:"size:64;index:idx_crossing_light_crossed,priority:1"`
	VehicleID string    `json:"vehicleId" gorm:"size:64"`
	ArrivedAt time.Time `json:"arrivedAt"`
	CrossedAt time.Time `json:"crossedAt" gorm:"index:idx_crossing_light_crossed,priority:2"`
	WaitedMs  int64     `json:"waitedMs"`
}

// RunRecord is one simulator start together with the settings it ran with.
type RunRecord struct {
	ID        uint           `json:"-" gorm:"primarykey"`
	LightID   string         `json:"lightId" gorm:"size:64;index"`
	StartedAt time.Time      `json:"startedAt"`
	Settings  datatypes.JSON `json:"settings"`
}

var models = []interface{}{
	&PhaseRecord{},
	&CrossingRecord{},
	&RunRecord{},
}
