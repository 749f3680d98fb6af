// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Shivam-Bhardwaj/traffic-light-simulator/trafficlight/core"
)

func newTestStore(t *testing.T) *Store {
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type closingPool struct {
	gorm.ConnPool
	closed bool
}

func (p *closingPool) Close() error {
	p.closed = true
	return nil
}

func TestCloseConnPool(t *testing.T) {
	pool := &closingPool{}
	closeConnPool(pool)
	assert.True(t, pool.closed)

	// pools without Close are left alone
	closeConnPool(struct{ gorm.ConnPool }{})
}

func TestOpenFailsOnUnreachableFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "history.db"))
	assert.Error(t, err)
}

func phaseChange(lightID string, cycle uint64, at time.Time) core.PhaseChange {
	from := core.Red
	if cycle%2 == 0 {
		from = core.Green
	}
	return core.PhaseChange{
		LightID: lightID,
		From:    from,
		To:      from.Toggle(),
		At:      at,
		Elapsed: 5 * time.Second,
		Cycle:   cycle,
	}
}

func TestDialectorSelection(t *testing.T) {
	for dsn, expected := range map[string]string{
		"":                                       "sqlite",
		":memory:":                               "sqlite",
		"/tmp/history.db":                        "sqlite",
		"postgres://user@localhost/trafficlight": "postgres",
		"host=localhost port=5432 user=tl":       "postgres",
	} {
		dialector, _ := dialectorFor(dsn)
		assert.Equal(t, expected, dialector.Name(), dsn)
	}
}

func TestPhasesNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for cycle := uint64(1); cycle <= 5; cycle++ {
		require.NoError(t, store.RecordPhase(ctx, phaseChange("main", cycle, start.Add(time.Duration(cycle)*time.Second))))
	}
	require.NoError(t, store.RecordPhase(ctx, phaseChange("side", 1, start)))

	records, err := store.Phases(ctx, "main", 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, uint64(5), records[0].Cycle)
	assert.Equal(t, uint64(4), records[1].Cycle)
	assert.Equal(t, uint64(3), records[2].Cycle)
	assert.Equal(t, "RED", records[0].FromPhase)
	assert.Equal(t, "GREEN", records[0].ToPhase)
	assert.Equal(t, int64(5000), records[0].ElapsedMs)
	assert.True(t, records[0].ChangedAt.Equal(start.Add(5*time.Second)))

	all, err := store.Phases(ctx, "main", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := store.Phases(ctx, "unknown", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCrossings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	arrived := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordCrossing(ctx, "main", "car-1", arrived, arrived.Add(1500*time.Millisecond)))
	require.NoError(t, store.RecordCrossing(ctx, "main", "car-2", arrived, arrived.Add(3*time.Second)))

	records, err := store.Crossings(ctx, "main", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "car-2", records[0].VehicleID)
	assert.Equal(t, int64(3000), records[0].WaitedMs)
	assert.Equal(t, "car-1", records[1].VehicleID)
	assert.Equal(t, int64(1500), records[1].WaitedMs)
}

func TestRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings := map[string]interface{}{"cycleMin": 4, "cycleMax": 6}
	require.NoError(t, store.RecordRun(ctx, "main", time.Now(), settings))

	runs, err := store.Runs(ctx, "main")
	require.NoError(t, err)
	require.Len(t, runs, 1)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(runs[0].Settings, &decoded))
	assert.Equal(t, map[string]int{"cycleMin": 4, "cycleMax": 6}, decoded)

	assert.Error(t, store.RecordRun(ctx, "main", time.Now(), make(chan int)))
}

func TestFileDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.RecordPhase(ctx, phaseChange("main", 1, time.Now())))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Phases(ctx, "main", 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
