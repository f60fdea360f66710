// ABOUTME: Tests for step, water and body-metric persistence.
// ABOUTME: Covers the per-day step upsert and range filtering.
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStepsUpsertsPerDay(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local)

	require.NoError(t, db.SaveSteps(models.NewStepLog(u.ID, day, 4000)))
	require.NoError(t, db.SaveSteps(models.NewStepLog(u.ID, day, 9500)))
	require.NoError(t, db.SaveSteps(models.NewStepLog(u.ID, day.AddDate(0, 0, 1), 3000)))

	logs, err := db.ListSteps(u.ID, DayRange(day))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 9500, logs[0].Steps)

	all, err := db.ListSteps(u.ID, Range{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveStepsKeepsStoredID(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local)

	first := models.NewStepLog(u.ID, day, 4000)
	require.NoError(t, db.SaveSteps(first))

	second := models.NewStepLog(u.ID, day, 9500)
	require.NotEqual(t, first.ID, second.ID)
	require.NoError(t, db.SaveSteps(second))
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	logs, err := db.ListSteps(u.ID, DayRange(day))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, second.ID, logs[0].ID)
}

func TestWaterLogs(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)
	day := time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local)

	for i, ml := range []int{250, 500, 330} {
		w := models.NewWaterLog(u.ID, ml)
		w.Date = day.Add(time.Duration(8+i*4) * time.Hour)
		require.NoError(t, db.CreateWater(w))
	}
	late := models.NewWaterLog(u.ID, 1000)
	late.Date = day.AddDate(0, 0, 1).Add(time.Hour)
	require.NoError(t, db.CreateWater(late))

	logs, err := db.ListWater(u.ID, DayRange(day))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, 250, logs[0].AmountMl)
}

func TestBodyMetrics(t *testing.T) {
	db := setupTestDB(t)
	u := createTestUser(t, db)

	older := models.NewBodyMetrics(u.ID, 82)
	older.RecordedAt = time.Now().Add(-48 * time.Hour)
	fat := 18.5
	newer := models.NewBodyMetrics(u.ID, 81.2).WithNotes("after holiday")
	newer.BodyFatPct = &fat
	require.NoError(t, db.CreateBodyMetrics(older))
	require.NoError(t, db.CreateBodyMetrics(newer))

	got, err := db.ListBodyMetrics(u.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 81.2, got[0].WeightKg)
	require.NotNil(t, got[0].BodyFatPct)
	assert.Equal(t, 18.5, *got[0].BodyFatPct)
	require.NotNil(t, got[0].Notes)
	assert.Nil(t, got[1].Notes)

	latest, err := db.ListBodyMetrics(u.ID, 1)
	require.NoError(t, err)
	assert.Len(t, latest, 1)
}
