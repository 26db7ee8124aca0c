package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStats(t *testing.T) {
	repo := NewMemoryRepository()

	require.NoError(t, repo.RecordEvent(EventBuy, 1, EventMetadata{"item": "쌀", "qty": 5, "unit": 100, "total": 500}))
	require.NoError(t, repo.RecordEvent(EventSell, 1, EventMetadata{"item": "쌀", "qty": 3, "unit": 90, "total": 270}))
	require.NoError(t, repo.RecordEvent(EventTravel, 1, EventMetadata{"dest": "개성", "cost": 50}))
	require.NoError(t, repo.RecordEvent(EventHire, 1, EventMetadata{"name": "돌쇠", "cost": 300}))
	require.NoError(t, repo.RecordEvent(EventSave, 1, nil))

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 5)

	stats := CalculateStats(events, time.Time{})
	assert.Equal(t, 2, stats.Trades)
	assert.Equal(t, 5, stats.UnitsBought)
	assert.Equal(t, 3, stats.UnitsSold)
	assert.Equal(t, 500, stats.CurrencySpent)
	assert.Equal(t, 270, stats.CurrencyEarn)
	assert.Equal(t, 1, stats.Travels)
	assert.Equal(t, 50, stats.TravelSpend)
	assert.Equal(t, 1, stats.Hires)
	assert.Equal(t, 1, stats.Saves)
	assert.Equal(t, 8, stats.ItemVolume["쌀"])
}

func TestGetEvents_Filters(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.RecordEvent(EventBuy, 1, nil))
	require.NoError(t, repo.RecordEvent(EventSave, 2, nil))

	events, err := repo.GetEvents(time.Time{}, []EventType{EventSave})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Slot)

	events, err = repo.GetEvents(time.Now().Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFileRepository_JournalSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.RecordEvent(EventBuy, 1, EventMetadata{"item": "베", "qty": 2}))
	require.NoError(t, repo.RecordEvent(EventSave, 1, nil))

	again, err := NewFileRepository(dir)
	require.NoError(t, err)
	events, err := again.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventBuy, events[0].Type)
}
