package attendance

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory Cache for store tests.
type memCache struct {
	values map[string][]byte
	saves  int
}

func newMemCache() *memCache {
	return &memCache{values: map[string][]byte{}}
}

func (c *memCache) Load(key string) ([]byte, error) {
	v, ok := c.values[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (c *memCache) Save(key string, value []byte) error {
	c.values[key] = value
	c.saves++
	return nil
}

func TestNewStoreFallsBackToSeed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("empty cache", func(t *testing.T) {
		store := NewStore(newMemCache(), now)
		assert.Equal(t, SeedLogs(now), store.Logs())
	})

	t.Run("unreadable cache", func(t *testing.T) {
		c := newMemCache()
		c.values[StorageKey] = []byte("{not json")
		store := NewStore(c, now)
		assert.Equal(t, SeedLogs(now), store.Logs())
	})

	t.Run("cached empty collection is not seeded over", func(t *testing.T) {
		c := newMemCache()
		c.values[StorageKey] = []byte("[]")
		store := NewStore(c, now)
		assert.Empty(t, store.Logs())
	})
}

func TestStoreAppendAndFindToday(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore(newMemCache(), now)

	record := EvaluateCheckIn(testUser, now, officeCoords(), testSettings)
	store.Append(record)

	// Newest first.
	logs := store.Logs()
	require.NotEmpty(t, logs)
	assert.Equal(t, record, logs[0])

	found, ok := store.FindToday(testUser.ID, now)
	require.True(t, ok)
	assert.Equal(t, record, found)

	// Other users and other days miss.
	_, ok = store.FindToday("someone-else", now)
	assert.False(t, ok)
	_, ok = store.FindToday(testUser.ID, now.Add(24*time.Hour))
	assert.False(t, ok)
}

func TestStoreUpdateByID(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore(newMemCache(), now)

	record := EvaluateCheckIn(testUser, now, officeCoords(), testSettings)
	store.Append(record)

	update := EvaluateCheckOut(record, now.Add(8*time.Hour), officeCoords(), testSettings)
	require.True(t, store.UpdateByID(record.ID, update))

	updated, ok := store.FindToday(testUser.ID, now)
	require.True(t, ok)
	assert.Equal(t, update.CheckOutTime, updated.CheckOutTime)
	assert.Equal(t, StatusPresent, updated.Status)

	// Check-in fields survive the merge untouched.
	assert.Equal(t, record.CheckInTime, updated.CheckInTime)
	assert.Equal(t, record.CheckInLat, updated.CheckInLat)
	assert.Equal(t, record.CheckInAddress, updated.CheckInAddress)
}

func TestStoreUpdateByIDUnknownIDIsNoop(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := newMemCache()
	store := NewStore(c, now)
	store.Append(EvaluateCheckIn(testUser, now, officeCoords(), testSettings))

	before := store.Logs()
	savesBefore := c.saves

	status := StatusApproved
	assert.False(t, store.UpdateByID("no-such-id", LogUpdate{Status: &status}))
	assert.Equal(t, before, store.Logs())
	assert.Equal(t, savesBefore, c.saves)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := NewStore(newMemCache(), now)

	snapshot := store.Logs()
	store.Append(EvaluateCheckIn(testUser, now, officeCoords(), testSettings))

	// The earlier snapshot is unaffected by later mutations.
	assert.Len(t, snapshot, len(SeedLogs(now)))
}

func TestStorePersistenceRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	c := newMemCache()

	store := NewStore(c, now)
	record := EvaluateCheckIn(testUser, now, remoteCoords(), testSettings)
	store.Append(record)
	store.UpdateByID(record.ID, EvaluateCheckOut(record, now.Add(8*time.Hour), officeCoords(), testSettings))

	// A fresh store over the same cache sees the identical collection.
	reloaded := NewStore(c, now)
	assert.Equal(t, store.Logs(), reloaded.Logs())

	// The persisted payload is plain JSON under the fixed key.
	var raw []AttendanceLog
	require.NoError(t, json.Unmarshal(c.values[StorageKey], &raw))
	assert.Equal(t, store.Logs(), raw)
}
