package history_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/2beens/workoutlog/internal/history"
	"github.com/2beens/workoutlog/internal/kvstore"
	"github.com/2beens/workoutlog/internal/remote"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/workout"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testUserID = "user-1"

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func newTestCache(t *testing.T, store *kvstore.FreecacheStore, remoteStore *remote.MemStore) *history.Cache {
	t.Helper()
	c := history.NewCache(
		history.StorageKey(testUserID),
		store,
		remoteStore,
		history.DefaultSettings(),
		metrics.NewTestManager(),
	)
	c.NowFunc = func() time.Time {
		return testNow
	}
	return c
}

func sets(weightsAndReps ...float64) []workout.Set {
	var s []workout.Set
	for i := 0; i+1 < len(weightsAndReps); i += 2 {
		s = append(s, workout.Set{
			Weight: weightsAndReps[i],
			Reps:   int(weightsAndReps[i+1]),
		})
	}
	return s
}

func TestCache_AddEntry_NoOpGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockkvStore(ctrl)
	remoteMock := NewMockremoteStore(ctrl)
	c := history.NewCache("key", storeMock, remoteMock, history.DefaultSettings(), nil)

	// no store calls expected at all
	ctx := context.Background()
	c.AddEntry(ctx, "", sets(60, 10), testNow)
	c.AddEntry(ctx, "   ", sets(60, 10), testNow)
	c.AddEntry(ctx, "!!!", sets(60, 10), testNow)
	c.AddEntry(ctx, "Bench Press", nil, testNow)
	c.AddEntry(ctx, "Bench Press", []workout.Set{}, testNow)
	c.ProcessCompletedSession(ctx, workout.Session{Date: testNow})
}

func TestCache_AddEntry_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	d1 := testNow.AddDate(0, 0, -3)
	d2 := testNow.AddDate(0, 0, -2)
	d3 := testNow.AddDate(0, 0, -1)
	c.AddEntry(ctx, "Bench Press", sets(60, 10), d1)
	c.AddEntry(ctx, "bench   PRESS", sets(65, 8), d2)
	c.AddEntry(ctx, " Bench Press ", sets(70, 6), d3)

	entries := c.History(ctx, "bench press")
	require.Len(t, entries, 3)
	assert.Equal(t, d3, entries[0].Date)
	assert.Equal(t, d2, entries[1].Date)
	assert.Equal(t, d1, entries[2].Date)
	assert.Equal(t, d3.UnixMilli(), entries[0].Timestamp)
	assert.Equal(t, sets(70, 6), entries[0].Sets)

	full := c.FullCache(ctx)
	require.Len(t, full, 1)
	record, ok := full["bench_press"]
	require.True(t, ok)
	assert.Equal(t, "Bench Press", record.OriginalName)

	last, ok := c.LastEntry(ctx, "BENCH PRESS")
	require.True(t, ok)
	assert.Equal(t, d3, last.Date)
}

func TestCache_AddEntry_ZeroDateDefaultsToNow(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	c.AddEntry(ctx, "Squat", sets(100, 5), time.Time{})

	last, ok := c.LastEntry(ctx, "squat")
	require.True(t, ok)
	assert.Equal(t, testNow, last.Date)
}

func TestCache_History_Unknown(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	entries := c.History(ctx, "deadlift")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, ok := c.LastEntry(ctx, "deadlift")
	assert.False(t, ok)
}

func TestCache_History_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())
	c.AddEntry(ctx, "Row", sets(50, 12), testNow)

	entries := c.History(ctx, "row")
	require.Len(t, entries, 1)
	entries[0].Sets[0].Weight = 999

	full := c.FullCache(ctx)
	full["row"].History[0].Sets[0].Reps = 1

	again := c.History(ctx, "row")
	assert.Equal(t, sets(50, 12), again[0].Sets)
}

func TestCache_Suggestions(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	noHistory := c.Suggestions(ctx, "bench press")
	assert.False(t, noHistory.HasHistory)
	assert.Nil(t, noHistory.SuggestedWeight)
	assert.Nil(t, noHistory.SuggestedReps)
	assert.Nil(t, noHistory.LastSessionDate)
	assert.Nil(t, noHistory.DaysSinceLastSession)

	older := testNow.AddDate(0, 0, -10)
	lastDate := testNow.Add(-(3*24 + 5) * time.Hour)
	c.AddEntry(ctx, "Bench Press", sets(100, 1), older)
	c.AddEntry(ctx, "Bench Press", sets(60, 10, 70, 8, 65, 6), lastDate)

	s := c.Suggestions(ctx, "bench press")
	require.True(t, s.HasHistory)
	require.NotNil(t, s.SuggestedWeight)
	require.NotNil(t, s.SuggestedReps)
	require.NotNil(t, s.DaysSinceLastSession)
	require.NotNil(t, s.LastSessionDate)
	// only the most recent entry counts
	assert.Equal(t, 70.0, *s.SuggestedWeight)
	assert.Equal(t, 8, *s.SuggestedReps)
	assert.Equal(t, 3, *s.DaysSinceLastSession)
	assert.Equal(t, lastDate, *s.LastSessionDate)
	assert.Equal(t, sets(60, 10, 70, 8, 65, 6), s.LastSets)
}

func TestCache_Suggestions_RepsRounded(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	c.AddEntry(ctx, "Curl", sets(12.5, 10, 12.5, 9, 10, 9, 10, 9), testNow)

	s := c.Suggestions(ctx, "curl")
	require.True(t, s.HasHistory)
	// 37 / 4 = 9.25
	assert.Equal(t, 9, *s.SuggestedReps)
	assert.Equal(t, 12.5, *s.SuggestedWeight)
	assert.Equal(t, 0, *s.DaysSinceLastSession)
}

func TestCache_ProcessCompletedSession(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	sessionDate := testNow.AddDate(0, 0, -1)
	c.ProcessCompletedSession(ctx, workout.Session{
		Date: sessionDate,
		Exercises: []workout.SessionExercise{
			{Name: "Bench Press", ExerciseType: workout.ExerciseTypeStrength, Sets: sets(60, 10)},
			{Name: "Running", ExerciseType: workout.ExerciseTypeCardio, Sets: sets(0, 30)},
			{Name: "Plank", ExerciseType: "core", Sets: sets(0, 60)},
			{Name: "Squat", ExerciseType: workout.ExerciseTypeStrength},
			{Name: "Row", ExerciseType: workout.ExerciseTypeStrength, Sets: sets(50, 12)},
		},
	})

	full := c.FullCache(ctx)
	require.Len(t, full, 2)
	assert.Contains(t, full, "bench_press")
	assert.Contains(t, full, "row")
	assert.Equal(t, sessionDate, full["row"].History[0].Date)
}

func TestCache_CleanOldEntries(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, kvstore.NewFreecacheStore(1024*1024), remote.NewMemStore())

	c.AddEntry(ctx, "Bench Press", sets(60, 10), testNow.AddDate(0, 0, -10))
	c.AddEntry(ctx, "Bench Press", sets(62.5, 10), testNow.AddDate(0, 0, -8))
	c.AddEntry(ctx, "Bench Press", sets(65, 10), testNow.AddDate(0, 0, -1))
	c.AddEntry(ctx, "Squat", sets(100, 5), testNow.AddDate(0, 0, -9))

	removed := c.CleanOldEntries(ctx)
	assert.Equal(t, 3, removed)

	full := c.FullCache(ctx)
	require.Len(t, full, 1)
	require.Len(t, full["bench_press"].History, 1)
	assert.Equal(t, testNow.AddDate(0, 0, -1), full["bench_press"].History[0].Date)

	assert.Equal(t, 0, c.CleanOldEntries(ctx))
	assert.Equal(t, full, c.FullCache(ctx))
}

func TestCache_CleanOldEntries_NoChangeNoWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockkvStore(ctrl)
	remoteMock := NewMockremoteStore(ctrl)
	c := history.NewCache("key", storeMock, remoteMock, history.DefaultSettings(), nil)
	c.NowFunc = func() time.Time {
		return testNow
	}

	blob, err := json.Marshal(map[string]history.ExerciseRecord{
		"squat": {
			OriginalName: "Squat",
			History: []history.Entry{
				{Date: testNow.AddDate(0, 0, -2), Timestamp: testNow.AddDate(0, 0, -2).UnixMilli(), Sets: sets(100, 5)},
			},
		},
	})
	require.NoError(t, err)

	storeMock.EXPECT().Get(gomock.Any(), "key").Return(string(blob), true, nil).Times(1)
	// Set must not be called

	assert.Equal(t, 0, c.CleanOldEntries(context.Background()))
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewFreecacheStore(1024 * 1024)
	c := newTestCache(t, store, remote.NewMemStore())

	c.AddEntry(ctx, "Bench Press", sets(60, 10), testNow)
	require.Len(t, c.FullCache(ctx), 1)

	c.Clear(ctx)
	assert.Empty(t, c.FullCache(ctx))

	_, found, err := store.Get(ctx, history.StorageKey(testUserID))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_CorruptBlobReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewFreecacheStore(1024 * 1024)
	metricsManager := metrics.NewTestManager()
	c := history.NewCache(history.StorageKey(testUserID), store, remote.NewMemStore(), history.DefaultSettings(), metricsManager)

	require.NoError(t, store.Set(ctx, history.StorageKey(testUserID), "{not json"))

	assert.Empty(t, c.FullCache(ctx))
	assert.Empty(t, c.History(ctx, "bench press"))
	assert.Equal(t, 2.0, testutil.ToFloat64(metricsManager.CounterCacheCorruptReads))

	// next write replaces the corrupt blob
	c.AddEntry(ctx, "Bench Press", sets(60, 10), testNow)
	assert.Len(t, c.History(ctx, "bench press"), 1)
}

func TestCache_NullBlobReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewFreecacheStore(1024 * 1024)
	metricsManager := metrics.NewTestManager()
	c := history.NewCache(history.StorageKey(testUserID), store, remote.NewMemStore(), history.DefaultSettings(), metricsManager)

	require.NoError(t, store.Set(ctx, history.StorageKey(testUserID), "null"))

	assert.NotPanics(t, func() {
		c.AddEntry(ctx, "Bench Press", sets(60, 10), testNow)
	})
	assert.Len(t, c.History(ctx, "bench press"), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterCacheCorruptReads))
}

func TestCache_ReadFailureReadsAsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockkvStore(ctrl)
	remoteMock := NewMockremoteStore(ctrl)
	c := history.NewCache("key", storeMock, remoteMock, history.DefaultSettings(), nil)

	storeMock.EXPECT().Get(gomock.Any(), "key").Return("", false, fmt.Errorf("connection refused")).Times(1)

	assert.Empty(t, c.History(context.Background(), "bench press"))
}

func TestCache_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	// freecache with the minimum size accepts values up to 512 bytes
	store := kvstore.NewFreecacheStore(512 * 1024)
	metricsManager := metrics.NewTestManager()
	c := history.NewCache(history.StorageKey(testUserID), store, remote.NewMemStore(), history.DefaultSettings(), metricsManager)
	c.NowFunc = func() time.Time {
		return testNow
	}

	c.AddEntry(ctx, "Bench Press", sets(60, 10), testNow)
	require.Len(t, c.History(ctx, "bench press"), 1)

	for i := 0; i < 20; i++ {
		c.AddEntry(ctx, fmt.Sprintf("Exercise %d", i), sets(60, 10, 65, 8, 70, 6), testNow)
	}

	assert.Greater(t, testutil.ToFloat64(metricsManager.CounterCacheWriteFailures), 0.0)
	// the last successfully persisted state is still readable
	assert.Len(t, c.History(ctx, "bench press"), 1)
	assert.Less(t, len(c.FullCache(ctx)), 21)
}

func TestCache_WriteFailure_Mocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	storeMock := NewMockkvStore(ctrl)
	remoteMock := NewMockremoteStore(ctrl)
	metricsManager := metrics.NewTestManager()
	c := history.NewCache("key", storeMock, remoteMock, history.DefaultSettings(), metricsManager)

	storeMock.EXPECT().Get(gomock.Any(), "key").Return("", false, nil).Times(1)
	storeMock.EXPECT().Set(gomock.Any(), "key", gomock.Any()).Return(kvstore.ErrQuotaExceeded).Times(1)

	assert.NotPanics(t, func() {
		c.AddEntry(context.Background(), "Bench Press", sets(60, 10), testNow)
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterCacheWriteFailures))
}
