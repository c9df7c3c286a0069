package history

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/workout"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultRetention       = 7 * 24 * time.Hour
	DefaultRebuildWindow   = 300
	DefaultRebuildPageSize = 50
	DefaultVerifyWindow    = 10

	storageKeyPrefix = "exercise-history-cache||"
)

type Settings struct {
	// Retention is how long history entries survive CleanOldEntries.
	Retention time.Duration
	// RebuildWindow is the max number of recent remote sessions replayed on rebuild.
	RebuildWindow   int
	RebuildPageSize int
	// VerifyWindow is the number of recent remote sessions checked by VerifyIntegrity.
	VerifyWindow int
}

func DefaultSettings() Settings {
	return Settings{
		Retention:       DefaultRetention,
		RebuildWindow:   DefaultRebuildWindow,
		RebuildPageSize: DefaultRebuildPageSize,
		VerifyWindow:    DefaultVerifyWindow,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Retention <= 0 {
		s.Retention = d.Retention
	}
	if s.RebuildWindow <= 0 {
		s.RebuildWindow = d.RebuildWindow
	}
	if s.RebuildPageSize <= 0 {
		s.RebuildPageSize = d.RebuildPageSize
	}
	if s.VerifyWindow <= 0 {
		s.VerifyWindow = d.VerifyWindow
	}
	return s
}

// StorageKey is the key under which the user's serialized cache is stored.
func StorageKey(userID string) string {
	return storageKeyPrefix + userID
}

// Cache maps an exercise identity to its recent history. The whole mapping is
// persisted as one JSON blob under a single key and is always read-modify-written
// as a whole. Storage and remote failures are logged and never returned:
// at worst the cache is stale or empty.
type Cache struct {
	mutex      sync.Mutex
	storageKey string
	store      kvStore
	remote     remoteStore
	settings   Settings
	metrics    *metrics.Manager

	// ability to inject the clock (for unit and dev testing)
	NowFunc func() time.Time
}

func NewCache(
	storageKey string,
	store kvStore,
	remote remoteStore,
	settings Settings,
	metricsManager *metrics.Manager,
) *Cache {
	return &Cache{
		storageKey: storageKey,
		store:      store,
		remote:     remote,
		settings:   settings.withDefaults(),
		metrics:    metricsManager,
		NowFunc:    time.Now,
	}
}

// AddEntry records sets for the exercise at date (now, if zero) at the head of its history.
// Empty names and empty sets are ignored.
func (c *Cache) AddEntry(ctx context.Context, exerciseName string, sets []workout.Set, date time.Time) {
	if workout.NormalizeName(exerciseName) == "" || len(sets) == 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := c.readFull(ctx)
	c.addEntry(full, exerciseName, sets, date)
	c.saveFull(ctx, full)
}

func (c *Cache) addEntry(full map[string]*ExerciseRecord, exerciseName string, sets []workout.Set, date time.Time) {
	identity := workout.NormalizeName(exerciseName)
	if identity == "" || len(sets) == 0 {
		return
	}
	if date.IsZero() {
		date = c.NowFunc()
	}

	record, ok := full[identity]
	if !ok {
		record = &ExerciseRecord{
			OriginalName: strings.TrimSpace(exerciseName),
		}
		full[identity] = record
	}

	record.History = append([]Entry{newEntry(sets, date)}, record.History...)
}

// History returns a copy of the exercise history, most recent first.
// Unknown exercises yield an empty slice.
func (c *Cache) History(ctx context.Context, exerciseName string) []Entry {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	record, ok := c.readFull(ctx)[workout.NormalizeName(exerciseName)]
	if !ok {
		return []Entry{}
	}
	return record.copy().History
}

func (c *Cache) LastEntry(ctx context.Context, exerciseName string) (Entry, bool) {
	entries := c.History(ctx, exerciseName)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}

// Suggestions derives the next weight/reps from the most recent entry only:
// max weight and rounded mean reps of its sets.
func (c *Cache) Suggestions(ctx context.Context, exerciseName string) Suggestions {
	last, ok := c.LastEntry(ctx, exerciseName)
	if !ok || len(last.Sets) == 0 {
		return Suggestions{}
	}

	maxWeight := last.Sets[0].Weight
	totalReps := 0
	for _, s := range last.Sets {
		maxWeight = max(maxWeight, s.Weight)
		totalReps += s.Reps
	}
	avgReps := int(math.Round(float64(totalReps) / float64(len(last.Sets))))

	lastDate := last.Date
	daysSince := int(math.Floor(c.NowFunc().Sub(lastDate).Hours() / 24))

	return Suggestions{
		HasHistory:           true,
		SuggestedWeight:      &maxWeight,
		SuggestedReps:        &avgReps,
		LastSets:             last.Sets,
		LastSessionDate:      &lastDate,
		DaysSinceLastSession: &daysSince,
	}
}

// ProcessCompletedSession adds an entry for every strength exercise of the session
// that has sets. Cardio and other exercise types are skipped.
func (c *Cache) ProcessCompletedSession(ctx context.Context, session workout.Session) {
	if len(session.StrengthExercises()) == 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := c.readFull(ctx)
	c.processSession(full, session)
	c.saveFull(ctx, full)
}

func (c *Cache) processSession(full map[string]*ExerciseRecord, session workout.Session) {
	for _, ex := range session.StrengthExercises() {
		c.addEntry(full, ex.Name, ex.Sets, session.Date)
	}
}

// CleanOldEntries drops entries older than the retention window and exercises
// left without entries. Persists only when something changed.
func (c *Cache) CleanOldEntries(ctx context.Context) (removed int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := c.readFull(ctx)
	cutoff := c.NowFunc().Add(-c.settings.Retention).UnixMilli()
	changed := false

	for identity, record := range full {
		kept := make([]Entry, 0, len(record.History))
		for _, e := range record.History {
			if e.Timestamp < cutoff {
				removed++
				continue
			}
			kept = append(kept, e)
		}

		if len(kept) == 0 {
			delete(full, identity)
			changed = true
			continue
		}
		if len(kept) != len(record.History) {
			record.History = kept
			changed = true
		}
	}

	if !changed {
		return 0
	}

	c.saveFull(ctx, full)
	if c.metrics != nil {
		c.metrics.CounterCacheEvictedEntries.Add(float64(removed))
	}
	log.Debugf("exercise cache [%s]: cleaned %d old entries", c.storageKey, removed)

	return removed
}

// Clear deletes the persisted cache.
func (c *Cache) Clear(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.clear(ctx)
}

func (c *Cache) clear(ctx context.Context) {
	if err := c.store.Remove(ctx, c.storageKey); err != nil {
		log.Errorf("exercise cache [%s], clear: %s", c.storageKey, err)
	}
}

// FullCache returns a copy of the whole identity -> record mapping.
func (c *Cache) FullCache(ctx context.Context) map[string]ExerciseRecord {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := c.readFull(ctx)
	result := make(map[string]ExerciseRecord, len(full))
	for identity, record := range full {
		result[identity] = record.copy()
	}
	return result
}

// readFull never fails: a missing, unreadable or corrupt blob reads as an empty cache.
func (c *Cache) readFull(ctx context.Context) map[string]*ExerciseRecord {
	full := make(map[string]*ExerciseRecord)

	raw, ok, err := c.store.Get(ctx, c.storageKey)
	if err != nil {
		log.Errorf("exercise cache [%s], read: %s", c.storageKey, err)
		return full
	}
	if !ok || raw == "" {
		return full
	}

	parsed, err := parseCache([]byte(raw))
	if err != nil {
		log.Errorf("exercise cache [%s], corrupt data, treating as empty: %s", c.storageKey, err)
		if c.metrics != nil {
			c.metrics.CounterCacheCorruptReads.Inc()
		}
		return full
	}

	return parsed
}

var errNullCache = errors.New("cache data is null")

func parseCache(data []byte) (map[string]*ExerciseRecord, error) {
	parsed := make(map[string]*ExerciseRecord)
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	// a JSON null unmarshals into a nil map
	if parsed == nil {
		return nil, errNullCache
	}
	for identity, record := range parsed {
		if record == nil {
			delete(parsed, identity)
		}
	}
	return parsed, nil
}

// saveFull persists the whole mapping. A failed write is logged and dropped.
func (c *Cache) saveFull(ctx context.Context, full map[string]*ExerciseRecord) bool {
	data, err := json.Marshal(full)
	if err != nil {
		log.Errorf("exercise cache [%s], marshal: %s", c.storageKey, err)
		c.countWriteFailure()
		return false
	}

	if err := c.store.Set(ctx, c.storageKey, string(data)); err != nil {
		log.Errorf("exercise cache [%s], persist %d bytes: %s", c.storageKey, len(data), err)
		c.countWriteFailure()
		return false
	}

	return true
}

func (c *Cache) countWriteFailure() {
	if c.metrics != nil {
		c.metrics.CounterCacheWriteFailures.Inc()
	}
}
