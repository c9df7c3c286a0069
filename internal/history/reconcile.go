package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/remote"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	BackupDocumentKey = "exerciseCache"

	backupFieldExercises = "exercises"
	backupFieldUpdatedAt = "updatedAt"
)

// BuildFromHistory replaces the cache with the replay of the user's most recent
// remote sessions (up to the rebuild window), applied oldest first so that each
// exercise history ends up most recent first.
// If fetching fails, the cache is left untouched.
func (c *Cache) BuildFromHistory(ctx context.Context, userID string) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "historyCache.buildFromHistory")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	start := time.Now()

	var sessions []workout.Session
	sessions, err = c.fetchRecentSessions(ctx, userID, c.settings.RebuildWindow)
	if err != nil {
		log.Errorf("exercise cache [%s], rebuild for user %s: %s", c.storageKey, userID, err)
		c.countRemoteFailure("rebuild")
		return
	}
	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))

	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := make(map[string]*ExerciseRecord)
	for i := len(sessions) - 1; i >= 0; i-- {
		c.processSession(full, sessions[i])
	}
	c.saveFull(ctx, full)

	if c.metrics != nil {
		c.metrics.CounterCacheRebuilds.Inc()
		c.metrics.HistCacheRebuildDuration.Observe(time.Since(start).Seconds())
	}
	log.Debugf("exercise cache [%s]: rebuilt from %d sessions, %d exercises", c.storageKey, len(sessions), len(full))
}

// VerifyIntegrity reports whether the cache needs a rebuild. It only detects
// exercises missing locally, not stale values.
func (c *Cache) VerifyIntegrity(ctx context.Context, userID string) (needsRebuild bool) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "historyCache.verifyIntegrity")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		span.SetAttributes(attribute.Bool("needs_rebuild", needsRebuild))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var sessions []workout.Session
	sessions, err = c.fetchRecentSessions(ctx, userID, c.settings.VerifyWindow)
	if err != nil {
		log.Errorf("exercise cache [%s], verify integrity for user %s: %s", c.storageKey, userID, err)
		c.countRemoteFailure("verify")
		return false
	}

	c.mutex.Lock()
	full := c.readFull(ctx)
	c.mutex.Unlock()

	if len(sessions) == 0 {
		return len(full) > 0
	}

	for _, s := range sessions {
		for _, ex := range s.StrengthExercises() {
			identity := workout.NormalizeName(ex.Name)
			if identity == "" {
				continue
			}
			if record, ok := full[identity]; !ok || len(record.History) == 0 {
				log.Debugf("exercise cache [%s]: missing history for [%s]", c.storageKey, identity)
				return true
			}
		}
	}

	return false
}

// ValidateAndRebuild rebuilds the cache if VerifyIntegrity says so,
// and reports whether it did.
func (c *Cache) ValidateAndRebuild(ctx context.Context, userID string) bool {
	if !c.VerifyIntegrity(ctx, userID) {
		return false
	}
	c.BuildFromHistory(ctx, userID)
	return true
}

// SyncToRemote backs up the serialized cache into the user's backup document.
func (c *Cache) SyncToRemote(ctx context.Context, userID string) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "historyCache.syncToRemote")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.mutex.Lock()
	full := c.readFull(ctx)
	c.mutex.Unlock()

	exercisesJson, err := json.Marshal(full)
	if err != nil {
		log.Errorf("exercise cache [%s], sync marshal: %s", c.storageKey, err)
		return
	}
	updatedAtJson, err := json.Marshal(c.NowFunc())
	if err != nil {
		log.Errorf("exercise cache [%s], sync marshal: %s", c.storageKey, err)
		return
	}

	payload := map[string]json.RawMessage{
		backupFieldExercises: exercisesJson,
		backupFieldUpdatedAt: updatedAtJson,
	}
	if err = c.remote.PutBackupDocument(ctx, userID, BackupDocumentKey, payload); err != nil {
		log.Errorf("exercise cache [%s], sync to remote for user %s: %s", c.storageKey, userID, err)
		c.countRemoteFailure("sync")
		return
	}

	log.Debugf("exercise cache [%s]: synced %d exercises to remote", c.storageKey, len(full))
}

// RestoreFromRemote replaces the local cache with the backed up one.
// Returns true only if a valid backup was found and written locally.
func (c *Cache) RestoreFromRemote(ctx context.Context, userID string) (restored bool) {
	var err error
	ctx, span := tracing.GlobalTracer.Start(ctx, "historyCache.restoreFromRemote")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		span.SetAttributes(attribute.Bool("restored", restored))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload, found, err := c.remote.GetBackupDocument(ctx, userID, BackupDocumentKey)
	if err != nil {
		log.Errorf("exercise cache [%s], restore from remote for user %s: %s", c.storageKey, userID, err)
		c.countRemoteFailure("restore")
		return false
	}
	if !found {
		log.Debugf("exercise cache [%s]: no remote backup for user %s", c.storageKey, userID)
		return false
	}

	exercisesJson, ok := payload[backupFieldExercises]
	if !ok {
		log.Warnf("exercise cache [%s]: remote backup has no exercises", c.storageKey)
		return false
	}

	full, err := parseCache(exercisesJson)
	if err != nil {
		err = fmt.Errorf("parse remote backup: %w", err)
		log.Errorf("exercise cache [%s]: %s", c.storageKey, err)
		return false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.saveFull(ctx, full)
}

// fetchRecentSessions pages newest first through at most limit sessions.
func (c *Cache) fetchRecentSessions(ctx context.Context, userID string, limit int) ([]workout.Session, error) {
	sessions := make([]workout.Session, 0, limit)
	var after *remote.Cursor
	for len(sessions) < limit {
		pageSize := min(c.settings.RebuildPageSize, limit-len(sessions))
		page, err := c.remote.QueryRecentSessions(ctx, userID, remote.Query{
			Limit: pageSize,
			After: after,
		})
		if err != nil {
			return nil, fmt.Errorf("query recent sessions: %w", err)
		}

		sessions = append(sessions, page.Sessions...)
		if page.Next == nil || len(page.Sessions) == 0 {
			break
		}
		after = page.Next
	}

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions, nil
}

func (c *Cache) countRemoteFailure(operation string) {
	if c.metrics != nil {
		c.metrics.CounterRemoteFailures.WithLabelValues(operation).Inc()
	}
}
