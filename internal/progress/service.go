package progress

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/workoutlog/internal/history"
	"github.com/2beens/workoutlog/internal/remote"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workout"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

const (
	DefaultFreshnessWindow = 5 * time.Minute
	DefaultMinSessions     = 3

	remotePageSize     = 100
	freshnessKeyPrefix = "progress-exercises||"
)

type cacheProvider interface {
	For(userID string) *history.Cache
}

type remoteStore interface {
	QueryRecentSessions(ctx context.Context, userID string, query remote.Query) (*remote.Page, error)
}

// Service answers progress questions from the exercise history cache,
// falling back to scanning remote sessions when the cache has nothing.
type Service struct {
	caches          cacheProvider
	remote          remoteStore
	freshness       *freecache.Cache
	freshnessWindow time.Duration
	location        *time.Location
	metrics         *metrics.Manager

	// ability to inject the clock (for unit and dev testing)
	NowFunc func() time.Time
}

func NewService(
	caches cacheProvider,
	remote remoteStore,
	freshness *freecache.Cache,
	location *time.Location,
	metricsManager *metrics.Manager,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		caches:          caches,
		remote:          remote,
		freshness:       freshness,
		freshnessWindow: DefaultFreshnessWindow,
		location:        location,
		metrics:         metricsManager,
		NowFunc:         time.Now,
	}
}

// ListExercisesWithHistory lists exercises having at least minSessions entries
// (3 when minSessions <= 0), most frequent first, then by name.
func (s *Service) ListExercisesWithHistory(ctx context.Context, userID string, minSessions int) []ExerciseSummary {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressService.listExercises")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if minSessions <= 0 {
		minSessions = DefaultMinSessions
	}

	summaries, fresh := s.freshSummaries(userID)
	span.SetAttributes(attribute.Bool("fresh", fresh))
	if !fresh {
		summaries = s.computeSummaries(ctx, userID)
		s.storeSummaries(userID, summaries)
	}

	return filterSummaries(summaries, minSessions)
}

func (s *Service) computeSummaries(ctx context.Context, userID string) []ExerciseSummary {
	cache := s.caches.For(userID)
	cache.ValidateAndRebuild(ctx, userID)

	summaries := summarize(cache.FullCache(ctx))
	if len(summaries) > 0 {
		return summaries
	}

	log.Debugf("progress: no cached exercises for user %s, aggregating remote sessions", userID)
	sessions, err := remote.AllSessions(ctx, s.remote, userID, remotePageSize)
	if err != nil {
		log.Errorf("progress: list exercises for user %s, remote aggregation: %s", userID, err)
		s.countRemoteFailure("progress_list")
		return []ExerciseSummary{}
	}

	return summarizeSessions(sessions)
}

// summarizeSessions counts strength exercise occurrences over sessions given newest first.
// Display names are taken from the oldest occurrence.
func summarizeSessions(sessions []workout.Session) []ExerciseSummary {
	byIdentity := make(map[string]*ExerciseSummary)
	for i := len(sessions) - 1; i >= 0; i-- {
		for _, ex := range sessions[i].StrengthExercises() {
			identity := workout.NormalizeName(ex.Name)
			if identity == "" {
				continue
			}
			summary, ok := byIdentity[identity]
			if !ok {
				summary = &ExerciseSummary{
					Name:     ex.Name,
					Identity: identity,
				}
				byIdentity[identity] = summary
			}
			summary.SessionCount++
		}
	}

	summaries := make([]ExerciseSummary, 0, len(byIdentity))
	for _, summary := range byIdentity {
		summaries = append(summaries, *summary)
	}
	sortSummaries(summaries)
	return summaries
}

// TimeSeries returns one point per history entry of the exercise within the period,
// ascending by date; empty when there are fewer than MinSeriesPoints entries.
func (s *Service) TimeSeries(ctx context.Context, userID, exerciseName string, period Period) (_ []Point, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressService.timeSeries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("exercise", exerciseName),
		attribute.String("period", string(period)),
	)

	cutoff, err := period.Cutoff(s.NowFunc())
	if err != nil {
		return nil, err
	}

	identity := workout.NormalizeName(exerciseName)
	if identity == "" {
		return []Point{}, nil
	}

	entries := s.caches.For(userID).History(ctx, exerciseName)
	if len(entries) == 0 {
		entries = s.remoteEntries(ctx, userID, identity)
	}

	return Series(entries, cutoff), nil
}

// ChartSeries is TimeSeries with same-day points merged.
func (s *Service) ChartSeries(ctx context.Context, userID, exerciseName string, period Period) ([]Point, error) {
	points, err := s.TimeSeries(ctx, userID, exerciseName, period)
	if err != nil {
		return nil, err
	}
	return CollapseByDay(points, s.location), nil
}

func (s *Service) remoteEntries(ctx context.Context, userID, identity string) []history.Entry {
	sessions, err := remote.AllSessions(ctx, s.remote, userID, remotePageSize)
	if err != nil {
		log.Errorf("progress: time series for user %s [%s], remote scan: %s", userID, identity, err)
		s.countRemoteFailure("progress_series")
		return nil
	}

	var entries []history.Entry
	for _, session := range sessions {
		for _, ex := range session.StrengthExercises() {
			if workout.NormalizeName(ex.Name) != identity {
				continue
			}
			entries = append(entries, history.Entry{
				Date:      session.Date,
				Timestamp: session.Date.UnixMilli(),
				Sets:      workout.CopySets(ex.Sets),
			})
		}
	}

	return entries
}

// Invalidate drops the user's cached exercise list, e.g. after a new session is recorded.
func (s *Service) Invalidate(userID string) {
	s.freshness.Del(freshnessKey(userID))
}

func (s *Service) freshSummaries(userID string) ([]ExerciseSummary, bool) {
	raw, err := s.freshness.Get(freshnessKey(userID))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("progress: read freshness entry for user %s: %s", userID, err)
		}
		return nil, false
	}

	var summaries []ExerciseSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		log.Warnf("progress: corrupt freshness entry for user %s: %s", userID, err)
		return nil, false
	}

	return summaries, true
}

func (s *Service) storeSummaries(userID string, summaries []ExerciseSummary) {
	raw, err := json.Marshal(summaries)
	if err != nil {
		log.Errorf("progress: marshal exercise summaries: %s", err)
		return
	}

	expireSeconds := int(s.freshnessWindow.Seconds())
	if err := s.freshness.Set(freshnessKey(userID), raw, expireSeconds); err != nil {
		log.Warnf("progress: store freshness entry for user %s: %s", userID, err)
	}
}

func (s *Service) countRemoteFailure(operation string) {
	if s.metrics != nil {
		s.metrics.CounterRemoteFailures.WithLabelValues(operation).Inc()
	}
}

func freshnessKey(userID string) []byte {
	return []byte(freshnessKeyPrefix + userID)
}
