package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/history"
	"github.com/2beens/workoutlog/internal/telemetry/metrics"
	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=recorder_test

var (
	ErrEmptySession = errors.New("session has no exercises")
	ErrMissingUser  = errors.New("user id empty")
)

type sessionStore interface {
	AddSession(ctx context.Context, userID string, session workout.Session) (*workout.Session, error)
}

type cacheProvider interface {
	For(userID string) *history.Cache
}

type progressInvalidator interface {
	Invalidate(userID string)
}

// Recorder saves completed sessions remotely and feeds them into the
// user's exercise history cache.
type Recorder struct {
	store    sessionStore
	caches   cacheProvider
	progress progressInvalidator
	metrics  *metrics.Manager

	// ability to inject the clock (for unit and dev testing)
	NowFunc func() time.Time
}

func NewRecorder(
	store sessionStore,
	caches cacheProvider,
	progress progressInvalidator,
	metricsManager *metrics.Manager,
) *Recorder {
	return &Recorder{
		store:    store,
		caches:   caches,
		progress: progress,
		metrics:  metricsManager,
		NowFunc:  time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, userID string, session workout.Session) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recorder.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	if len(session.Exercises) == 0 {
		return nil, ErrEmptySession
	}
	if session.Date.IsZero() {
		session.Date = r.NowFunc()
	}
	session.Exercises = append([]workout.SessionExercise(nil), session.Exercises...)
	for i := range session.Exercises {
		session.Exercises[i].Name = strings.TrimSpace(session.Exercises[i].Name)
	}

	saved, err := r.store.AddSession(ctx, userID, session)
	if err != nil {
		return nil, fmt.Errorf("add session: %w", err)
	}
	span.SetAttributes(attribute.Int64("session.id", saved.ID))

	r.caches.For(userID).ProcessCompletedSession(ctx, *saved)
	r.progress.Invalidate(userID)

	if r.metrics != nil {
		r.metrics.CounterSessionsRecorded.Inc()
	}
	log.Debugf("recorded session %d for user %s: %d exercises", saved.ID, userID, len(saved.Exercises))

	return saved, nil
}
