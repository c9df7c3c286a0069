package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"
	"github.com/2beens/workoutlog/internal/workout"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*PsqlStore)(nil)

type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

func (s *PsqlStore) QueryRecentSessions(ctx context.Context, userID string, query Query) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.sessions.query-recent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Int("limit", query.Limit))

	if query.Limit < 1 {
		return nil, ErrInvalidLimit
	}

	var afterDate *time.Time
	var afterID int64
	if query.After != nil {
		afterDate = &query.After.Date
		afterID = query.After.ID
		span.SetAttributes(attribute.String("after", query.After.Date.String()))
	}

	// fetch one extra row to know whether there is a next page
	rows, err := s.db.Query(
		ctx,
		`
			SELECT id, user_id, date, routine_name, exercises
			FROM workout_session
				WHERE user_id = $1
				AND ($2::timestamptz IS NULL OR (date, id) < ($2::timestamptz, $3::bigint))
			ORDER BY date DESC, id DESC
			LIMIT $4;`,
		userID, afterDate, afterID, query.Limit+1,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	sessions, err := rows2sessions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sessions: %w", err)
	}

	page := &Page{
		Sessions: sessions,
	}
	if len(sessions) > query.Limit {
		page.Sessions = sessions[:query.Limit]
		page.Next = cursorOf(page.Sessions[query.Limit-1])
	}

	span.SetAttributes(attribute.Int("sessions", len(page.Sessions)))
	return page, nil
}

func (s *PsqlStore) AddSession(ctx context.Context, userID string, session workout.Session) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	if session.Date.IsZero() {
		session.Date = time.Now()
	}
	session.UserID = userID

	exercisesJson, err := json.Marshal(session.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	err = s.db.QueryRow(
		ctx,
		`INSERT INTO workout_session
				(user_id, date, routine_name, exercises)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		userID, session.Date, session.RoutineName, exercisesJson,
	).Scan(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	span.SetAttributes(attribute.Int64("session.id", session.ID))
	return &session, nil
}

func (s *PsqlStore) PutBackupDocument(ctx context.Context, userID, key string, payload map[string]json.RawMessage) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.backup.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("key", key))

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// jsonb || merges top level keys, new values win
	_, err = s.db.Exec(
		ctx,
		`INSERT INTO backup_document (user_id, key, payload, updated_at)
				VALUES ($1, $2, $3, now())
			ON CONFLICT (user_id, key) DO UPDATE
				SET payload = backup_document.payload || EXCLUDED.payload,
					updated_at = now();`,
		userID, key, payloadJson,
	)
	if err != nil {
		return fmt.Errorf("upsert backup document: %w", err)
	}
	return nil
}

func (s *PsqlStore) GetBackupDocument(ctx context.Context, userID, key string) (_ map[string]json.RawMessage, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.backup.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("key", key))

	var payloadBytes []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT payload FROM backup_document WHERE user_id = $1 AND key = $2;`,
		userID, key,
	).Scan(&payloadBytes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	payload := make(map[string]json.RawMessage)
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, false, fmt.Errorf("unmarshal payload: %w", err)
	}
	return payload, true, nil
}

func rows2sessions(rows pgx.Rows) ([]workout.Session, error) {
	sessions := make([]workout.Session, 0)
	for rows.Next() {
		var session workout.Session
		var routineName *string
		var exercisesBytes []byte
		if err := rows.Scan(&session.ID, &session.UserID, &session.Date, &routineName, &exercisesBytes); err != nil {
			return nil, err
		}
		if routineName != nil {
			session.RoutineName = *routineName
		}

		session.Exercises = decodeExercises(exercisesBytes)

		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// decodeExercises skips malformed exercise entries instead of failing the whole session.
func decodeExercises(data []byte) []workout.SessionExercise {
	if len(data) == 0 {
		return nil
	}
	var rawExercises []json.RawMessage
	if err := json.Unmarshal(data, &rawExercises); err != nil {
		return nil
	}
	exercises := make([]workout.SessionExercise, 0, len(rawExercises))
	for _, raw := range rawExercises {
		var ex workout.SessionExercise
		if err := json.Unmarshal(raw, &ex); err != nil {
			continue
		}
		exercises = append(exercises, ex)
	}
	return exercises
}
