package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/2beens/workoutlog/internal/workout"
)

var ErrInvalidLimit = errors.New("limit must be greater than 0")

// SessionQuerier pages through a user's sessions, newest first.
type SessionQuerier interface {
	QueryRecentSessions(ctx context.Context, userID string, query Query) (*Page, error)
}

// Store is the document store holding the user's sessions and the cache backup document.
type Store interface {
	SessionQuerier
	AddSession(ctx context.Context, userID string, session workout.Session) (*workout.Session, error)
	// PutBackupDocument merges payload keys into the existing document (if any).
	PutBackupDocument(ctx context.Context, userID, key string, payload map[string]json.RawMessage) error
	GetBackupDocument(ctx context.Context, userID, key string) (payload map[string]json.RawMessage, found bool, err error)
}

// Cursor points at the last session of a page; the next page starts strictly after it.
type Cursor struct {
	Date time.Time `json:"date"`
	ID   int64     `json:"id"`
}

type Query struct {
	Limit int
	After *Cursor
}

type Page struct {
	Sessions []workout.Session
	// Next is nil when there are no more sessions.
	Next *Cursor
}

func cursorOf(s workout.Session) *Cursor {
	return &Cursor{
		Date: s.Date,
		ID:   s.ID,
	}
}

// before reports whether s sorts after the cursor in newest-first order.
func (c *Cursor) before(s workout.Session) bool {
	if s.Date.Equal(c.Date) {
		return s.ID < c.ID
	}
	return s.Date.Before(c.Date)
}

// AllSessions pages through every session of the user, newest first.
func AllSessions(ctx context.Context, store SessionQuerier, userID string, pageSize int) ([]workout.Session, error) {
	var all []workout.Session
	var after *Cursor
	for {
		page, err := store.QueryRecentSessions(ctx, userID, Query{
			Limit: pageSize,
			After: after,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Sessions...)
		if page.Next == nil {
			return all, nil
		}
		after = page.Next
	}
}
