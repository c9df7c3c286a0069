package history

import (
	"context"
	"encoding/json"

	"github.com/2beens/workoutlog/internal/remote"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=history_test

type kvStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type remoteStore interface {
	QueryRecentSessions(ctx context.Context, userID string, query remote.Query) (*remote.Page, error)
	PutBackupDocument(ctx context.Context, userID, key string, payload map[string]json.RawMessage) error
	GetBackupDocument(ctx context.Context, userID, key string) (map[string]json.RawMessage, bool, error)
}
