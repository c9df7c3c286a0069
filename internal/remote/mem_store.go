package remote

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/2beens/workoutlog/internal/workout"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory fake of Store for tests and local development.
// Nothing is persisted; the service wires PsqlStore.
type MemStore struct {
	mutex    sync.Mutex
	nextID   int64
	sessions map[string][]workout.Session
	backups  map[string]map[string]json.RawMessage
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:   1,
		sessions: make(map[string][]workout.Session),
		backups:  make(map[string]map[string]json.RawMessage),
	}
}

func (s *MemStore) QueryRecentSessions(_ context.Context, userID string, query Query) (*Page, error) {
	if query.Limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	userSessions := s.sessions[userID]
	page := &Page{
		Sessions: make([]workout.Session, 0, query.Limit),
	}
	for _, session := range userSessions {
		if query.After != nil && !query.After.before(session) {
			continue
		}
		page.Sessions = append(page.Sessions, copySession(session))
		if len(page.Sessions) == query.Limit {
			break
		}
	}

	if len(page.Sessions) == query.Limit {
		last := page.Sessions[len(page.Sessions)-1]
		if hasMoreAfter(userSessions, cursorOf(last)) {
			page.Next = cursorOf(last)
		}
	}

	return page, nil
}

func hasMoreAfter(sessions []workout.Session, c *Cursor) bool {
	for _, s := range sessions {
		if c.before(s) {
			return true
		}
	}
	return false
}

func (s *MemStore) AddSession(_ context.Context, userID string, session workout.Session) (*workout.Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	session.ID = s.nextID
	session.UserID = userID
	if session.Date.IsZero() {
		session.Date = time.Now()
	}
	s.nextID++

	userSessions := append(s.sessions[userID], copySession(session))
	sort.SliceStable(userSessions, func(i, j int) bool {
		if userSessions[i].Date.Equal(userSessions[j].Date) {
			return userSessions[i].ID > userSessions[j].ID
		}
		return userSessions[i].Date.After(userSessions[j].Date)
	})
	s.sessions[userID] = userSessions

	return &session, nil
}

func (s *MemStore) PutBackupDocument(_ context.Context, userID, key string, payload map[string]json.RawMessage) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	docKey := userID + "||" + key
	doc, ok := s.backups[docKey]
	if !ok {
		doc = make(map[string]json.RawMessage, len(payload))
		s.backups[docKey] = doc
	}
	for k, v := range payload {
		doc[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

func (s *MemStore) GetBackupDocument(_ context.Context, userID, key string) (map[string]json.RawMessage, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, ok := s.backups[userID+"||"+key]
	if !ok {
		return nil, false, nil
	}
	payload := make(map[string]json.RawMessage, len(doc))
	for k, v := range doc {
		payload[k] = append(json.RawMessage(nil), v...)
	}
	return payload, true, nil
}

func copySession(s workout.Session) workout.Session {
	c := s
	c.Exercises = make([]workout.SessionExercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		ex.Sets = workout.CopySets(ex.Sets)
		c.Exercises[i] = ex
	}
	return c
}
