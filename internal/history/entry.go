package history

import (
	"time"

	"github.com/2beens/workoutlog/internal/workout"
)

// Entry is one recorded instance of performing an exercise.
// Timestamp mirrors Date in epoch millis.
type Entry struct {
	Date      time.Time     `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Sets      []workout.Set `json:"sets"`
}

// ExerciseRecord keeps the history of one exercise, most recent entry first.
type ExerciseRecord struct {
	OriginalName string  `json:"originalName"`
	History      []Entry `json:"history"`
}

func newEntry(sets []workout.Set, date time.Time) Entry {
	return Entry{
		Date:      date,
		Timestamp: date.UnixMilli(),
		Sets:      workout.CopySets(sets),
	}
}

func (e Entry) copy() Entry {
	e.Sets = workout.CopySets(e.Sets)
	return e
}

func (r *ExerciseRecord) copy() ExerciseRecord {
	c := ExerciseRecord{
		OriginalName: r.OriginalName,
		History:      make([]Entry, len(r.History)),
	}
	for i, e := range r.History {
		c.History[i] = e.copy()
	}
	return c
}

type Suggestions struct {
	HasHistory           bool          `json:"hasHistory"`
	SuggestedWeight      *float64      `json:"suggestedWeight"`
	SuggestedReps        *int          `json:"suggestedReps"`
	LastSets             []workout.Set `json:"lastSets"`
	LastSessionDate      *time.Time    `json:"lastSessionDate"`
	DaysSinceLastSession *int          `json:"daysSinceLastSession"`
}
