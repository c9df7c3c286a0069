package workout

import (
	"time"
)

// ExerciseType can be one of:
//   - strength
//   - cardio
//   - anything else the client sends (treated as "other")
type ExerciseType string

const (
	ExerciseTypeStrength ExerciseType = "strength"
	ExerciseTypeCardio   ExerciseType = "cardio"
)

func (et ExerciseType) String() string {
	return string(et)
}

func (et ExerciseType) IsStrength() bool {
	return et == ExerciseTypeStrength
}

type Set struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Volume is weight x reps for a single set.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

type SessionExercise struct {
	Name         string       `json:"name"`
	ExerciseType ExerciseType `json:"exerciseType"`
	Sets         []Set        `json:"sets"`
}

// Session is one recorded workout, as stored in the remote document store.
type Session struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"userId"`
	Date        time.Time         `json:"date"`
	RoutineName string            `json:"routineName,omitempty"`
	Exercises   []SessionExercise `json:"exercises"`
}

// StrengthExercises returns only the exercises that carry weight/reps sets worth caching.
func (s Session) StrengthExercises() []SessionExercise {
	var strength []SessionExercise
	for _, ex := range s.Exercises {
		if !ex.ExerciseType.IsStrength() || len(ex.Sets) == 0 {
			continue
		}
		strength = append(strength, ex)
	}
	return strength
}

func CopySets(sets []Set) []Set {
	if sets == nil {
		return nil
	}
	c := make([]Set, len(sets))
	copy(c, sets)
	return c
}
