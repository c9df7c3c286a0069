package progress

import (
	"sort"
	"strings"
	"time"

	"github.com/2beens/workoutlog/internal/history"
)

// MinSeriesPoints is the minimum number of entries needed for a meaningful trend.
const MinSeriesPoints = 3

type Point struct {
	Date        time.Time `json:"date"`
	MaxWeight   float64   `json:"maxWeight"`
	TotalVolume float64   `json:"totalVolume"`
	MaxReps     int       `json:"maxReps"`
}

type ExerciseSummary struct {
	Name         string `json:"name"`
	Identity     string `json:"identity"`
	SessionCount int    `json:"sessionCount"`
}

func pointOf(entry history.Entry) Point {
	p := Point{
		Date: entry.Date,
	}
	for i, s := range entry.Sets {
		if i == 0 || s.Weight > p.MaxWeight {
			p.MaxWeight = s.Weight
		}
		if i == 0 || s.Reps > p.MaxReps {
			p.MaxReps = s.Reps
		}
		p.TotalVolume += s.Volume()
	}
	return p
}

// Series turns history entries into points dated on or after cutoff, ascending by date.
// Fewer than MinSeriesPoints qualifying entries yield an empty series.
func Series(entries []history.Entry, cutoff time.Time) []Point {
	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		if e.Date.Before(cutoff) || len(e.Sets) == 0 {
			continue
		}
		points = append(points, pointOf(e))
	}

	if len(points) < MinSeriesPoints {
		return []Point{}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// CollapseByDay merges points falling on the same calendar day in loc:
// max of weight and reps, sum of volume. Each resulting point is dated at
// the start of its day. Input must be sorted ascending by date.
func CollapseByDay(points []Point, loc *time.Location) []Point {
	if loc == nil {
		loc = time.Local
	}

	collapsed := make([]Point, 0, len(points))
	for _, p := range points {
		local := p.Date.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

		if n := len(collapsed); n > 0 && collapsed[n-1].Date.Equal(day) {
			last := &collapsed[n-1]
			last.MaxWeight = max(last.MaxWeight, p.MaxWeight)
			last.MaxReps = max(last.MaxReps, p.MaxReps)
			last.TotalVolume += p.TotalVolume
			continue
		}

		p.Date = day
		collapsed = append(collapsed, p)
	}

	return collapsed
}

// summarize counts history entries per exercise, most frequent first, then by name.
func summarize(full map[string]history.ExerciseRecord) []ExerciseSummary {
	summaries := make([]ExerciseSummary, 0, len(full))
	for identity, record := range full {
		if len(record.History) == 0 {
			continue
		}
		name := record.OriginalName
		if name == "" {
			name = identity
		}
		summaries = append(summaries, ExerciseSummary{
			Name:         name,
			Identity:     identity,
			SessionCount: len(record.History),
		})
	}
	sortSummaries(summaries)
	return summaries
}

func sortSummaries(summaries []ExerciseSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.SessionCount != b.SessionCount {
			return a.SessionCount > b.SessionCount
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.Identity < b.Identity
	})
}

func filterSummaries(summaries []ExerciseSummary, minSessions int) []ExerciseSummary {
	filtered := make([]ExerciseSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.SessionCount >= minSessions {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
