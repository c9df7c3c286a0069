package workout

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseWeight parses a weight value, accepting a comma as decimal separator
// (e.g. "62,5"). Invalid, missing and negative values become 0.
func ParseWeight(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// ParseReps parses a reps value. Fractions are truncated; invalid,
// missing and negative values become 0.
func ParseReps(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if reps, err := strconv.Atoi(s); err == nil {
		return max(reps, 0)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// UnmarshalJSON accepts both numbers and strings for weight and reps,
// since sets come straight from form input.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw struct {
		Weight json.RawMessage `json:"weight"`
		Reps   json.RawMessage `json:"reps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Weight = ParseWeight(rawNumberText(raw.Weight))
	s.Reps = ParseReps(rawNumberText(raw.Reps))
	return nil
}

func rawNumberText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return ""
		}
		return str
	}
	return string(raw)
}
