package progress

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownPeriod = errors.New("unknown period")

type Period string

const (
	PeriodLast3Months Period = "last-3-months"
	PeriodLast6Months Period = "last-6-months"
	PeriodLastYear    Period = "last-year"
	PeriodAllTime     Period = "all-time"
)

// AllTimeFloor is the cutoff used for PeriodAllTime.
var AllTimeFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	switch p {
	case PeriodLast3Months, PeriodLast6Months, PeriodLastYear, PeriodAllTime:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Cutoff returns the earliest date (inclusive) that falls into the period.
func (p Period) Cutoff(now time.Time) (time.Time, error) {
	switch p {
	case PeriodLast3Months:
		return now.AddDate(0, -3, 0), nil
	case PeriodLast6Months:
		return now.AddDate(0, -6, 0), nil
	case PeriodLastYear:
		return now.AddDate(-1, 0, 0), nil
	case PeriodAllTime:
		return AllTimeFloor, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
}
