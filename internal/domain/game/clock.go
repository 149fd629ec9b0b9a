package game

import (
	"fmt"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
)

// Occurrence is one concrete game derived from the weekly schedule. It only
// lives for the duration of an evaluation and is never persisted.
type Occurrence struct {
	Date     time.Time
	Day      time.Weekday
	Location string
}

// MatchDate is the calendar-day key used by ledger entries and submissions.
func (o Occurrence) MatchDate() string {
	return o.Date.Format("2006-01-02")
}

func (o Occurrence) Formatted() string {
	when := o.Date.Format("Monday 2 Jan, 15:04")
	if o.Location == "" {
		return when
	}
	return fmt.Sprintf("%s at %s", when, o.Location)
}

// Evaluation holds the candidate occurrences around a reference instant.
type Evaluation struct {
	Today     *Occurrence
	Yesterday *Occurrence
	Next      *Occurrence
}

// Evaluate derives the candidate occurrences from the schedule and a reference
// instant. It is a pure function: callers re-invoke it on a timer or after a
// schedule change rather than the clock keeping any state of its own.
func Evaluate(s schedule.Schedule, now time.Time) Evaluation {
	return Evaluation{
		Today:     occurrenceOn(s, now),
		Yesterday: occurrenceOn(s, now.AddDate(0, 0, -1)),
		Next:      nextOccurrence(s, now),
	}
}

func occurrenceOn(s schedule.Schedule, ref time.Time) *Occurrence {
	kickoff, ok := s.Days[ref.Weekday()]
	if !ok {
		return nil
	}
	hour, minute, err := schedule.ParseKickoff(kickoff)
	if err != nil {
		return nil
	}

	year, month, day := ref.Date()
	return &Occurrence{
		Date:     time.Date(year, month, day, hour, minute, 0, 0, ref.Location()),
		Day:      ref.Weekday(),
		Location: s.Locations[ref.Weekday()],
	}
}

// nextOccurrence scans forward one calendar day at a time, wrapping the week,
// and returns the earliest occurrence strictly after now.
func nextOccurrence(s schedule.Schedule, now time.Time) *Occurrence {
	for offset := 1; offset <= 7; offset++ {
		candidate := occurrenceOn(s, now.AddDate(0, 0, offset))
		if candidate != nil && candidate.Date.After(now) {
			return candidate
		}
	}
	return nil
}
