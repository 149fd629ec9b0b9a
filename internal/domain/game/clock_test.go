package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
)

func TestEvaluate_TodayAndYesterday(t *testing.T) {
	s := schedule.Schedule{
		Days: map[time.Weekday]string{
			time.Friday:   "20:30",
			time.Saturday: "18:00",
		},
		Locations: map[time.Weekday]string{
			time.Saturday: "Victoria Park",
		},
	}
	now := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC) // Saturday noon

	ev := Evaluate(s, now)

	require.NotNil(t, ev.Today)
	assert.Equal(t, time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC), ev.Today.Date)
	assert.Equal(t, "Victoria Park", ev.Today.Location)
	assert.Equal(t, "2025-06-07", ev.Today.MatchDate())

	require.NotNil(t, ev.Yesterday)
	assert.Equal(t, time.Date(2025, 6, 6, 20, 30, 0, 0, time.UTC), ev.Yesterday.Date)
	assert.Empty(t, ev.Yesterday.Location)
}

func TestEvaluate_NoGameDays(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) // Monday
	ev := Evaluate(schedule.Schedule{Days: map[time.Weekday]string{time.Wednesday: "20:00"}}, now)

	assert.Nil(t, ev.Today)
	assert.Nil(t, ev.Yesterday)
	require.NotNil(t, ev.Next)
	assert.Equal(t, time.Wednesday, ev.Next.Day)
}

func TestEvaluate_NextIsAlwaysStrictlyAfterNow(t *testing.T) {
	schedules := []schedule.Schedule{
		{Days: map[time.Weekday]string{time.Saturday: "18:00"}},
		{Days: map[time.Weekday]string{time.Monday: "07:00", time.Thursday: "21:15"}},
		{Days: map[time.Weekday]string{
			time.Sunday: "10:00", time.Tuesday: "19:00", time.Friday: "23:45",
		}},
	}
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, s := range schedules {
		for hour := 0; hour < 14*24; hour += 7 {
			now := start.Add(time.Duration(hour) * time.Hour)
			ev := Evaluate(s, now)
			require.NotNil(t, ev.Next, "next must exist for a non-empty schedule at %s", now)
			assert.True(t, ev.Next.Date.After(now), "next %s not after %s", ev.Next.Date, now)
			_, scheduled := s.Days[ev.Next.Day]
			assert.True(t, scheduled, "next day %s not in schedule", ev.Next.Day)
		}
	}
}

func TestEvaluate_NextPicksNearestDay(t *testing.T) {
	s := schedule.Schedule{
		Days: map[time.Weekday]string{
			time.Wednesday: "20:00",
			time.Saturday:  "18:00",
		},
	}
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) // Monday

	ev := Evaluate(s, now)
	require.NotNil(t, ev.Next)
	assert.Equal(t, time.Wednesday, ev.Next.Day)
	assert.Equal(t, time.Date(2025, 6, 11, 20, 0, 0, 0, time.UTC), ev.Next.Date)
}

func TestOccurrenceFormatted(t *testing.T) {
	occ := Occurrence{
		Date:     time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC),
		Day:      time.Saturday,
		Location: "Victoria Park",
	}
	assert.Equal(t, "Saturday 7 Jun, 18:00 at Victoria Park", occ.Formatted())

	occ.Location = ""
	assert.Equal(t, "Saturday 7 Jun, 18:00", occ.Formatted())
}
