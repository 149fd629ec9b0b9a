package memory

import (
	"context"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
	"github.com/matchnight/clubhouse/internal/domain/stats"
)

// SeedSchedule is the demo weekly schedule used when no database is wired.
func SeedSchedule() schedule.Schedule {
	return schedule.Schedule{
		Days: map[time.Weekday]string{
			time.Wednesday: "20:00",
			time.Saturday:  "18:00",
		},
		Locations: map[time.Weekday]string{
			time.Saturday: "Victoria Park",
		},
	}
}

// SeedStatsRepository returns a stats repository preloaded with a few club
// members so the leaderboard is not empty in dev.
func SeedStatsRepository() *StatsRepository {
	repo := NewStatsRepository()
	seededAt := time.Date(2025, 5, 31, 20, 0, 0, 0, time.UTC)

	seed := []struct {
		id, name string
		entries  []stats.LedgerEntry
	}{
		{
			id: "demo-dan", name: "Dan Carter",
			entries: []stats.LedgerEntry{
				stats.AttendanceEntry(1, "2025-05-31", "system", seededAt),
				stats.GoalsAssistsEntry(2, 0, "2025-05-31", "demo-admin", seededAt),
			},
		},
		{
			id: "demo-priya", name: "Priya Shah",
			entries: []stats.LedgerEntry{
				stats.AttendanceEntry(1, "2025-05-31", "system", seededAt),
				stats.MOTMEntry(3, "2025-05-31", "demo-admin", seededAt),
			},
		},
		{
			id: "demo-marco", name: "Marco Silva",
			entries: []stats.LedgerEntry{
				stats.AttendanceEntry(1, "2025-05-31", "system", seededAt),
			},
		},
	}

	for _, player := range seed {
		// Seed data is static and valid; Apply cannot fail here.
		_, _ = repo.Append(context.Background(), player.id, player.name, player.entries...)
	}
	return repo
}
