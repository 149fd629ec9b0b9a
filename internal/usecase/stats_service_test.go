package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/infrastructure/repository/memory"
	"github.com/matchnight/clubhouse/internal/platform/logging"
)

func newStatsFixture(now time.Time, attendancePoints int) (*StatsService, *memory.StatsRepository) {
	statsRepo := memory.NewStatsRepository()
	service := NewStatsService(statsRepo, lifecycleAt(now), attendancePoints, logging.NewNop())
	service.now = func() time.Time { return now }
	return service, statsRepo
}

func intPtr(v int) *int { return &v }

func TestStatsService_AdminEdit_AbsoluteTargetsBecomeDeltas(t *testing.T) {
	service, statsRepo := newStatsFixture(completeGameNow, 1)

	seeded := stats.GoalsAssistsEntry(2, 1, "2025-05-31", "admin-1", completeGameNow.Add(-7*24*time.Hour))
	if _, err := statsRepo.Append(t.Context(), "player-1", "Dan Carter", seeded); err != nil {
		t.Fatalf("seed stats failed: %v", err)
	}

	updated, err := service.AdminEdit(t.Context(), AdminEditInput{
		PlayerID: "player-1",
		Goals:    intPtr(5),
		EditedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("admin edit failed: %v", err)
	}

	if updated.Goals != 5 {
		t.Fatalf("expected goals=5 after edit, got %d", updated.Goals)
	}
	if updated.Assists != 1 {
		t.Fatalf("expected untouched assists=1, got %d", updated.Assists)
	}

	last := updated.History[len(updated.History)-1]
	if last.GoalsDelta != 3 || !last.AdminEdit || last.Reason != stats.ReasonAdminEdit {
		t.Fatalf("expected +3 admin edit entry, got %+v", last)
	}

	folded, err := stats.Fold(updated.PlayerID, updated.PlayerName, updated.History)
	if err != nil {
		t.Fatalf("fold failed: %v", err)
	}
	if folded.Goals != updated.Goals || folded.TotalPoints != updated.TotalPoints {
		t.Fatalf("cached counters diverged from history fold: cached=%+v folded=%+v", updated, folded)
	}
}

func TestStatsService_AdminEdit_LoweringTargets(t *testing.T) {
	service, statsRepo := newStatsFixture(completeGameNow, 1)

	seeded := stats.GoalsAssistsEntry(4, 0, "2025-05-31", "admin-1", completeGameNow.Add(-7*24*time.Hour))
	if _, err := statsRepo.Append(t.Context(), "player-1", "", seeded); err != nil {
		t.Fatalf("seed stats failed: %v", err)
	}

	updated, err := service.AdminEdit(t.Context(), AdminEditInput{
		PlayerID: "player-1",
		Goals:    intPtr(1),
		EditedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("admin edit failed: %v", err)
	}
	if updated.Goals != 1 {
		t.Fatalf("expected goals=1 after correction, got %d", updated.Goals)
	}
	if last := updated.History[len(updated.History)-1]; last.GoalsDelta != -3 {
		t.Fatalf("expected -3 correcting delta, got %+v", last)
	}
}

func TestStatsService_AdminEdit_Validation(t *testing.T) {
	service, _ := newStatsFixture(completeGameNow, 1)

	tests := []struct {
		name  string
		input AdminEditInput
	}{
		{name: "missing player id", input: AdminEditInput{Goals: intPtr(1)}},
		{name: "nothing to edit", input: AdminEditInput{PlayerID: "player-1"}},
		{name: "negative target", input: AdminEditInput{PlayerID: "player-1", Goals: intPtr(-1)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.AdminEdit(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestStatsService_AdminEdit_CreatesAggregateLazily(t *testing.T) {
	service, _ := newStatsFixture(completeGameNow, 1)

	updated, err := service.AdminEdit(t.Context(), AdminEditInput{
		PlayerID:    "player-new",
		PlayerName:  "Priya Shah",
		TotalPoints: intPtr(7),
		EditedBy:    "admin-1",
	})
	if err != nil {
		t.Fatalf("admin edit for unseen player failed: %v", err)
	}
	if updated.TotalPoints != 7 || updated.PlayerName != "Priya Shah" {
		t.Fatalf("expected fresh aggregate with 7 points, got %+v", updated)
	}
}

func TestStatsService_RecordAttendance(t *testing.T) {
	service, statsRepo := newStatsFixture(completeGameNow, 1)

	attendees := []Attendee{
		{PlayerID: "player-1", PlayerName: "Dan Carter"},
		{PlayerID: "player-2", PlayerName: "Marco Silva"},
	}
	if err := service.RecordAttendance(t.Context(), attendees, "admin-1"); err != nil {
		t.Fatalf("record attendance failed: %v", err)
	}

	for _, attendee := range attendees {
		agg, ok, err := statsRepo.Get(t.Context(), attendee.PlayerID)
		if err != nil || !ok {
			t.Fatalf("expected stats for %s, ok=%t err=%v", attendee.PlayerID, ok, err)
		}
		if agg.GamesPlayed != 1 || agg.TotalPoints != 1 {
			t.Fatalf("expected games=1 points=1 for %s, got %+v", attendee.PlayerID, agg)
		}
		entry := agg.History[0]
		if entry.Reason != stats.ReasonPlayedInGame || !entry.Automatic || entry.MatchDate != "2025-06-07" {
			t.Fatalf("unexpected attendance entry %+v", entry)
		}
	}
}

func TestStatsService_RecordAttendance_WindowClosed(t *testing.T) {
	// Friday noon: the next game has not happened yet.
	service, _ := newStatsFixture(time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC), 1)

	err := service.RecordAttendance(t.Context(), []Attendee{{PlayerID: "player-1"}}, "admin-1")
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}

func TestStatsService_RecordAttendance_Validation(t *testing.T) {
	service, _ := newStatsFixture(completeGameNow, 1)

	if err := service.RecordAttendance(t.Context(), nil, "admin-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty attendee list, got %v", err)
	}
	err := service.RecordAttendance(t.Context(), []Attendee{{PlayerName: "No ID"}}, "admin-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for attendee without id, got %v", err)
	}
}

func TestStatsService_Leaderboard_Ordering(t *testing.T) {
	service, statsRepo := newStatsFixture(completeGameNow, 1)

	seed := []struct {
		id, name string
		points   int
	}{
		{id: "player-a", name: "Ana", points: 3},
		{id: "player-b", name: "Ben", points: 9},
		{id: "player-c", name: "Cal", points: 3},
	}
	for _, p := range seed {
		entry := stats.LedgerEntry{PointsDelta: p.points, Reason: stats.ReasonAdminEdit, AddedAt: completeGameNow}
		if _, err := statsRepo.Append(t.Context(), p.id, p.name, entry); err != nil {
			t.Fatalf("seed %s failed: %v", p.id, err)
		}
	}

	board, err := service.Leaderboard(t.Context())
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}

	got := make([]string, 0, len(board))
	for _, p := range board {
		got = append(got, p.PlayerName)
	}
	want := []string{"Ben", "Ana", "Cal"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestStatsService_PlayerStats_NotFound(t *testing.T) {
	service, _ := newStatsFixture(completeGameNow, 1)

	if _, err := service.PlayerStats(t.Context(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
