package memory

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
)

func TestStatsRepository_Append_ConcurrentWritersLoseNothing(t *testing.T) {
	repo := NewStatsRepository()
	at := time.Date(2025, 6, 7, 20, 30, 0, 0, time.UTC)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry := stats.AttendanceEntry(1, "2025-06-07", "admin", at)
			if _, err := repo.Append(t.Context(), "player-1", "Dan Carter", entry); err != nil {
				t.Errorf("append failed: %v", err)
			}
		}()
	}
	wg.Wait()

	agg, ok, err := repo.Get(t.Context(), "player-1")
	if err != nil || !ok {
		t.Fatalf("load stats failed, ok=%t err=%v", ok, err)
	}
	if agg.TotalPoints != writers || agg.GamesPlayed != writers || len(agg.History) != writers {
		t.Fatalf("expected %d folded entries, got %+v", writers, agg)
	}

	folded, err := stats.Fold(agg.PlayerID, agg.PlayerName, agg.History)
	if err != nil {
		t.Fatalf("fold failed: %v", err)
	}
	if folded.TotalPoints != agg.TotalPoints || folded.GamesPlayed != agg.GamesPlayed {
		t.Fatalf("cached counters diverged from history fold: cached=%+v folded=%+v", agg, folded)
	}
}

func TestStatsRepository_Append_NegativeEntryLeavesAggregateUntouched(t *testing.T) {
	repo := NewStatsRepository()
	at := time.Date(2025, 6, 7, 20, 30, 0, 0, time.UTC)

	if _, err := repo.Append(t.Context(), "player-1", "Dan Carter", stats.GoalsAssistsEntry(2, 0, "2025-06-07", "admin", at)); err != nil {
		t.Fatalf("seed append failed: %v", err)
	}

	bad := stats.LedgerEntry{GoalsDelta: -5, Reason: stats.ReasonAdminEdit, AddedAt: at}
	if _, err := repo.Append(t.Context(), "player-1", "", bad); !errors.Is(err, stats.ErrNegativeStat) {
		t.Fatalf("expected ErrNegativeStat, got %v", err)
	}

	agg, _, err := repo.Get(t.Context(), "player-1")
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	if agg.Goals != 2 || len(agg.History) != 1 {
		t.Fatalf("expected aggregate unchanged after rejected entry, got %+v", agg)
	}
}

func TestStatsRepository_Get_ReturnsIndependentCopy(t *testing.T) {
	repo := NewStatsRepository()
	at := time.Date(2025, 6, 7, 20, 30, 0, 0, time.UTC)

	if _, err := repo.Append(t.Context(), "player-1", "Dan Carter", stats.AttendanceEntry(1, "2025-06-07", "admin", at)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	agg, _, err := repo.Get(t.Context(), "player-1")
	if err != nil {
		t.Fatalf("load stats failed: %v", err)
	}
	agg.History[0].PointsDelta = 99

	fresh, _, err := repo.Get(t.Context(), "player-1")
	if err != nil {
		t.Fatalf("reload stats failed: %v", err)
	}
	if fresh.History[0].PointsDelta != 1 {
		t.Fatalf("caller mutation leaked into the repository: %+v", fresh.History[0])
	}
}
