package memory

import (
	"context"
	"sync"

	"github.com/matchnight/clubhouse/internal/domain/stats"
)

type StatsRepository struct {
	mu    sync.RWMutex
	items map[string]stats.PlayerStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{items: make(map[string]stats.PlayerStats)}
}

func (r *StatsRepository) Get(_ context.Context, playerID string) (stats.PlayerStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg, ok := r.items[playerID]
	if !ok {
		return stats.PlayerStats{}, false, nil
	}
	return cloneStats(agg), true, nil
}

func (r *StatsRepository) List(_ context.Context) ([]stats.PlayerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.PlayerStats, 0, len(r.items))
	for _, agg := range r.items {
		out = append(out, cloneStats(agg))
	}
	return out, nil
}

// Append folds entries into the player's aggregate under the write lock, so
// concurrent mutations for the same player serialize and none is lost. The
// aggregate is created lazily on first write.
func (r *StatsRepository) Append(_ context.Context, playerID, playerName string, entries ...stats.LedgerEntry) (stats.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.appendLocked(playerID, playerName, entries)
}

func (r *StatsRepository) appendLocked(playerID, playerName string, entries []stats.LedgerEntry) (stats.PlayerStats, error) {
	agg, ok := r.items[playerID]
	if !ok {
		agg = stats.PlayerStats{PlayerID: playerID, PlayerName: playerName}
	}
	if playerName != "" {
		agg.PlayerName = playerName
	}

	var err error
	for _, entry := range entries {
		agg, err = stats.Apply(agg, entry)
		if err != nil {
			return stats.PlayerStats{}, err
		}
	}

	r.items[playerID] = agg
	return cloneStats(agg), nil
}

func cloneStats(agg stats.PlayerStats) stats.PlayerStats {
	copied := agg
	copied.History = append([]stats.LedgerEntry(nil), agg.History...)
	return copied
}
