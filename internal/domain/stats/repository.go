package stats

import "context"

// Repository persists per-player aggregates. Append must be atomic per player:
// a concurrent admin edit and submission approval may interleave but neither
// write may be lost, and the stored counters must stay equal to the fold of
// the stored history.
type Repository interface {
	Get(ctx context.Context, playerID string) (PlayerStats, bool, error)
	List(ctx context.Context) ([]PlayerStats, error)
	Append(ctx context.Context, playerID, playerName string, entries ...LedgerEntry) (PlayerStats, error)
}
