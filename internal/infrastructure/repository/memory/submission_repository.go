package memory

import (
	"context"
	"sync"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/domain/submission"
)

// SubmissionRepository keeps submissions in memory. Approve applies the ledger
// entries through the shared StatsRepository while holding its own lock, so
// the status flip and the stats write behave as one unit and two concurrent
// reviews resolve to exactly one winner.
type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]submission.Submission
	stats *StatsRepository
}

func NewSubmissionRepository(statsRepo *StatsRepository) *SubmissionRepository {
	return &SubmissionRepository{
		items: make(map[string]submission.Submission),
		stats: statsRepo,
	}
}

func (r *SubmissionRepository) Create(_ context.Context, sub submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.PlayerID == sub.PlayerID && existing.GameDate == sub.GameDate && existing.IsPending() {
			return submission.ErrDuplicatePending
		}
	}

	r.items[sub.ID] = sub
	return nil
}

func (r *SubmissionRepository) GetByID(_ context.Context, id string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.items[id]
	if !ok {
		return submission.Submission{}, false, nil
	}
	return sub, true, nil
}

func (r *SubmissionRepository) ListPending(_ context.Context) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]submission.Submission, 0)
	for _, sub := range r.items {
		if sub.IsPending() {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *SubmissionRepository) Approve(ctx context.Context, id, reviewedBy string, reviewedAt time.Time, entries []stats.LedgerEntry) (submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.items[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	if !sub.IsPending() {
		return submission.Submission{}, submission.ErrAlreadyReviewed
	}

	// Ledger first: if the entries are rejected the status stays Pending.
	if _, err := r.stats.Append(ctx, sub.PlayerID, sub.PlayerName, entries...); err != nil {
		return submission.Submission{}, err
	}

	sub.Status = submission.StatusApproved
	sub.ReviewedBy = reviewedBy
	sub.ReviewedAt = &reviewedAt
	r.items[id] = sub
	return sub, nil
}

func (r *SubmissionRepository) Reject(_ context.Context, id, reviewedBy string, reviewedAt time.Time) (submission.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.items[id]
	if !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	if !sub.IsPending() {
		return submission.Submission{}, submission.ErrAlreadyReviewed
	}

	sub.Status = submission.StatusRejected
	sub.ReviewedBy = reviewedBy
	sub.ReviewedAt = &reviewedAt
	r.items[id] = sub
	return sub, nil
}
