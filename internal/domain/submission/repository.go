package submission

import (
	"context"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
)

// Repository persists submissions.
//
// Create enforces at most one Pending submission per (playerID, gameDate) and
// fails with ErrDuplicatePending otherwise.
//
// Approve and Reject are conditional writes: they only transition a Pending
// submission and fail with ErrAlreadyReviewed when the precondition does not
// hold, so two concurrent reviews resolve to exactly one winner. Approve must
// additionally apply the ledger entries in the same atomic unit as the status
// flip so a crash can never leave one without the other.
type Repository interface {
	Create(ctx context.Context, sub Submission) error
	GetByID(ctx context.Context, id string) (Submission, bool, error)
	ListPending(ctx context.Context) ([]Submission, error)
	Approve(ctx context.Context, id, reviewedBy string, reviewedAt time.Time, entries []stats.LedgerEntry) (Submission, error)
	Reject(ctx context.Context, id, reviewedBy string, reviewedAt time.Time) (Submission, error)
}
