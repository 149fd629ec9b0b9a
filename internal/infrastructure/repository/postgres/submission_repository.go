package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/domain/submission"
)

type submissionRow struct {
	ID          string         `db:"id"`
	PlayerID    string         `db:"player_id"`
	PlayerName  string         `db:"player_name"`
	GameDate    string         `db:"game_date"`
	Goals       int            `db:"goals"`
	Assists     int            `db:"assists"`
	SubmittedBy string         `db:"submitted_by"`
	SubmittedAt time.Time      `db:"submitted_at"`
	Status      string         `db:"status"`
	ReviewedBy  sql.NullString `db:"reviewed_by"`
	ReviewedAt  sql.NullTime   `db:"reviewed_at"`
}

func (row submissionRow) toDomain() submission.Submission {
	sub := submission.Submission{
		ID:          row.ID,
		PlayerID:    row.PlayerID,
		PlayerName:  row.PlayerName,
		GameDate:    row.GameDate,
		Goals:       row.Goals,
		Assists:     row.Assists,
		SubmittedBy: row.SubmittedBy,
		SubmittedAt: row.SubmittedAt,
		Status:      submission.Status(row.Status),
	}
	if row.ReviewedBy.Valid {
		sub.ReviewedBy = row.ReviewedBy.String
	}
	if row.ReviewedAt.Valid {
		at := row.ReviewedAt.Time
		sub.ReviewedAt = &at
	}
	return sub
}

const selectSubmission = `
	SELECT id, player_id, player_name, game_date, goals, assists,
	       submitted_by, submitted_at, status, reviewed_by, reviewed_at
	FROM submissions`

// SubmissionRepository backs the review queue with a submissions table. A
// partial unique index on (player_id, game_date) WHERE status = 'PENDING'
// enforces the one-pending-per-player-per-game rule at the database level.
type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, sub submission.Submission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submissions
		   (id, player_id, player_name, game_date, goals, assists,
		    submitted_by, submitted_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sub.ID, sub.PlayerID, sub.PlayerName, sub.GameDate, sub.Goals, sub.Assists,
		sub.SubmittedBy, sub.SubmittedAt, string(sub.Status),
	)
	if isUniqueViolation(err) {
		return submission.ErrDuplicatePending
	}
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (submission.Submission, bool, error) {
	var row submissionRow
	err := r.db.GetContext(ctx, &row, selectSubmission+` WHERE id = $1`, id)
	if isNotFound(err) {
		return submission.Submission{}, false, nil
	}
	if err != nil {
		return submission.Submission{}, false, fmt.Errorf("select submission: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SubmissionRepository) ListPending(ctx context.Context) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows,
		selectSubmission+` WHERE status = $1 ORDER BY submitted_at`,
		string(submission.StatusPending),
	); err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}

	out := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Approve flips the status and applies the ledger entries in one transaction.
// The conditional UPDATE only matches a pending row, so concurrent reviews of
// the same submission resolve to exactly one winner.
func (r *SubmissionRepository) Approve(ctx context.Context, id, reviewedBy string, reviewedAt time.Time, entries []stats.LedgerEntry) (submission.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("begin approve: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row submissionRow
	err = tx.GetContext(ctx, &row,
		`UPDATE submissions
		 SET status = $2, reviewed_by = $3, reviewed_at = $4
		 WHERE id = $1 AND status = $5
		 RETURNING id, player_id, player_name, game_date, goals, assists,
		           submitted_by, submitted_at, status, reviewed_by, reviewed_at`,
		id, string(submission.StatusApproved), reviewedBy, reviewedAt,
		string(submission.StatusPending),
	)
	if isNotFound(err) {
		return submission.Submission{}, r.reviewConflict(ctx, id)
	}
	if err != nil {
		return submission.Submission{}, fmt.Errorf("approve submission: %w", err)
	}

	if _, err := applyEntriesTx(ctx, tx, row.PlayerID, row.PlayerName, entries); err != nil {
		return submission.Submission{}, err
	}

	if err := tx.Commit(); err != nil {
		return submission.Submission{}, fmt.Errorf("commit approve: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SubmissionRepository) Reject(ctx context.Context, id, reviewedBy string, reviewedAt time.Time) (submission.Submission, error) {
	var row submissionRow
	err := r.db.GetContext(ctx, &row,
		`UPDATE submissions
		 SET status = $2, reviewed_by = $3, reviewed_at = $4
		 WHERE id = $1 AND status = $5
		 RETURNING id, player_id, player_name, game_date, goals, assists,
		           submitted_by, submitted_at, status, reviewed_by, reviewed_at`,
		id, string(submission.StatusRejected), reviewedBy, reviewedAt,
		string(submission.StatusPending),
	)
	if isNotFound(err) {
		return submission.Submission{}, r.reviewConflict(ctx, id)
	}
	if err != nil {
		return submission.Submission{}, fmt.Errorf("reject submission: %w", err)
	}
	return row.toDomain(), nil
}

// reviewConflict distinguishes a missing submission from one that was already
// reviewed by a concurrent request.
func (r *SubmissionRepository) reviewConflict(ctx context.Context, id string) error {
	_, ok, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return submission.ErrNotFound
	}
	return submission.ErrAlreadyReviewed
}
