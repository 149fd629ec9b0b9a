package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/domain/submission"
	idgen "github.com/matchnight/clubhouse/internal/platform/id"
	"github.com/matchnight/clubhouse/internal/platform/logging"
)

// SubmissionService runs the two-party goals & assists workflow: players
// submit claims while the game is complete, admins approve or reject them
// exactly once.
type SubmissionService struct {
	submissionRepo submission.Repository
	lifecycle      *LifecycleService
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo submission.Repository,
	lifecycle *LifecycleService,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SubmissionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionService{
		submissionRepo: submissionRepo,
		lifecycle:      lifecycle,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

type SubmitInput struct {
	PlayerID    string
	PlayerName  string
	GameDate    string
	Goals       int
	Assists     int
	SubmittedBy string
}

// Submit creates a Pending submission for the current complete game.
func (s *SubmissionService) Submit(ctx context.Context, input SubmitInput) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Submit")
	defer span.End()

	if input.PlayerID == "" {
		return submission.Submission{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.Goals < 0 || input.Assists < 0 {
		return submission.Submission{}, fmt.Errorf("%w: goals and assists cannot be negative", ErrInvalidInput)
	}
	if input.Goals == 0 && input.Assists == 0 {
		return submission.Submission{}, fmt.Errorf("%w: submit at least one goal or assist", ErrInvalidInput)
	}

	current, err := s.lifecycle.requireCompleteGame(ctx, input.GameDate)
	if err != nil {
		return submission.Submission{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return submission.Submission{}, fmt.Errorf("generate submission id: %w", err)
	}

	sub := submission.Submission{
		ID:          id,
		PlayerID:    input.PlayerID,
		PlayerName:  input.PlayerName,
		GameDate:    current.MatchDate(),
		Goals:       input.Goals,
		Assists:     input.Assists,
		SubmittedBy: input.SubmittedBy,
		SubmittedAt: s.now().UTC(),
		Status:      submission.StatusPending,
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, submission.ErrDuplicatePending) {
			return submission.Submission{}, fmt.Errorf("%w: player %s, game %s", ErrDuplicatePending, input.PlayerID, sub.GameDate)
		}
		return submission.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	s.logger.InfoContext(ctx, "submission created",
		"submission_id", sub.ID,
		"player_id", sub.PlayerID,
		"game_date", sub.GameDate,
		"goals", sub.Goals,
		"assists", sub.Assists,
	)
	return sub, nil
}

// ListPending returns the admin review queue, newest submissions first.
func (s *SubmissionService) ListPending(ctx context.Context) ([]submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ListPending")
	defer span.End()

	pending, err := s.submissionRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].SubmittedAt.After(pending[j].SubmittedAt)
	})
	return pending, nil
}

// Approve transitions a Pending submission to Approved and applies its goals
// and assists to the player's ledger. The status flip is conditional on the
// submission still being Pending, so concurrent reviews produce exactly one
// ledger mutation; the flip and the ledger append commit as one unit.
func (s *SubmissionService) Approve(ctx context.Context, submissionID, reviewerID string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Approve")
	defer span.End()

	sub, ok, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return submission.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	if !ok {
		return submission.Submission{}, fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
	}
	if !sub.IsPending() {
		return submission.Submission{}, fmt.Errorf("%w: submission is %s", ErrConflict, sub.Status)
	}

	reviewedAt := s.now().UTC()
	entries := []stats.LedgerEntry{
		stats.GoalsAssistsEntry(sub.Goals, sub.Assists, sub.GameDate, reviewerID, reviewedAt),
	}

	approved, err := s.submissionRepo.Approve(ctx, submissionID, reviewerID, reviewedAt, entries)
	if err != nil {
		if errors.Is(err, submission.ErrAlreadyReviewed) {
			return submission.Submission{}, fmt.Errorf("%w: submission %s was reviewed concurrently", ErrConflict, submissionID)
		}
		if errors.Is(err, submission.ErrNotFound) {
			return submission.Submission{}, fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
		}
		return submission.Submission{}, fmt.Errorf("approve submission: %w", err)
	}

	s.logger.InfoContext(ctx, "submission approved",
		"submission_id", approved.ID,
		"player_id", approved.PlayerID,
		"reviewed_by", reviewerID,
	)
	return approved, nil
}

// Reject transitions a Pending submission to Rejected. No ledger effect.
func (s *SubmissionService) Reject(ctx context.Context, submissionID, reviewerID string) (submission.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.Reject")
	defer span.End()

	rejected, err := s.submissionRepo.Reject(ctx, submissionID, reviewerID, s.now().UTC())
	if err != nil {
		if errors.Is(err, submission.ErrAlreadyReviewed) {
			return submission.Submission{}, fmt.Errorf("%w: submission %s was reviewed concurrently", ErrConflict, submissionID)
		}
		if errors.Is(err, submission.ErrNotFound) {
			return submission.Submission{}, fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
		}
		return submission.Submission{}, fmt.Errorf("reject submission: %w", err)
	}

	s.logger.InfoContext(ctx, "submission rejected",
		"submission_id", rejected.ID,
		"player_id", rejected.PlayerID,
		"reviewed_by", reviewerID,
	)
	return rejected, nil
}
