package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/game"
	"github.com/matchnight/clubhouse/internal/domain/schedule"
)

// LifecycleService derives the game lifecycle state on demand. It holds no
// state between calls: every evaluation reads the latest schedule and folds
// it through the pure clock functions, so timer ticks and schedule-change
// notifications can race freely and still converge.
type LifecycleService struct {
	scheduleRepo schedule.Repository
	location     *time.Location
	now          func() time.Time
}

func NewLifecycleService(scheduleRepo schedule.Repository, location *time.Location) *LifecycleService {
	if location == nil {
		location = time.Local
	}
	return &LifecycleService{
		scheduleRepo: scheduleRepo,
		location:     location,
		now:          time.Now,
	}
}

// Current evaluates the lifecycle state for this instant.
func (s *LifecycleService) Current(ctx context.Context) (game.State, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.Current")
	defer span.End()

	sched, ok, err := s.scheduleRepo.Get(ctx)
	if err != nil {
		return game.State{}, fmt.Errorf("load schedule: %w", err)
	}
	if !ok || sched.IsZero() {
		return game.State{Phase: game.PhaseDormant}, nil
	}

	now := s.now().In(s.location)
	return game.Resolve(game.Evaluate(sched, now), now), nil
}

// Schedule returns the current weekly schedule document.
func (s *LifecycleService) Schedule(ctx context.Context) (schedule.Schedule, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.Schedule")
	defer span.End()

	sched, ok, err := s.scheduleRepo.Get(ctx)
	if err != nil {
		return schedule.Schedule{}, false, fmt.Errorf("load schedule: %w", err)
	}
	return sched, ok, nil
}

// ReplaceSchedule validates and stores a whole new weekly schedule. Partial
// edits do not exist; the document is replaced as a unit.
func (s *LifecycleService) ReplaceSchedule(ctx context.Context, sched schedule.Schedule) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.ReplaceSchedule")
	defer span.End()

	if err := schedule.Validate(sched); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.scheduleRepo.Replace(ctx, sched); err != nil {
		return fmt.Errorf("replace schedule: %w", err)
	}
	return nil
}

// requireCompleteGame returns the in-window game when post-game actions are
// unlocked for gameDate, or ErrWindowClosed.
func (s *LifecycleService) requireCompleteGame(ctx context.Context, gameDate string) (game.Occurrence, error) {
	state, err := s.Current(ctx)
	if err != nil {
		return game.Occurrence{}, err
	}
	if !state.PostGameActionsEnabled() || state.Game == nil {
		return game.Occurrence{}, fmt.Errorf("%w: lifecycle is %s", ErrWindowClosed, state.Phase)
	}
	if gameDate != "" && state.Game.MatchDate() != gameDate {
		return game.Occurrence{}, fmt.Errorf("%w: %s is not the current game", ErrWindowClosed, gameDate)
	}
	return *state.Game, nil
}
