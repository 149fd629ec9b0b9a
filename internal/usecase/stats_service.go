package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/platform/logging"
)

// StatsService reads and mutates player aggregates. Every mutation is an
// appended ledger entry; the cached counters only ever move together with the
// history they summarize.
type StatsService struct {
	statsRepo        stats.Repository
	lifecycle        *LifecycleService
	attendancePoints int
	logger           *logging.Logger
	now              func() time.Time
}

func NewStatsService(
	statsRepo stats.Repository,
	lifecycle *LifecycleService,
	attendancePoints int,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if attendancePoints < 0 {
		attendancePoints = 0
	}
	return &StatsService{
		statsRepo:        statsRepo,
		lifecycle:        lifecycle,
		attendancePoints: attendancePoints,
		logger:           logger,
		now:              time.Now,
	}
}

// PlayerStats returns one player's aggregate including full history.
func (s *StatsService) PlayerStats(ctx context.Context, playerID string) (stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerStats")
	defer span.End()

	agg, ok, err := s.statsRepo.Get(ctx, playerID)
	if err != nil {
		return stats.PlayerStats{}, fmt.Errorf("load player stats: %w", err)
	}
	if !ok {
		return stats.PlayerStats{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	return agg, nil
}

// Leaderboard lists all players by total points descending, name ascending on
// ties.
func (s *StatsService) Leaderboard(ctx context.Context) ([]stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboard")
	defer span.End()

	players, err := s.statsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player stats: %w", err)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].TotalPoints != players[j].TotalPoints {
			return players[i].TotalPoints > players[j].TotalPoints
		}
		return players[i].PlayerName < players[j].PlayerName
	})
	return players, nil
}

// AdminEditInput carries absolute target values; nil leaves a field alone.
type AdminEditInput struct {
	PlayerID    string
	PlayerName  string
	TotalPoints *int
	Goals       *int
	Assists     *int
	EditedBy    string
}

// AdminEdit sets stats to absolute values by appending one reconciling ledger
// entry whose deltas bridge the current aggregate to the targets. Setting
// goals to 5 when the player has 2 records a +3 delta, so the fold invariant
// survives the edit and the audit trail shows what changed.
func (s *StatsService) AdminEdit(ctx context.Context, input AdminEditInput) (stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.AdminEdit")
	defer span.End()

	if input.PlayerID == "" {
		return stats.PlayerStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.TotalPoints == nil && input.Goals == nil && input.Assists == nil {
		return stats.PlayerStats{}, fmt.Errorf("%w: nothing to edit", ErrInvalidInput)
	}
	for name, target := range map[string]*int{
		"points": input.TotalPoints, "goals": input.Goals, "assists": input.Assists,
	} {
		if target != nil && *target < 0 {
			return stats.PlayerStats{}, fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, name)
		}
	}

	current, _, err := s.statsRepo.Get(ctx, input.PlayerID)
	if err != nil {
		return stats.PlayerStats{}, fmt.Errorf("load player stats: %w", err)
	}

	entry := stats.LedgerEntry{
		Reason:    stats.ReasonAdminEdit,
		AddedBy:   input.EditedBy,
		AddedAt:   s.now().UTC(),
		AdminEdit: true,
	}
	if input.TotalPoints != nil {
		entry.PointsDelta = *input.TotalPoints - current.TotalPoints
	}
	if input.Goals != nil {
		entry.GoalsDelta = *input.Goals - current.Goals
	}
	if input.Assists != nil {
		entry.AssistsDelta = *input.Assists - current.Assists
	}

	updated, err := s.statsRepo.Append(ctx, input.PlayerID, input.PlayerName, entry)
	if err != nil {
		if errors.Is(err, stats.ErrNegativeStat) {
			return stats.PlayerStats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return stats.PlayerStats{}, fmt.Errorf("append admin edit: %w", err)
	}

	s.logger.InfoContext(ctx, "admin stat edit applied",
		"player_id", input.PlayerID,
		"edited_by", input.EditedBy,
		"points_delta", entry.PointsDelta,
		"goals_delta", entry.GoalsDelta,
		"assists_delta", entry.AssistsDelta,
	)
	return updated, nil
}

type Attendee struct {
	PlayerID   string
	PlayerName string
}

// RecordAttendance appends a "Played in game" entry for each attendee of the
// current complete game. Only allowed once post-game actions are unlocked.
func (s *StatsService) RecordAttendance(ctx context.Context, attendees []Attendee, recordedBy string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecordAttendance")
	defer span.End()

	if len(attendees) == 0 {
		return fmt.Errorf("%w: at least one attendee is required", ErrInvalidInput)
	}

	current, err := s.lifecycle.requireCompleteGame(ctx, "")
	if err != nil {
		return err
	}

	recordedAt := s.now().UTC()
	for _, attendee := range attendees {
		if attendee.PlayerID == "" {
			return fmt.Errorf("%w: attendee player id is required", ErrInvalidInput)
		}
		entry := stats.AttendanceEntry(s.attendancePoints, current.MatchDate(), recordedBy, recordedAt)
		if _, err := s.statsRepo.Append(ctx, attendee.PlayerID, attendee.PlayerName, entry); err != nil {
			return fmt.Errorf("record attendance for %s: %w", attendee.PlayerID, err)
		}
	}

	s.logger.InfoContext(ctx, "attendance recorded",
		"game_date", current.MatchDate(),
		"players", len(attendees),
		"recorded_by", recordedBy,
	)
	return nil
}
