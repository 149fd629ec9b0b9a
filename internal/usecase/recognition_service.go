package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchnight/clubhouse/internal/domain/notification"
	"github.com/matchnight/clubhouse/internal/domain/stats"
	idgen "github.com/matchnight/clubhouse/internal/platform/id"
	"github.com/matchnight/clubhouse/internal/platform/logging"
)

const pushTimeout = 5 * time.Second

// RecognitionService handles the social post-game actions: Man of the Match
// nominations and kudos. Both are gated on the lifecycle being Complete and
// both notify the recipient; MOTM additionally writes a ledger entry.
type RecognitionService struct {
	statsRepo        stats.Repository
	notificationRepo notification.Repository
	publisher        notification.Publisher
	lifecycle        *LifecycleService
	idGen            idgen.Generator
	pool             *ants.Pool
	motmPoints       int
	logger           *logging.Logger
	now              func() time.Time
}

func NewRecognitionService(
	statsRepo stats.Repository,
	notificationRepo notification.Repository,
	publisher notification.Publisher,
	lifecycle *LifecycleService,
	idGen idgen.Generator,
	pushWorkers int,
	motmPoints int,
	logger *logging.Logger,
) (*RecognitionService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if pushWorkers < 1 {
		pushWorkers = 4
	}
	if motmPoints < 0 {
		motmPoints = 0
	}

	pool, err := ants.NewPool(pushWorkers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create push worker pool: %w", err)
	}

	return &RecognitionService{
		statsRepo:        statsRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		lifecycle:        lifecycle,
		idGen:            idGen,
		pool:             pool,
		motmPoints:       motmPoints,
		logger:           logger,
		now:              time.Now,
	}, nil
}

// Close releases the push worker pool.
func (s *RecognitionService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// NominateMOTM awards a Man of the Match nomination to a player for the
// current complete game.
func (s *RecognitionService) NominateMOTM(ctx context.Context, playerID, playerName, nominatedBy string) (stats.PlayerStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecognitionService.NominateMOTM")
	defer span.End()

	if playerID == "" {
		return stats.PlayerStats{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	current, err := s.lifecycle.requireCompleteGame(ctx, "")
	if err != nil {
		return stats.PlayerStats{}, err
	}

	awardedAt := s.now().UTC()
	entry := stats.MOTMEntry(s.motmPoints, current.MatchDate(), nominatedBy, awardedAt)
	agg, err := s.statsRepo.Append(ctx, playerID, playerName, entry)
	if err != nil {
		if errors.Is(err, stats.ErrNegativeStat) {
			return stats.PlayerStats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return stats.PlayerStats{}, fmt.Errorf("append motm entry: %w", err)
	}

	s.notify(ctx, notification.Notification{
		UserID:    playerID,
		Kind:      notification.KindMOTMNomination,
		Message:   fmt.Sprintf("You were nominated Man of the Match for %s", current.Formatted()),
		CreatedAt: awardedAt,
	})

	s.logger.InfoContext(ctx, "motm nomination recorded",
		"player_id", playerID,
		"game_date", current.MatchDate(),
		"nominated_by", nominatedBy,
	)
	return agg, nil
}

// GiveKudos sends a kudos notification to a player for the current complete
// game. Kudos carry no points.
func (s *RecognitionService) GiveKudos(ctx context.Context, playerID, from, message string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecognitionService.GiveKudos")
	defer span.End()

	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	if _, err := s.lifecycle.requireCompleteGame(ctx, ""); err != nil {
		return err
	}

	if message == "" {
		message = fmt.Sprintf("%s sent you kudos for today's game", from)
	}
	s.notify(ctx, notification.Notification{
		UserID:    playerID,
		Kind:      notification.KindKudos,
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	return nil
}

// notify stores the notification and hands the push off to the worker pool.
// Both halves are fire-and-forget: recognition never fails because delivery
// did.
func (s *RecognitionService) notify(ctx context.Context, n notification.Notification) {
	id, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "skip notification, id generation failed", "error", err)
		return
	}
	n.ID = id

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "store notification failed",
			"user_id", n.UserID,
			"kind", n.Kind,
			"error", err,
		)
	}

	if s.publisher == nil {
		return
	}
	task := func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := s.publisher.Publish(pushCtx, n); err != nil {
			s.logger.Warn("push notification failed",
				"notification_id", n.ID,
				"user_id", n.UserID,
				"error", err,
			)
		}
	}
	if err := s.pool.Submit(task); err != nil {
		s.logger.WarnContext(ctx, "push worker pool saturated, dropping push",
			"notification_id", n.ID,
			"error", err,
		)
	}
}
