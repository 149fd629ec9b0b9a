package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/notification"
	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/infrastructure/repository/memory"
	"github.com/matchnight/clubhouse/internal/platform/logging"
)

type capturingPublisher struct {
	published chan notification.Notification
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{published: make(chan notification.Notification, 8)}
}

func (p *capturingPublisher) Publish(_ context.Context, n notification.Notification) error {
	p.published <- n
	return nil
}

func (p *capturingPublisher) wait(t *testing.T) notification.Notification {
	t.Helper()
	select {
	case n := <-p.published:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push delivery")
		return notification.Notification{}
	}
}

type recognitionFixture struct {
	service       *RecognitionService
	stats         *memory.StatsRepository
	notifications *memory.NotificationRepository
	publisher     *capturingPublisher
}

func newRecognitionFixture(t *testing.T, now time.Time) recognitionFixture {
	t.Helper()

	statsRepo := memory.NewStatsRepository()
	notificationRepo := memory.NewNotificationRepository()
	publisher := newCapturingPublisher()

	service, err := NewRecognitionService(
		statsRepo,
		notificationRepo,
		publisher,
		lifecycleAt(now),
		&sequenceIDGenerator{},
		2,
		3,
		logging.NewNop(),
	)
	if err != nil {
		t.Fatalf("build recognition service: %v", err)
	}
	service.now = func() time.Time { return now }
	t.Cleanup(service.Close)

	return recognitionFixture{
		service:       service,
		stats:         statsRepo,
		notifications: notificationRepo,
		publisher:     publisher,
	}
}

func TestRecognitionService_NominateMOTM(t *testing.T) {
	fx := newRecognitionFixture(t, completeGameNow)

	agg, err := fx.service.NominateMOTM(t.Context(), "player-1", "Dan Carter", "player-2")
	if err != nil {
		t.Fatalf("nominate failed: %v", err)
	}
	if agg.MOTMAwards != 1 || agg.TotalPoints != 3 {
		t.Fatalf("expected 1 award worth 3 points, got %+v", agg)
	}
	if len(agg.History) != 1 || agg.History[0].Reason != stats.ReasonManOfTheMatch {
		t.Fatalf("expected a single MOTM ledger entry, got %+v", agg.History)
	}

	stored := fx.notifications.All()
	if len(stored) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(stored))
	}
	if stored[0].UserID != "player-1" || stored[0].Kind != notification.KindMOTMNomination {
		t.Fatalf("unexpected notification %+v", stored[0])
	}
	if !strings.Contains(stored[0].Message, "Man of the Match") {
		t.Fatalf("expected MOTM message, got %q", stored[0].Message)
	}

	pushed := fx.publisher.wait(t)
	if pushed.UserID != "player-1" || pushed.ID == "" {
		t.Fatalf("unexpected pushed notification %+v", pushed)
	}
}

func TestRecognitionService_NominateMOTM_WindowClosed(t *testing.T) {
	fx := newRecognitionFixture(t, time.Date(2025, 6, 7, 19, 0, 0, 0, time.UTC))

	_, err := fx.service.NominateMOTM(t.Context(), "player-1", "Dan Carter", "player-2")
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
	if stored := fx.notifications.All(); len(stored) != 0 {
		t.Fatalf("expected no notifications while window is closed, got %d", len(stored))
	}
}

func TestRecognitionService_NominateMOTM_Validation(t *testing.T) {
	fx := newRecognitionFixture(t, completeGameNow)

	if _, err := fx.service.NominateMOTM(t.Context(), "", "", "player-2"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecognitionService_GiveKudos(t *testing.T) {
	fx := newRecognitionFixture(t, completeGameNow)

	err := fx.service.GiveKudos(t.Context(), "player-1", "Priya Shah", "great pressing tonight")
	if err != nil {
		t.Fatalf("kudos failed: %v", err)
	}

	stored := fx.notifications.All()
	if len(stored) != 1 {
		t.Fatalf("expected one stored notification, got %d", len(stored))
	}
	if stored[0].Kind != notification.KindKudos || stored[0].Message != "great pressing tonight" {
		t.Fatalf("unexpected kudos notification %+v", stored[0])
	}

	// Kudos never touch the ledger.
	if _, ok, err := fx.stats.Get(t.Context(), "player-1"); err != nil || ok {
		t.Fatalf("expected no stats from kudos, ok=%t err=%v", ok, err)
	}
}

func TestRecognitionService_GiveKudos_DefaultMessage(t *testing.T) {
	fx := newRecognitionFixture(t, completeGameNow)

	if err := fx.service.GiveKudos(t.Context(), "player-1", "Priya Shah", ""); err != nil {
		t.Fatalf("kudos failed: %v", err)
	}

	stored := fx.notifications.All()
	if len(stored) != 1 || !strings.Contains(stored[0].Message, "Priya Shah") {
		t.Fatalf("expected default message naming the sender, got %+v", stored)
	}
}

func TestRecognitionService_GiveKudos_WindowClosed(t *testing.T) {
	fx := newRecognitionFixture(t, time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC))

	err := fx.service.GiveKudos(t.Context(), "player-1", "Priya Shah", "nice one")
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}
