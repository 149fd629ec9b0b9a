package memory

import (
	"context"
	"sync"

	"github.com/matchnight/clubhouse/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.Mutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	return nil
}

// All exists for tests; the core never reads notifications back.
func (r *NotificationRepository) All() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]notification.Notification(nil), r.items...)
}
