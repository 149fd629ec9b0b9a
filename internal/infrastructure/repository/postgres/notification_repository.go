package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchnight/clubhouse/internal/domain/notification"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, kind, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.UserID, string(n.Kind), n.Message, n.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
