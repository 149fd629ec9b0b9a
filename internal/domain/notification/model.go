package notification

import (
	"context"
	"time"
)

type Kind string

const (
	KindMOTMNomination Kind = "MOTM_NOMINATION"
	KindKudos          Kind = "KUDOS"
)

// Notification informs a player's account of a recognition event. The core
// only ever writes these; delivery and read state belong to the client apps.
type Notification struct {
	ID        string
	UserID    string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// Repository is the write-only notifications collection.
type Repository interface {
	Create(ctx context.Context, n Notification) error
}

// Publisher pushes a notification to the external delivery service.
// Fire-and-forget: failures are logged, never surfaced to the caller.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}
