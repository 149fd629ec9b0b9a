package schedule

import "context"

// Repository persists the singleton weekly schedule document.
type Repository interface {
	Get(ctx context.Context) (Schedule, bool, error)
	Replace(ctx context.Context, s Schedule) error
}
