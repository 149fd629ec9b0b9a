package usecase

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrDuplicatePending = errors.New("a pending submission must be reviewed first")
	ErrWindowClosed     = errors.New("action is only available once the game is complete")
	ErrConflict         = errors.New("resource was changed by a concurrent update")
)
