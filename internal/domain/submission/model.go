package submission

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var (
	ErrNotFound         = errors.New("submission not found")
	ErrDuplicatePending = errors.New("a pending submission already exists for this player and game")
	ErrAlreadyReviewed  = errors.New("submission has already been reviewed")
)

// Submission is one player-submitted goals & assists claim. It is created as
// Pending and reviewed exactly once; Approved and Rejected are terminal.
type Submission struct {
	ID          string
	PlayerID    string
	PlayerName  string
	GameDate    string
	Goals       int
	Assists     int
	SubmittedBy string
	SubmittedAt time.Time
	Status      Status
	ReviewedBy  string
	ReviewedAt  *time.Time
}

func (s Submission) IsPending() bool {
	return s.Status == StatusPending
}
