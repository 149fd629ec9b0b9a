package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/matchnight/clubhouse/internal/domain/submission"
	"github.com/matchnight/clubhouse/internal/usecase"
)

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSubmission")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createSubmissionRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := strings.TrimSpace(req.PlayerID)
	playerName := strings.TrimSpace(req.PlayerName)
	if playerID == "" {
		playerID = principal.UserID
		if playerName == "" {
			playerName = principal.Name
		}
	}

	sub, err := h.submissionService.Submit(ctx, usecase.SubmitInput{
		PlayerID:    playerID,
		PlayerName:  playerName,
		GameDate:    strings.TrimSpace(req.GameDate),
		Goals:       req.Goals,
		Assists:     req.Assists,
		SubmittedBy: principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create submission failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(ctx, sub))
}

func (h *Handler) ListPendingSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPendingSubmissions")
	defer span.End()

	pending, err := h.submissionService.ListPending(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pending submissions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]submissionDTO, 0, len(pending))
	for _, sub := range pending {
		items = append(items, submissionToDTO(ctx, sub))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveSubmission")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	approved, err := h.submissionService.Approve(ctx, submissionID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve submission failed", "submission_id", submissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(ctx, approved))
}

func (h *Handler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectSubmission")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	rejected, err := h.submissionService.Reject(ctx, submissionID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "reject submission failed", "submission_id", submissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(ctx, rejected))
}

type createSubmissionRequest struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	GameDate   string `json:"gameDate"`
	Goals      int    `json:"goals" validate:"gte=0"`
	Assists    int    `json:"assists" validate:"gte=0"`
}

type submissionDTO struct {
	ID             string `json:"id"`
	PlayerID       string `json:"playerId"`
	PlayerName     string `json:"playerName"`
	GameDate       string `json:"gameDate"`
	Goals          int    `json:"goals"`
	Assists        int    `json:"assists"`
	SubmittedBy    string `json:"submittedBy"`
	SubmittedAtUTC string `json:"submittedAtUtc"`
	Status         string `json:"status"`
	ReviewedBy     string `json:"reviewedBy,omitempty"`
	ReviewedAtUTC  string `json:"reviewedAtUtc,omitempty"`
}

func submissionToDTO(ctx context.Context, sub submission.Submission) submissionDTO {
	ctx, span := startSpan(ctx, "httpapi.submissionToDTO")
	defer span.End()

	dto := submissionDTO{
		ID:             sub.ID,
		PlayerID:       sub.PlayerID,
		PlayerName:     sub.PlayerName,
		GameDate:       sub.GameDate,
		Goals:          sub.Goals,
		Assists:        sub.Assists,
		SubmittedBy:    sub.SubmittedBy,
		SubmittedAtUTC: sub.SubmittedAt.UTC().Format(time.RFC3339),
		Status:         string(sub.Status),
	}
	if sub.ReviewedBy != "" {
		dto.ReviewedBy = sub.ReviewedBy
	}
	if sub.ReviewedAt != nil {
		dto.ReviewedAtUTC = sub.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
