package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.statsService.Leaderboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerStatsDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerStatsToDTO(ctx, p, false))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	agg, err := h.statsService.PlayerStats(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(ctx, agg, true))
}

func (h *Handler) PutPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutPlayerStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req adminEditStatsRequest
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

	updated, err := h.statsService.AdminEdit(ctx, usecase.AdminEditInput{
		PlayerID:    playerID,
		PlayerName:  req.PlayerName,
		TotalPoints: req.TotalPoints,
		Goals:       req.Goals,
		Assists:     req.Assists,
		EditedBy:    principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "admin stat edit failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerStatsToDTO(ctx, updated, true))
}

func (h *Handler) PostAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostAttendance")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	// Body is optional: an empty POST records attendance without a name.
	var req attendanceRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	err := h.statsService.RecordAttendance(ctx, []usecase.Attendee{
		{PlayerID: playerID, PlayerName: req.PlayerName},
	}, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "record attendance failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recorded"})
}

type adminEditStatsRequest struct {
	PlayerName  string `json:"playerName"`
	TotalPoints *int   `json:"totalPoints" validate:"omitempty,gte=0"`
	Goals       *int   `json:"goals" validate:"omitempty,gte=0"`
	Assists     *int   `json:"assists" validate:"omitempty,gte=0"`
}

type attendanceRequest struct {
	PlayerName string `json:"playerName"`
}

type playerStatsDTO struct {
	PlayerID    string           `json:"playerId"`
	PlayerName  string           `json:"playerName"`
	TotalPoints int              `json:"totalPoints"`
	Goals       int              `json:"goals"`
	Assists     int              `json:"assists"`
	MOTMAwards  int              `json:"motmAwards"`
	GamesPlayed int              `json:"gamesPlayed"`
	History     []ledgerEntryDTO `json:"history,omitempty"`
}

type ledgerEntryDTO struct {
	PointsDelta  int    `json:"pointsDelta"`
	GoalsDelta   int    `json:"goalsDelta"`
	AssistsDelta int    `json:"assistsDelta"`
	MOTMDelta    int    `json:"motmDelta"`
	Reason       string `json:"reason"`
	AddedBy      string `json:"addedBy"`
	AddedAtUTC   string `json:"addedAtUtc"`
	MatchDate    string `json:"matchDate,omitempty"`
	Automatic    bool   `json:"automatic"`
	AdminEdit    bool   `json:"adminEdit"`
}

func playerStatsToDTO(ctx context.Context, agg stats.PlayerStats, withHistory bool) playerStatsDTO {
	ctx, span := startSpan(ctx, "httpapi.playerStatsToDTO")
	defer span.End()

	dto := playerStatsDTO{
		PlayerID:    agg.PlayerID,
		PlayerName:  agg.PlayerName,
		TotalPoints: agg.TotalPoints,
		Goals:       agg.Goals,
		Assists:     agg.Assists,
		MOTMAwards:  agg.MOTMAwards,
		GamesPlayed: agg.GamesPlayed,
	}
	if !withHistory {
		return dto
	}

	dto.History = make([]ledgerEntryDTO, 0, len(agg.History))
	for _, entry := range agg.History {
		dto.History = append(dto.History, ledgerEntryDTO{
			PointsDelta:  entry.PointsDelta,
			GoalsDelta:   entry.GoalsDelta,
			AssistsDelta: entry.AssistsDelta,
			MOTMDelta:    entry.MOTMDelta,
			Reason:       entry.Reason,
			AddedBy:      entry.AddedBy,
			AddedAtUTC:   entry.AddedAt.UTC().Format(time.RFC3339),
			MatchDate:    entry.MatchDate,
			Automatic:    entry.Automatic,
			AdminEdit:    entry.AdminEdit,
		})
	}
	return dto
}
