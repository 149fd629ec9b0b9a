package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/matchnight/clubhouse/internal/domain/game"
)

func (h *Handler) GetLifecycle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLifecycle")
	defer span.End()

	state, err := h.lifecycleService.Current(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluate lifecycle failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lifecycleToDTO(ctx, state))
}

type lifecycleDTO struct {
	Phase                  string         `json:"phase"`
	PostGameActionsEnabled bool           `json:"postGameActionsEnabled"`
	Game                   *occurrenceDTO `json:"game,omitempty"`
	Next                   *occurrenceDTO `json:"next,omitempty"`
}

type occurrenceDTO struct {
	MatchDate string `json:"matchDate"`
	Day       string `json:"day"`
	KickoffAt string `json:"kickoffAt"`
	Location  string `json:"location,omitempty"`
	Formatted string `json:"formatted"`
}

func lifecycleToDTO(ctx context.Context, state game.State) lifecycleDTO {
	ctx, span := startSpan(ctx, "httpapi.lifecycleToDTO")
	defer span.End()

	return lifecycleDTO{
		Phase:                  string(state.Phase),
		PostGameActionsEnabled: state.PostGameActionsEnabled(),
		Game:                   occurrenceToDTO(ctx, state.Game),
		Next:                   occurrenceToDTO(ctx, state.Next),
	}
}

func occurrenceToDTO(ctx context.Context, occ *game.Occurrence) *occurrenceDTO {
	ctx, span := startSpan(ctx, "httpapi.occurrenceToDTO")
	defer span.End()

	if occ == nil {
		return nil
	}
	return &occurrenceDTO{
		MatchDate: occ.MatchDate(),
		Day:       occ.Day.String(),
		KickoffAt: occ.Date.Format(time.RFC3339),
		Location:  occ.Location,
		Formatted: occ.Formatted(),
	}
}
