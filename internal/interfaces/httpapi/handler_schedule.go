package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/matchnight/clubhouse/internal/domain/schedule"
	"github.com/matchnight/clubhouse/internal/usecase"
)

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	sched, ok, err := h.lifecycleService.Schedule(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeSuccess(ctx, w, http.StatusOK, scheduleDTO{Days: []scheduleDayDTO{}})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(ctx, sched))
}

func (h *Handler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutSchedule")
	defer span.End()

	var req scheduleUpsertRequest
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

	sched := schedule.Schedule{
		Days:      make(map[time.Weekday]string, len(req.Days)),
		Locations: make(map[time.Weekday]string),
	}
	for _, day := range req.Days {
		weekday, err := parseWeekday(day.Day)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		if _, exists := sched.Days[weekday]; exists {
			writeError(ctx, w, fmt.Errorf("%w: day %s listed twice", usecase.ErrInvalidInput, day.Day))
			return
		}
		sched.Days[weekday] = day.Kickoff
		if strings.TrimSpace(day.Location) != "" {
			sched.Locations[weekday] = strings.TrimSpace(day.Location)
		}
	}

	if err := h.lifecycleService.ReplaceSchedule(ctx, sched); err != nil {
		h.logger.WarnContext(ctx, "replace schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(ctx, sched))
}

type scheduleUpsertRequest struct {
	Days []scheduleDayRequest `json:"days" validate:"required,min=1,dive"`
}

type scheduleDayRequest struct {
	Day      string `json:"day" validate:"required"`
	Kickoff  string `json:"kickoff" validate:"required"`
	Location string `json:"location"`
}

type scheduleDTO struct {
	Days []scheduleDayDTO `json:"days"`
}

type scheduleDayDTO struct {
	Day      string `json:"day"`
	Kickoff  string `json:"kickoff"`
	Location string `json:"location,omitempty"`
}

func scheduleToDTO(ctx context.Context, sched schedule.Schedule) scheduleDTO {
	ctx, span := startSpan(ctx, "httpapi.scheduleToDTO")
	defer span.End()

	days := make([]scheduleDayDTO, 0, len(sched.Days))
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		kickoff, ok := sched.Days[weekday]
		if !ok {
			continue
		}
		days = append(days, scheduleDayDTO{
			Day:      strings.ToLower(weekday.String()),
			Kickoff:  kickoff,
			Location: sched.Locations[weekday],
		})
	}
	return scheduleDTO{Days: days}
}

func parseWeekday(value string) (time.Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		if strings.ToLower(weekday.String()) == normalized {
			return weekday, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown day %q", value)
}
