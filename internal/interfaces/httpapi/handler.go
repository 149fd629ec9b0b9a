package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matchnight/clubhouse/internal/platform/logging"
	"github.com/matchnight/clubhouse/internal/usecase"
)

type Handler struct {
	lifecycleService   *usecase.LifecycleService
	statsService       *usecase.StatsService
	submissionService  *usecase.SubmissionService
	recognitionService *usecase.RecognitionService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	lifecycleService *usecase.LifecycleService,
	statsService *usecase.StatsService,
	submissionService *usecase.SubmissionService,
	recognitionService *usecase.RecognitionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		lifecycleService:   lifecycleService,
		statsService:       statsService,
		submissionService:  submissionService,
		recognitionService: recognitionService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
