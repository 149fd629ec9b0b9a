package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/matchnight/clubhouse/internal/config"
	"github.com/matchnight/clubhouse/internal/domain/notification"
	"github.com/matchnight/clubhouse/internal/domain/schedule"
	"github.com/matchnight/clubhouse/internal/domain/stats"
	"github.com/matchnight/clubhouse/internal/domain/submission"
	"github.com/matchnight/clubhouse/internal/infrastructure/push"
	"github.com/matchnight/clubhouse/internal/infrastructure/repository/memory"
	"github.com/matchnight/clubhouse/internal/infrastructure/repository/postgres"
	"github.com/matchnight/clubhouse/internal/interfaces/httpapi"
	idgen "github.com/matchnight/clubhouse/internal/platform/id"
	"github.com/matchnight/clubhouse/internal/platform/logging"
	"github.com/matchnight/clubhouse/internal/usecase"
)

// App holds the wired HTTP server and the background pieces that need an
// orderly shutdown.
type App struct {
	Server  *http.Server
	Watcher *LifecycleWatcher

	recognition *usecase.RecognitionService
	db          *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		scheduleRepo     schedule.Repository
		statsRepo        stats.Repository
		submissionRepo   submission.Repository
		notificationRepo notification.Repository
		db               *sqlx.DB
	)
	if cfg.DBURL != "" {
		var err error
		db, err = openDB(cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, err
		}
		scheduleRepo = postgres.NewScheduleRepository(db)
		statsRepo = postgres.NewStatsRepository(db)
		submissionRepo = postgres.NewSubmissionRepository(db)
		notificationRepo = postgres.NewNotificationRepository(db)
		logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		memStats := memory.SeedStatsRepository()
		scheduleRepo = memory.NewScheduleRepositoryWith(memory.SeedSchedule())
		statsRepo = memStats
		submissionRepo = memory.NewSubmissionRepository(memStats)
		notificationRepo = memory.NewNotificationRepository()
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
	}

	lifecycleSvc := usecase.NewLifecycleService(scheduleRepo, cfg.Location)
	statsSvc := usecase.NewStatsService(statsRepo, lifecycleSvc, cfg.AttendancePoints, logger)
	submissionSvc := usecase.NewSubmissionService(submissionRepo, lifecycleSvc, idgen.NewRandomGenerator(), logger)

	var publisher notification.Publisher
	if cfg.PushEnabled {
		publisher = push.NewWebhookPublisher(push.WebhookPublisherConfig{
			URL:                     cfg.PushWebhookURL,
			Token:                   cfg.PushWebhookToken,
			Retries:                 cfg.PushRetries,
			Timeout:                 cfg.PushTimeout,
			CircuitEnabled:          cfg.PushCircuitEnabled,
			CircuitFailureThreshold: cfg.PushCircuitFailureCount,
			CircuitOpenTimeout:      cfg.PushCircuitOpenTimeout,
		}, logger)
	} else {
		logger.Info("push delivery disabled", "reason", "PUSH_ENABLED=false")
	}

	recognitionSvc, err := usecase.NewRecognitionService(
		statsRepo,
		notificationRepo,
		publisher,
		lifecycleSvc,
		idgen.NewRandomGenerator(),
		cfg.NotifyWorkers,
		cfg.MOTMPoints,
		logger,
	)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	handler := httpapi.NewHandler(lifecycleSvc, statsSvc, submissionSvc, recognitionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:      server,
		Watcher:     NewLifecycleWatcher(lifecycleSvc, cfg.LifecycleInterval, logger),
		recognition: recognitionSvc,
		db:          db,
	}, nil
}

// Close stops the background watcher and releases pooled resources. The HTTP
// server is shut down separately by the caller.
func (a *App) Close() {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	if a.recognition != nil {
		a.recognition.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
