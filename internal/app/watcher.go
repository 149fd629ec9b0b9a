package app

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/matchnight/clubhouse/internal/domain/game"
	"github.com/matchnight/clubhouse/internal/platform/logging"
	"github.com/matchnight/clubhouse/internal/usecase"
)

// LifecycleWatcher re-evaluates the game lifecycle on a short interval and
// logs phase transitions. The lifecycle itself is derived on demand, so the
// watcher exists purely for operator visibility; nothing downstream depends
// on its ticks.
type LifecycleWatcher struct {
	lifecycle *usecase.LifecycleService
	interval  time.Duration
	logger    *logging.Logger

	wg     conc.WaitGroup
	cancel context.CancelFunc
}

func NewLifecycleWatcher(lifecycle *usecase.LifecycleService, interval time.Duration, logger *logging.Logger) *LifecycleWatcher {
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LifecycleWatcher{
		lifecycle: lifecycle,
		interval:  interval,
		logger:    logger,
	}
}

func (w *LifecycleWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Go(func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		lastPhase := w.observe(ctx, game.Phase(""))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				lastPhase = w.observe(ctx, lastPhase)
			}
		}
	})
}

func (w *LifecycleWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *LifecycleWatcher) observe(ctx context.Context, lastPhase game.Phase) game.Phase {
	state, err := w.lifecycle.Current(ctx)
	if err != nil {
		w.logger.Warn("lifecycle evaluation failed", "error", err)
		return lastPhase
	}

	if state.Phase != lastPhase {
		fields := []any{"from", string(lastPhase), "to", string(state.Phase)}
		if state.Game != nil {
			fields = append(fields, "game_date", state.Game.MatchDate())
		}
		if state.Next != nil {
			fields = append(fields, "next_game", state.Next.MatchDate())
		}
		w.logger.Info("lifecycle phase changed", fields...)
	}
	return state.Phase
}
