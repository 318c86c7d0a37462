package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type staleDeactivator interface {
	DeactivateStale(ctx context.Context, before time.Time) (int64, error)
}

// StaleCardWorker esconde do board os clientes parados há mais de staleAfter.
type StaleCardWorker struct {
	repo         staleDeactivator
	staleAfter   time.Duration
	tickInterval time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewStaleCardWorker(repo staleDeactivator, staleAfter, tickInterval time.Duration, logger *zap.Logger) *StaleCardWorker {
	return &StaleCardWorker{
		repo:         repo,
		staleAfter:   staleAfter,
		tickInterval: tickInterval,
		logger:       logger,
		now:          time.Now,
	}
}

// Start bloqueia até o ctx ser cancelado. staleAfter zero desliga o worker.
func (w *StaleCardWorker) Start(ctx context.Context) {
	if w.staleAfter <= 0 {
		w.logger.Info("stale card worker desligado")
		return
	}

	w.logger.Info("stale card worker iniciado",
		zap.Duration("stale_after", w.staleAfter),
		zap.Duration("interval", w.tickInterval),
	)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stale card worker encerrado")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleCardWorker) sweep(ctx context.Context) int64 {
	before := w.now().Add(-w.staleAfter)

	n, err := w.repo.DeactivateStale(ctx, before)
	if err != nil {
		w.logger.Error("erro ao desativar cards parados", zap.Error(err))
		return 0
	}

	if n > 0 {
		w.logger.Info("cards parados removidos do board", zap.Int64("count", n), zap.Time("before", before))
	}
	return n
}
