package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iordersink"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ipendingrepo"
	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"
)

type onlineSignal interface {
	Online() bool
}

// pollGate tells the poll loop whether the queue may still hold undelivered orders.
type pollGate interface {
	Armed() bool
	Arm()
	Disarm()
}

// Report summarizes one reconciliation cycle.
type Report struct {
	Skipped   bool `json:"skipped"`
	Attempted int  `json:"attempted"`
	Synced    int  `json:"synced"`
	Failed    int  `json:"failed"`
}

// Worker drains the pending order queue into the order sink.
type Worker struct {
	pendingRepo  ipendingrepo.IPendingRepository
	sink         iordersink.IOrderSink
	connectivity onlineSignal
	pollInterval time.Duration
	gate         pollGate

	group     singleflight.Group
	triggerCh chan string
	stopCh    chan struct{}
}

// NewWorker creates a new reconciliation worker.
// reconcile.poll_interval_seconds enables a periodic cycle on top of wake signals.
func NewWorker(
	pendingRepo ipendingrepo.IPendingRepository,
	sink iordersink.IOrderSink,
	conn onlineSignal,
) *Worker {
	return &Worker{
		pendingRepo:  pendingRepo,
		sink:         sink,
		connectivity: conn,
		pollInterval: time.Duration(viper.GetInt("reconcile.poll_interval_seconds")) * time.Second,
		triggerCh:    make(chan string, 1),
		stopCh:       make(chan struct{}),
	}
}

// Wake asks the running worker for a cycle. It never blocks; signals arriving
// while one is already waiting are merged into it.
func (w *Worker) Wake(source string) {
	select {
	case w.triggerCh <- source:
	default:
		slog.Debug("Reconcile already requested", "source", source)
	}
}

// Start runs a cycle on every wake signal (and poll tick, if enabled) until stopped.
func (w *Worker) Start(ctx context.Context) {
	var tick <-chan time.Time
	if w.pollInterval > 0 {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	slog.Info("Reconcile worker started", "poll_interval", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reconcile worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Reconcile worker stopped")

			return
		case source := <-w.triggerCh:
			w.run(ctx, source)
		case <-tick:
			if w.gate != nil && !w.gate.Armed() {
				continue
			}
			w.run(ctx, "poll")
		}
	}
}

// GatePolling makes poll ticks run only while gate is armed. Each cycle re-arms the
// gate when orders may be left behind and disarms it once the queue was drained.
func (w *Worker) GatePolling(gate pollGate) {
	w.gate = gate
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) run(ctx context.Context, source string) {
	report, err := w.Reconcile(ctx)
	if w.gate != nil {
		if err != nil || report.Skipped || report.Failed > 0 {
			w.gate.Arm()
		} else {
			w.gate.Disarm()
		}
	}
	if err != nil {
		slog.ErrorContext(ctx, "Reconcile cycle failed", "source", source, "error", err)

		return
	}
	if report.Attempted > 0 {
		slog.InfoContext(ctx, "Reconcile cycle finished",
			"source", source,
			"attempted", report.Attempted,
			"synced", report.Synced,
			"failed", report.Failed,
		)
	}
}

// Reconcile runs one cycle. Concurrent callers share the cycle already in flight.
// The cycle outlives the caller that started it and is cut short only by Stop.
func (w *Worker) Reconcile(ctx context.Context) (Report, error) {
	v, err, _ := w.group.Do("reconcile", func() (any, error) {
		cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()

		go func() {
			select {
			case <-w.stopCh:
				cancel()
			case <-cycleCtx.Done():
			}
		}()

		return w.drain(cycleCtx)
	})

	return v.(Report), err
}

// drain submits every queued order once. An entry is removed only after the sink
// accepted it; failures are logged and left for the next cycle.
func (w *Worker) drain(ctx context.Context) (Report, error) {
	if !w.connectivity.Online() {
		return Report{Skipped: true}, nil
	}

	entries, err := w.pendingRepo.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	if len(entries) == 0 {
		return report, nil
	}

	slog.InfoContext(ctx, "Processing pending orders", "count", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.Attempted++
		created, err := w.sink.Insert(ctx, entry.Payload())
		if err != nil {
			report.Failed++
			slog.WarnContext(ctx, "Failed to submit pending order, will retry",
				"idempotency_key", entry.IdempotencyKey,
				"error", err,
			)

			continue
		}

		report.Synced++
		if err := w.pendingRepo.Remove(ctx, entry.IdempotencyKey); err != nil {
			slog.ErrorContext(ctx, "Failed to remove pending order after successful submit",
				"idempotency_key", entry.IdempotencyKey,
				"order_id", created.ID,
				"error", err,
			)

			continue
		}

		slog.InfoContext(ctx, "Pending order submitted and removed from queue",
			"idempotency_key", entry.IdempotencyKey,
			"order_id", created.ID,
		)
	}

	return report, nil
}
