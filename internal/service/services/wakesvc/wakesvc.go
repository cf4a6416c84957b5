package wakesvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iwakeannouncer"
	"github.com/corray333/backend-labs/storefront/internal/wake"
	"golang.org/x/sync/errgroup"
)

// WakeService tells checkout agents that the backend is ready for their queued orders.
type WakeService struct {
	announcers []iwakeannouncer.IWakeAnnouncer
}

// Option is a function that configures the WakeService.
type Option func(*WakeService)

func MustNewWakeService(opts ...Option) *WakeService {
	s := &WakeService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithAnnouncer adds a broadcast channel. Nil announcers are ignored.
func WithAnnouncer(a iwakeannouncer.IWakeAnnouncer) Option {
	return func(s *WakeService) {
		if a != nil {
			s.announcers = append(s.announcers, a)
		}
	}
}

// Broadcast publishes SYNC_ORDERS on every configured channel.
// It fails only when every channel failed.
func (s *WakeService) Broadcast(ctx context.Context, source string) error {
	if len(s.announcers) == 0 {
		slog.Debug("No wake announcers configured", "source", source)

		return nil
	}

	msg := wake.NewSyncOrders(source)
	errs := make([]error, len(s.announcers))

	var g errgroup.Group
	for i, a := range s.announcers {
		g.Go(func() error {
			if err := a.Announce(ctx, msg); err != nil {
				slog.Warn("Failed to announce wake", "announcer", a.Name(), "error", err)
				errs[i] = fmt.Errorf("%s: %w", a.Name(), err)
			}

			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	var last error
	for _, err := range errs {
		if err != nil {
			failed++
			last = err
		}
	}
	if failed == len(s.announcers) {
		return fmt.Errorf("failed to broadcast wake: %w", last)
	}

	slog.Info("Wake broadcast sent", "source", source, "channels", len(s.announcers)-failed)

	return nil
}
