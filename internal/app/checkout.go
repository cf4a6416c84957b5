package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/connectivity"
	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ipendingrepo"
	dalkafka "github.com/corray333/backend-labs/storefront/internal/dal/kafka"
	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/storefront/internal/dal/redis"
	memoryrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/pending/memory"
	sqliterepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/pending/sqlite"
	httpsink "github.com/corray333/backend-labs/storefront/internal/dal/sink/http"
	"github.com/corray333/backend-labs/storefront/internal/dal/sqlite"
	"github.com/corray333/backend-labs/storefront/internal/otel"
	"github.com/corray333/backend-labs/storefront/internal/service/models/cart"
	"github.com/corray333/backend-labs/storefront/internal/service/services/checkoutsvc"
	checkouttransport "github.com/corray333/backend-labs/storefront/internal/transport/http/checkout"
	kafkaconsumer "github.com/corray333/backend-labs/storefront/internal/transport/wake/kafka"
	rabbitconsumer "github.com/corray333/backend-labs/storefront/internal/transport/wake/rabbitmq"
	redisconsumer "github.com/corray333/backend-labs/storefront/internal/transport/wake/redis"
	"github.com/corray333/backend-labs/storefront/internal/wake"
	"github.com/corray333/backend-labs/storefront/internal/worker/reconcile"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type wakeConsumer interface {
	Run(ctx context.Context) error
	Shutdown() error
}

// CheckoutApp is the storefront client: cart, offline queue and reconciliation.
type CheckoutApp struct {
	transport       *checkouttransport.HTTPTransport
	reconcileWorker *reconcile.Worker
	monitor         *connectivity.Monitor
	trigger         *wake.Trigger
	consumers       map[string]wakeConsumer
	sqliteClient    *sqlite.Client
	rabbitMqClient  *rabbitmq.Client
	redisClient     *redis.Client
	otelController  *otel.OtelController
}

// MustNewCheckoutApp creates the client application.
func MustNewCheckoutApp() *CheckoutApp {
	a := &CheckoutApp{
		otelController: otel.MustInitOtel("checkout-agent"),
		monitor:        connectivity.MustNewMonitor(),
		trigger:        wake.NewTrigger(),
		consumers:      make(map[string]wakeConsumer),
	}

	pendingRepo := a.mustNewPendingRepository()
	sink := httpsink.MustNewClient()
	shoppingCart := cart.New()

	checkoutSvc := checkoutsvc.MustNewCheckoutService(
		checkoutsvc.WithCart(shoppingCart),
		checkoutsvc.WithPendingRepository(pendingRepo),
		checkoutsvc.WithOrderSink(sink),
		checkoutsvc.WithConnectivity(a.monitor),
		checkoutsvc.WithWakeTrigger(a.trigger),
	)

	a.reconcileWorker = reconcile.NewWorker(pendingRepo, sink, a.monitor)
	a.reconcileWorker.GatePolling(a.trigger)

	a.trigger.Register(func() { a.reconcileWorker.Wake("wake") })
	a.monitor.Subscribe(func() { a.trigger.Fire("connectivity") })

	if viper.GetBool("wake.rabbitmq.enabled") {
		a.rabbitMqClient = rabbitmq.MustNewClient()
		a.consumers["rabbitmq"] = rabbitconsumer.NewConsumer(a.rabbitMqClient, a.trigger)
	}
	if viper.GetBool("wake.redis.enabled") {
		a.redisClient = redis.MustNewClient()
		a.consumers["redis"] = redisconsumer.NewConsumer(a.redisClient, a.trigger)
	}
	if viper.GetBool("wake.kafka.enabled") {
		a.consumers["kafka"] = kafkaconsumer.NewConsumer(dalkafka.NewReader(), a.trigger)
	}

	a.transport = checkouttransport.NewHTTPTransport(checkoutSvc, shoppingCart, a.reconcileWorker, a.monitor)
	a.transport.RegisterRoutes()

	return a
}

func (a *CheckoutApp) mustNewPendingRepository() ipendingrepo.IPendingRepository {
	switch driver := viper.GetString("queue.driver"); driver {
	case "", "sqlite":
		a.sqliteClient = sqlite.MustNewClient()

		return sqliterepo.NewPendingRepository(a.sqliteClient)
	case "memory":
		slog.Warn("Pending orders are kept in memory and will not survive a restart")

		return memoryrepo.NewPendingRepository()
	default:
		panic("unknown queue.driver: " + driver)
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *CheckoutApp) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting reconcile worker")
		a.reconcileWorker.Start(ctx)
	}()

	go func() {
		slog.Info("Starting connectivity monitor")
		a.monitor.Start(ctx)
	}()

	var consumers errgroup.Group
	for name, c := range a.consumers {
		consumers.Go(func() error {
			slog.Info("Starting wake consumer", "source", name)
			if err := c.Run(ctx); err != nil {
				slog.Error("Wake consumer error", "source", name, "error", err)
			}

			return nil
		})
	}

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	a.trigger.Fire("startup")

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown(&consumers)
}

func (a *CheckoutApp) gracefulShutdown(consumers *errgroup.Group) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	for name, c := range a.consumers {
		if err := c.Shutdown(); err != nil {
			slog.Error("Wake consumer shutdown error", "source", name, "error", err)
		}
	}
	_ = consumers.Wait()
	slog.Info("Wake consumers stopped gracefully")

	a.monitor.Stop()
	slog.Info("Connectivity monitor stopped gracefully")

	a.reconcileWorker.Stop()
	slog.Info("Reconcile worker stopped gracefully")

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			slog.Error("Redis connection close error", "error", err)
		} else {
			slog.Info("Redis connection closed gracefully")
		}
	}

	if a.rabbitMqClient != nil {
		if err := a.rabbitMqClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if a.sqliteClient != nil {
		if err := a.sqliteClient.Close(); err != nil {
			slog.Error("Queue database close error", "error", err)
		} else {
			slog.Info("Queue database closed gracefully")
		}
	}

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
