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

	dalkafka "github.com/corray333/backend-labs/storefront/internal/dal/kafka"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/storefront/internal/dal/redis"
	orderrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/order/postgres"
	productrepo "github.com/corray333/backend-labs/storefront/internal/dal/repositories/product/postgres"
	kafkawake "github.com/corray333/backend-labs/storefront/internal/dal/repositories/wake/kafka"
	rabbitwake "github.com/corray333/backend-labs/storefront/internal/dal/repositories/wake/rabbitmq"
	rediswake "github.com/corray333/backend-labs/storefront/internal/dal/repositories/wake/redis"
	"github.com/corray333/backend-labs/storefront/internal/otel"
	"github.com/corray333/backend-labs/storefront/internal/service/services/authsvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/productsvc"
	"github.com/corray333/backend-labs/storefront/internal/service/services/wakesvc"
	storefronttransport "github.com/corray333/backend-labs/storefront/internal/transport/http/storefront"
	"github.com/spf13/viper"
)

// StorefrontApp is the backend: order sink, catalog and admin API.
type StorefrontApp struct {
	transport      *storefronttransport.HTTPTransport
	wakeSvc        *wakesvc.WakeService
	postgresClient *postgres.Client
	rabbitMqClient *rabbitmq.Client
	redisClient    *redis.Client
	kafkaWake      *kafkawake.WakeAnnouncer
	otelController *otel.OtelController
}

// MustNewStorefrontApp creates the backend application.
func MustNewStorefrontApp() *StorefrontApp {
	a := &StorefrontApp{
		otelController: otel.MustInitOtel("storefront-api"),
		postgresClient: postgres.MustNewClient(),
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderrepo.NewOrderRepository(a.postgresClient)),
	)
	productSvc := productsvc.MustNewProductService(
		productsvc.WithProductRepository(productrepo.NewProductRepository(a.postgresClient)),
	)
	authSvc := authsvc.MustNewAuthService()

	var announcers []wakesvc.Option
	if viper.GetBool("wake.rabbitmq.enabled") {
		a.rabbitMqClient = rabbitmq.MustNewClient()
		announcers = append(announcers, wakesvc.WithAnnouncer(rabbitwake.NewWakeAnnouncer(a.rabbitMqClient)))
	}
	if viper.GetBool("wake.redis.enabled") {
		a.redisClient = redis.MustNewClient()
		announcers = append(announcers, wakesvc.WithAnnouncer(rediswake.NewWakeAnnouncer(a.redisClient)))
	}
	if viper.GetBool("wake.kafka.enabled") {
		a.kafkaWake = kafkawake.NewWakeAnnouncer(dalkafka.NewWriter())
		announcers = append(announcers, wakesvc.WithAnnouncer(a.kafkaWake))
	}
	a.wakeSvc = wakesvc.MustNewWakeService(announcers...)

	a.transport = storefronttransport.NewHTTPTransport(orderSvc, productSvc, authSvc, a.wakeSvc, a.postgresClient)
	a.transport.RegisterRoutes()

	return a
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *StorefrontApp) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Agents that queued orders while we were down drain them now.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.wakeSvc.Broadcast(ctx, "startup"); err != nil {
			slog.Warn("Startup wake broadcast failed", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	a.gracefulShutdown()
}

func (a *StorefrontApp) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if a.kafkaWake != nil {
		if err := a.kafkaWake.Close(); err != nil {
			slog.Error("Kafka writer close error", "error", err)
		} else {
			slog.Info("Kafka writer closed gracefully")
		}
	}

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

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
