package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/status/internal/dal/postgres"
	"github.com/corray333/backend-labs/status/internal/dal/rabbitmq"
	eventsrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/events"
	historyrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/history/postgres"
	mailerrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/mailer"
	orderrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/outbox/postgres"
	statusrepo "github.com/corray333/backend-labs/status/internal/dal/repositories/status/postgres"
	"github.com/corray333/backend-labs/status/internal/notify"
	"github.com/corray333/backend-labs/status/internal/otel"
	"github.com/corray333/backend-labs/status/internal/service/services/legacysvc"
	"github.com/corray333/backend-labs/status/internal/service/services/statussvc"
	httptransport "github.com/corray333/backend-labs/status/internal/transport/http"
	outboxworker "github.com/corray333/backend-labs/status/internal/worker/outbox"
)

// App represents the application.
type App struct {
	statusSvc      *statussvc.StatusService
	legacySvc      *legacysvc.LegacyService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()

	orderRepository := orderrepo.NewOrderRepository(postgresClient)
	statusRepository := statusrepo.NewStatusRepository(postgresClient)
	historyRepository := historyrepo.NewHistoryRepository(postgresClient)
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)

	registry := notify.NewRegistry()
	eventsrepo.NewEventsRabbitMQRepository(rabbitMqClient, outboxRepository).Register(registry)

	mailer := mailerrepo.NewMailerRabbitMQRepository(rabbitMqClient, outboxRepository)

	statusSvc := statussvc.MustNewStatusService(
		statussvc.WithOrderRepository(orderRepository),
		statussvc.WithStatusRepository(statusRepository),
		statussvc.WithHistoryRepository(historyRepository),
		statussvc.WithBus(registry),
		statussvc.WithMailSender(mailer),
	)

	legacySvc := legacysvc.MustNewLegacyService(
		legacysvc.WithOrderRepository(orderRepository),
		legacysvc.WithStatusRepository(statusRepository),
		legacysvc.WithUpdater(statusSvc),
		legacysvc.WithBus(registry),
	)

	transport := httptransport.NewHTTPTransport(statusSvc, legacySvc)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		statusSvc:      statusSvc,
		legacySvc:      legacySvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops components sequentially: outbox worker, HTTP server,
// RabbitMQ, PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	slog.Info("Application shutdown complete")
}
