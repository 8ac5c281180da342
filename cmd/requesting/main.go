package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
	"github.com/ilya-burinskiy/clipgate/internal/app/configs"
	"github.com/ilya-burinskiy/clipgate/internal/app/handlers"
	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/middlewares"
	"github.com/ilya-burinskiy/clipgate/internal/app/server"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

const (
	clientName  = "clipgate-requesting"
	connTimeout = 5 * time.Second
)

func main() {
	config, err := configs.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(config.LogLevel); err != nil {
		panic(err)
	}
	showBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	publisher, cleanup, err := configurePublisher(ctx, config)
	if err != nil {
		logger.Log.Fatal("failed to configure bus", zap.Error(err))
	}
	defer cleanup()

	handler := handlers.NewRequestingHandlers(
		services.NewDispatcher(publisher, config.TopicName(), config.RequestTimeout.Duration),
	)
	router := chi.NewRouter()
	router.Use(middlewares.Common()...)
	handler.Register(router)

	if err := server.Run(ctx, config, router); err != nil {
		logger.Log.Error("server error", zap.Error(err))
	}
}

// configurePublisher connects to the bus picked by config; cleanup disconnects
func configurePublisher(ctx context.Context, config configs.Config) (bus.Publisher, func(), error) {
	if err := config.ValidateBus(); err != nil {
		return nil, nil, err
	}
	topic := config.TopicName()
	logger.Log.Info("using bus", zap.String("kind", config.BusKind()), zap.String("topic", topic.String()))

	switch config.BusKind() {
	case configs.BusNATS:
		cfg := bus.NATSConfig{
			URL:         config.NATSURL,
			Name:        clientName,
			ConnTimeout: connTimeout,
			Stream:      config.NATSStream,
		}
		if cfg.Stream != "" {
			cfg.Subjects = []string{topic.Subject()}
		}
		return bus.NewWithNATS(ctx, cfg)
	case configs.BusRabbitMQ:
		return bus.NewWithAMQP(bus.AMQPConfig{URL: config.AMQPURL, ConnTimeout: connTimeout})
	case configs.BusKafka:
		return bus.NewWithKgo(bus.KafkaConfig{Brokers: config.Brokers(), ClientID: clientName})
	case configs.BusPubSub:
		return bus.NewWithPubSub(ctx, config.ProjectID)
	default:
		return bus.NewMemoryPublisher(0), func() {}, nil
	}
}

func showBuildInfo() {
	logger.Log.Info("build info", zap.String("build version", buildVersion))
	logger.Log.Info("build info", zap.String("build date", buildDate))
	logger.Log.Info("build info", zap.String("build commit", buildCommit))
}
