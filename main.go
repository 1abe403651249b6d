// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"movie-explorer/cmd"
	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/repository"
	"movie-explorer/internal/gateway/tmdb"
	"movie-explorer/internal/queue"
	"movie-explorer/internal/usecase"
	"movie-explorer/internal/wire"
	"movie-explorer/pkg/cache"
	"movie-explorer/pkg/database"
	"movie-explorer/pkg/tracing"
	"movie-explorer/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, config.Tracing, config.App.Name, logger)
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	store, err := openStore(ctx, config, logger)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("Failed to close document store", zap.Error(err))
		}
	}()

	// Builds continue in the background; reads fall back until they finish.
	if err := store.EnsureIndexes(ctx, repository.Indexes()); err != nil {
		logger.Warn("Failed to start index builds", zap.Error(err))
	}

	rdb, err := cache.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	repos := repository.NewRepository(store, rdb, logger)
	metadata := tmdb.New(config.TMDB, logger)

	service := usecase.NewService(repos, metadata, config, logger)

	dispatcher, err := queue.NewDispatcher(config.Queue.URL, service.Backfill, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer dispatcher.Close()

	if config.Queue.URL != "" {
		consumer := queue.NewConsumer(config.Queue.URL, service.Backfill, logger)
		go consumer.Start(ctx)
	}

	app := wire.Wiring(service, repos, dispatcher, config, logger)

	cmd.APIServer(ctx, app.Router, config.App.Port, logger)
}

func openStore(ctx context.Context, config *utils.Config, logger *zap.Logger) (docstore.Store, error) {
	switch config.Store.Driver {
	case "mongo":
		db, err := database.InitMongo(config.Mongo)
		if err != nil {
			return nil, err
		}
		logger.Info("MongoDB connected", zap.String("database", config.Mongo.Database))
		return docstore.NewMongo(db, logger), nil

	case "postgres":
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Database connected successfully")
		return docstore.NewPostgres(ctx, db, logger)

	case "memory":
		logger.Warn("Using in-memory document store; data is lost on exit")
		return docstore.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}
}
