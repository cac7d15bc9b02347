package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"github.com/jassimshanavas/time-management-sub000/internal/api/routes"
	"github.com/jassimshanavas/time-management-sub000/internal/infrastructure/cache"
	"github.com/jassimshanavas/time-management-sub000/internal/infrastructure/persistence/postgres"
	"github.com/jassimshanavas/time-management-sub000/internal/infrastructure/persistence/postgres/connection"
	"github.com/jassimshanavas/time-management-sub000/internal/infrastructure/scheduler"
	syncstore "github.com/jassimshanavas/time-management-sub000/internal/sync"
	"github.com/jassimshanavas/time-management-sub000/pkg/broker"
	"github.com/jassimshanavas/time-management-sub000/pkg/config"
	"github.com/jassimshanavas/time-management-sub000/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)
	defer log.Sync()

	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	remote := postgres.NewRemote(db)
	if err := remote.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	var redisClient *cache.RedisClient
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(cache.NewConfigFromEnv(cfg), log)
		if err != nil {
			// The store works without the event channel, degrade rather
			// than refuse to start.
			log.Warn("redis unavailable, sync events disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	messageBroker := broker.NewInMemoryBroker(logrus.New(), 1000)
	defer messageBroker.Close()

	storeOpts := []syncstore.Option{
		syncstore.WithBroker(messageBroker),
		syncstore.WithConflictPolicy(syncstore.ConflictPolicy(cfg.Sync.ConflictPolicy)),
		syncstore.WithGamification(cfg.Gamification.Enabled),
	}
	if redisClient != nil {
		storeOpts = append(storeOpts, syncstore.WithEventPublisher(redisClient))
	}
	store := syncstore.NewStore(remote, log, storeOpts...)

	sched := scheduler.NewScheduler(store, log)
	sched.Start()
	defer sched.Stop()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	routes.SetupHealthRoutes(router, redisClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
