package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"projectpulse/internal/cache"
	"projectpulse/internal/config"
	"projectpulse/internal/handler"
	enginepkg "projectpulse/internal/health"
	"projectpulse/internal/httpserver"
	"projectpulse/internal/mqhandler"
	"projectpulse/internal/repository"
	healthsvc "projectpulse/internal/service/health"
	"projectpulse/pkg/db"
	"projectpulse/pkg/logger"
	"projectpulse/pkg/mq"
	redisclient "projectpulse/pkg/redis"
	"projectpulse/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	log.Info("Starting projectpulse...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("redis_addr", cfg.Redis.Addr),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	projectRepo := repository.NewProjectRepository(dbConn, log)
	issueRepo := repository.NewIssueRepository(dbConn, log)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, log)

	snapshotCache := cache.NewSnapshotCache(rdb, 10*time.Minute, log)

	// MQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	engine := enginepkg.NewEngine(cfg.Risk.Tiers)
	svc := healthsvc.NewService(projectRepo, issueRepo, milestoneRepo, snapshotCache, producer, engine, log)

	// MQ consumer for project.updated (snapshot cache invalidation)
	consumer, err := mq.NewConsumer(cfg.MQ.URL, mq.RoutingKeyProjectUpdated, log)
	if err != nil {
		log.Fatal("Failed to init consumer", zap.Error(err))
	}
	defer consumer.Stop()

	deduper := util.NewDeduper(rdb, time.Minute, log)
	updatedHandler := mqhandler.NewProjectUpdatedHandler(snapshotCache, deduper, log)
	consumer.SetHandler(updatedHandler.Handle)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Consumer failed", zap.Error(err))
		}
	}()
	log.Info("project.updated consumer started successfully")

	// HTTP server
	healthHandler := handler.NewHealthHandler(svc, log)
	projectHandler := handler.NewProjectHandler(projectRepo, issueRepo, milestoneRepo, producer, log)
	router := httpserver.NewRouter(healthHandler, projectHandler, log, dbConn, consumer, cfg.JWT.Secret)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("projectpulse is fully initialized and running",
		zap.String("http_port", port),
		zap.String("mq_queue", mq.RoutingKeyProjectUpdated+".q"),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down projectpulse gracefully...")

	consumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("projectpulse shutdown complete")
}
