package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"referral_leaderboard/internal/api"
	"referral_leaderboard/internal/repository"
	"referral_leaderboard/internal/scheduler"
	"referral_leaderboard/internal/service"
	"referral_leaderboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type store interface {
	service.LeaderboardRepository
	Close() error
}

func main() {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newStore(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer repo.Close()

	mode, err := service.ParseIncrementMode(cfg.Leaderboard.IncrementMode)
	if err != nil {
		zapLogger.Fatal("Invalid increment mode", zap.Error(err))
	}

	leaderboardService := service.NewLeaderboardService(repo, service.Config{
		IncrementMode: mode,
		StoreTimeout:  cfg.Store.Timeout,
	})

	hub := api.NewHub()
	defer hub.Close()
	leaderboardService.Snapshots().OnReload(hub.Broadcast)

	if _, err := leaderboardService.Refresh(ctx); err != nil {
		zapLogger.Warn("Initial leaderboard load failed", zap.Error(err))
	}

	sched, err := scheduler.New(leaderboardService, cfg.Snapshot.RefreshInterval)
	if err != nil {
		zapLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer sched.Shutdown()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := api.NewRouter(leaderboardService, hub)
	if err != nil {
		zapLogger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Backend),
			zap.String("increment_mode", string(mode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *Config) (store, error) {
	switch cfg.Store.Backend {
	case backendPostgres:
		return repository.New(ctx, cfg.Database)
	case backendFirestore:
		return repository.NewFirestore(ctx, cfg.Firestore)
	case backendMemory:
		return repository.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
