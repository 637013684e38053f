package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/gamehub/internal/admin"
	"github.com/mcoot/gamehub/internal/config"
	"github.com/mcoot/gamehub/internal/factory"
	"github.com/mcoot/gamehub/internal/server"
	"github.com/mcoot/gamehub/internal/services/lobby"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
)

func main() {
	configPath := flag.String("config", os.Getenv("GAMEHUB_CONFIG"), "path to YAML config file")
	flag.Parse()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config
	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		PackageDir:  cfg.PackageDir,
		Launcher:    &lobby.ExecLauncher{PythonBin: cfg.Match.PythonBin},
		LobbyConfig: lobby.Config{
			PortStart:    cfg.Match.PortStart,
			PortEnd:      cfg.Match.PortEnd,
			ReadyTimeout: cfg.Match.ReadyTimeout,
		},
	}
	if cfg.Storage.Type == factory.StorageTypeRedis {
		if cfg.Storage.RedisURL == "" {
			logger.Error("storage.redis_url required when storage.type=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Prime in-memory state from the store
	if err := app.Hub.Load(context.Background()); err != nil {
		logger.Error("failed to load lobby state", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lobbyServer := server.New(app.Hub, app.Catalog, logger)
	if err := lobbyServer.Listen(cfg.Server.Addr); err != nil {
		logger.Error("failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}

	adminServer := admin.New(cfg.Admin.Addr, app.Hub, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- lobbyServer.Serve()
	}()
	go func() {
		errCh <- adminServer.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := lobbyServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("lobby shutdown error", slog.String("error", err.Error()))
	}
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
