// Command encounterd runs the boss encounter resolution engine: it loads and
// validates encounter content, connects the session archive, and serves
// combat sessions until shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reddust-rpg/reddust/internal/config"
	"github.com/reddust-rpg/reddust/internal/data"
	"github.com/reddust-rpg/reddust/internal/db"
	"github.com/reddust-rpg/reddust/internal/game/encounter"
)

const defaultConfigPath = "config/encounterd.yaml"

func main() {
	validateOnly := flag.Bool("validate", false, "validate encounter content and exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, *validateOnly); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, validateOnly bool) error {
	cfgPath := defaultConfigPath
	if p := os.Getenv("REDDUST_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEncounterd(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("encounterd starting", "log_level", cfg.LogLevel)

	registry, err := loadRegistry(cfg)
	if err != nil {
		return fmt.Errorf("loading encounter content: %w", err)
	}
	if validateOnly {
		slog.Info("content valid", "encounters", registry.Len())
		return nil
	}

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	repo := db.NewSessionRepository(database)
	manager := encounter.NewManager(ctx, repo, encounter.ManagerConfig{
		TurnTimer:    time.Duration(cfg.Engine.TurnTimerSeconds) * time.Second,
		IntentBuffer: cfg.Engine.IntentBuffer,
	})

	slog.Info("encounter engine ready", "encounters", registry.Len())

	<-ctx.Done()
	slog.Info("draining sessions", "active", manager.Active())
	if err := manager.Shutdown(); err != nil {
		return fmt.Errorf("draining sessions: %w", err)
	}
	slog.Info("encounterd stopped")
	return nil
}

func loadRegistry(cfg config.Encounterd) (*data.Registry, error) {
	if cfg.ContentDir == "" {
		return data.Default()
	}
	return data.LoadRegistry(os.DirFS(cfg.ContentDir), ".")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
