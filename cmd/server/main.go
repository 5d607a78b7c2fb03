package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ptcgsim/ptcg-server-go/internal/config"
	"github.com/ptcgsim/ptcg-server-go/internal/deck"
	"github.com/ptcgsim/ptcg-server-go/internal/game"
	"github.com/ptcgsim/ptcg-server-go/internal/repository"
	"github.com/ptcgsim/ptcg-server-go/internal/server"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting match server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	templates, err := game.LoadTemplatesFile(cfg.Data.Cards)
	if err != nil {
		logger.Fatal("failed to load card list", zap.Error(err))
	}
	logger.Info("card list loaded",
		zap.String("path", cfg.Data.Cards),
		zap.Int("cards", len(templates)),
	)

	deckFile, err := deck.Parse(cfg.Data.Decks)
	if err != nil {
		logger.Fatal("failed to load deck lists", zap.Error(err))
	}
	decks, err := deckFile.Resolve(deck.NewIndex(templates))
	if err != nil {
		logger.Fatal("failed to resolve deck lists", zap.Error(err))
	}
	logger.Info("deck lists loaded",
		zap.String("path", cfg.Data.Decks),
		zap.Int("decks", len(decks)),
	)

	var matchRepo *repository.MatchRepository
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)
		matchRepo = repository.NewMatchRepository(db)
	} else {
		logger.Info("no database configured; match results will not be persisted")
	}

	gateway := server.New(cfg, templates, decks, matchRepo, logger)
	if err := gateway.ListenAndServe(ctx); err != nil {
		logger.Fatal("gateway failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
