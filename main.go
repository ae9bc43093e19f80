package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/cache"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/config"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/database"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/engine"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/fight"
	server "github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/http"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/metrics"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/notifier/slack"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/pubsub"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/scoring"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/snapshot"
	"github.com/nikolamitar1994/pugna-mma-backend-sub001/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	fightStore := fight.New(db)
	statsStore := stats.NewStore(db)
	snapshotStore := snapshot.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	metricsStore := metrics.New(db)
	rankCache := cache.New(cache.WithTTL(time.Duration(cfg.Engine.CacheTTLMinutes) * time.Minute))
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	ps := pubsub.New(cfg.ProjectID)

	aggregator := stats.NewAggregator(snapshotStore)
	scorer := scoring.NewScorer(snapshotStore)
	eng := engine.New(
		fightStore,
		statsStore,
		aggregator,
		scorer,
		snapshotStore,
		rankCache,
		ps,
		notifier,
		metricsSvc,
		metricsStore,
		engine.WithWorkerCount(cfg.Engine.Workers),
		engine.WithDebounceWindow(time.Duration(cfg.Engine.DebounceMS)*time.Millisecond),
	)

	s := server.NewServer(
		fightStore,
		statsStore,
		snapshotStore,
		rankCache,
		eng,
		ps,
		metricsSvc,
		metricsStore,
		metricsHandler,
		cfg,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
