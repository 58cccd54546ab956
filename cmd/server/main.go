/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the roster service. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env, read environment, layer command-line flags on top
  2. Open SQLite store
  3. Wire tracker and planner onto the store
  4. Seed a demo scenario when SEED names one and the database is empty
  5. Catch-up generation for the current and next week
  6. Start the background scheduler
  7. Serve HTTP with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (default: :8080)
  -db      SQLite database path (default: skello.db)
           Use ":memory:" for an in-memory database
  -seed    Demo scenario to load into an empty database
  -autogen Enable the background week generator

ENVIRONMENT:
  ADDR, DB_PATH, LOG_LEVEL, AUTO_GENERATE, GENERATE_INTERVAL, SEED,
  ALLOWED_ORIGINS. Flags win over environment; environment wins over
  .env.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the background scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/skello.db"

  # Run the boutique demo in memory
  ./server -db=":memory:" -seed=boutique

  # Run on a different address without the background generator
  ./server -addr=":3000" -autogen=false

SEE ALSO:
  - api/server.go: Router configuration
  - api/planner.go: Generation orchestration
  - config/config.go: Environment parsing
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/geraldbelrose-cyber/skello-perso/api"
	"github.com/geraldbelrose-cyber/skello-perso/config"
	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/store/sqlite"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

func main() {
	// .env is optional; a variable already in the environment wins.
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// Flags layer on top of the environment.
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path")
	flag.StringVar(&cfg.Seed, "seed", cfg.Seed, "demo scenario to load into an empty database")
	flag.BoolVar(&cfg.AutoGenerate, "autogen", cfg.AutoGenerate, "enable the background week generator")
	flag.Parse()

	logger := config.NewLogger(cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	// Wire the domain onto the store. The one sqlite store serves every
	// persistence interface.
	tracker := timesheet.NewTracker(store, store, store)
	planner := api.NewPlanner(store, store, store, store, tracker, logger)
	handler := api.NewHandler(planner, logger)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	ctx := context.Background()

	if cfg.Seed != "" {
		seedIfEmpty(ctx, store, handler, cfg.Seed, logger)
	}

	// Catch up on weeks that should exist before the first tick.
	if err := planner.EnsureUpcoming(ctx, roster.TriggerStartup); err != nil {
		logger.WithError(err).Warn("Startup week generation failed")
	}

	scheduler := api.NewAutoScheduler(planner, logger)
	scheduler.Enabled = cfg.AutoGenerate
	scheduler.CheckInterval = cfg.GenerateInterval
	scheduler.Start()

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// seedIfEmpty loads the named scenario unless the database already holds
// employees. Restarts must never wipe real data.
func seedIfEmpty(ctx context.Context, store *sqlite.Store, handler *api.Handler, name string, logger *logrus.Logger) {
	staff, err := store.ListStaff(ctx, true)
	switch {
	case err != nil:
		logger.WithError(err).Warn("Seed check failed")
	case len(staff) > 0:
		logger.Infof("Database not empty, skipping seed %q", name)
	default:
		if err := handler.SeedScenario(ctx, name); err != nil {
			logger.WithError(err).Fatalf("Failed to seed scenario %q", name)
		}
		logger.Infof("Seeded scenario %q", name)
	}
}
