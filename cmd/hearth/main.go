// Hearth Core is the state and command engine behind the Hearth smart
// home panel. It owns the persisted collections (devices, schedules,
// activity log, profile, theme), applies mutations as single persistent
// units, and exposes an interactive console for driving them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hearthhome/hearth-core/internal/audit"
	"github.com/hearthhome/hearth-core/internal/device"
	"github.com/hearthhome/hearth-core/internal/energy"
	"github.com/hearthhome/hearth-core/internal/events"
	"github.com/hearthhome/hearth-core/internal/infrastructure/config"
	"github.com/hearthhome/hearth-core/internal/infrastructure/database"
	"github.com/hearthhome/hearth-core/internal/infrastructure/logging"
	"github.com/hearthhome/hearth-core/internal/notify"
	"github.com/hearthhome/hearth-core/internal/profile"
	"github.com/hearthhome/hearth-core/internal/schedule"
	"github.com/hearthhome/hearth-core/internal/store"
	"github.com/hearthhome/hearth-core/internal/voice"
	_ "github.com/hearthhome/hearth-core/migrations" // Register embedded migrations
)

// Build information, injected at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "hearth: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	boot := logging.Default()
	boot.Info("starting hearth core", "version", version, "commit", commit, "built", date)

	// A .env file is optional; real environment variables win either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		boot.Warn("skipping .env file", "error", err)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Best effort on shutdown

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logger.Info("database ready", "path", db.Path())

	kv := store.New(db.DB)
	kv.SetLogger(logger.With("component", "store"))

	bus := events.NewBus()

	trail := audit.NewTrail(kv, bus)
	if err := trail.Init(ctx); err != nil {
		return fmt.Errorf("loading activity log: %w", err)
	}

	queue := notify.NewQueue(cfg.Notifications.Capacity, trail, bus)

	devices := device.NewRegistry(kv, trail, queue, bus)
	if err := devices.Init(ctx); err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	schedules := schedule.NewRegistry(kv, devices, trail, queue, bus)
	if err := schedules.Init(ctx); err != nil {
		return fmt.Errorf("loading schedules: %w", err)
	}

	owner := profile.NewManager(kv, queue, bus)
	if err := owner.Init(ctx); err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	usage := energy.New(db.DB)
	if cfg.Energy.SeedSamples {
		if err := usage.Seed(ctx); err != nil {
			return fmt.Errorf("seeding energy readings: %w", err)
		}
	}

	assistant := voice.NewController(devices, queue)

	if err := queue.Push(ctx, "Welcome back — panel ready"); err != nil {
		return fmt.Errorf("queueing welcome: %w", err)
	}

	logger.Info("hearth core ready",
		"devices", devices.Count(),
		"schedules", schedules.Len(),
		"log_entries", trail.Len(),
		"theme", owner.Theme(),
	)

	c := &console{
		in:        os.Stdin,
		out:       os.Stdout,
		logger:    logger,
		devices:   devices,
		schedules: schedules,
		trail:     trail,
		queue:     queue,
		owner:     owner,
		usage:     usage,
		assistant: assistant,
	}
	return c.run(ctx)
}

// configPath resolves the configuration file location, preferring the
// HEARTH_CONFIG environment variable.
func configPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return "configs/config.yaml"
}
