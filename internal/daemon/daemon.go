package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"lacquer/internal/api"
	"lacquer/internal/capture"
	"lacquer/internal/catalog"
	"lacquer/internal/config"
	"lacquer/internal/db"
	"lacquer/internal/inventory"
	"lacquer/internal/logging"
)

// Daemon owns the database, the resolution engine, and the HTTP API. A file
// lock guarantees a single daemon per data directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	database *db.DB
	engine   *capture.Engine
	captures *capture.Store

	lockPath string
	lock     *flock.Flock

	api *apiServer

	mu      sync.Mutex
	running bool
}

// New wires a daemon from configuration. The database is opened immediately
// so schema problems surface before the lock is taken.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("daemon: config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("daemon: prepare directories: %w", err)
	}

	database, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("daemon: open database: %w", err)
	}

	catalogStore := catalog.NewStore(database)
	if seed := cfg.Paths.CatalogSeed; seed != "" {
		counts, err := catalogStore.ImportSeed(context.Background(), seed)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("daemon: import catalog seed: %w", err)
		}
		logger.Info("catalog seed imported",
			logging.String("path", seed),
			logging.Int("brands", counts.Brands),
			logging.Int("shades", counts.Shades),
			logging.Int("skus", counts.SKUs))
	}
	captureStore := capture.NewStore(database)
	engine := capture.NewEngine(captureStore, catalogStore, capture.Thresholds{
		Match:         cfg.Resolver.MatchThreshold,
		Suggest:       cfg.Resolver.SuggestThreshold,
		MaxCandidates: cfg.Resolver.MaxCandidates,
	}, cfg.Resolver.DefaultUser, logger)

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		database: database,
		engine:   engine,
		captures: captureStore,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	d.api, err = newAPIServer(cfg, d,
		api.NewCaptureService(engine),
		api.NewInventoryService(inventory.NewStore(database), cfg.Resolver.DefaultUser),
		api.NewCatalogService(catalogStore, cfg.Resolver.MaxCandidates),
		logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return d, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("daemon: acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("daemon: another instance holds %s", d.lockPath)
	}

	if err := d.api.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	d.running = true
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.database.Path()))
	return nil
}

// Stop shuts down the API server and releases the lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running = false
	d.logger.Info("daemon stopped")
}

// Close releases resources after the daemon has stopped.
func (d *Daemon) Close() error {
	return d.database.Close()
}

// Status reports the daemon's runtime state for the status endpoint.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()

	status := api.DaemonStatus{
		Running:      running,
		PID:          os.Getpid(),
		DatabasePath: d.database.Path(),
		LockFilePath: d.lockPath,
	}
	stats, err := d.captures.SessionStats(ctx)
	if err != nil {
		d.logger.Warn("session stats unavailable", logging.Error(err))
		return status
	}
	status.SessionStats = make(map[string]int, len(stats))
	for state, count := range stats {
		status.SessionStats[string(state)] = count
	}
	return status
}

// Addr returns the API listen address once the daemon is started.
func (d *Daemon) Addr() string {
	return d.api.addr()
}
