package runtime

import (
	"context"
	"errors"
	"path/filepath"

	cfgpkg "github.com/Uttam1728/event-analytics/internal/config"
	"github.com/Uttam1728/event-analytics/internal/queue"
	pebblestore "github.com/Uttam1728/event-analytics/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	Config  cfgpkg.Config
}

// Runtime wires storage and config for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	dataDir string
}

// Open initializes the underlying storage and returns a Runtime. DataDir
// resolution order: explicit option, config, platform default.
func Open(opts Options) (*Runtime, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = opts.Config.DataDir
	}
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}
	db, err := pebblestore.Open(pebblestore.Options{DataDir: filepath.Join(dataDir, "queue"), Fsync: opts.Fsync})
	if err != nil {
		return nil, err
	}
	return &Runtime{db: db, config: opts.Config, dataDir: dataDir}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// OpenQueue opens the named durable queue over the shared store.
func (r *Runtime) OpenQueue(name string, opts queue.Options) (*queue.PebbleQueue, error) {
	return queue.Open(r.db, name, opts)
}

// StorageRoot resolves the archive root: config override or
// {dataDir}/persistent_events.
func (r *Runtime) StorageRoot() string {
	if r.config.StorageRoot != "" {
		return r.config.StorageRoot
	}
	return filepath.Join(r.dataDir, "persistent_events")
}

// DataDir returns the resolved data directory.
func (r *Runtime) DataDir() string { return r.dataDir }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
