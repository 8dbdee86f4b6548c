package runtime

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/metrics"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	NodeID        int64
	Config        cfgpkg.Config
	// Metrics is optional; when set, generator and storage observations are
	// exported through it.
	Metrics *metrics.Registry
	// Clock overrides the generator's wall clock. Tests only.
	Clock snowflake.Clock
}

// Runtime wires storage, the ID generator, and the identity assigner for a
// single replica. Everything is constructed here and passed explicitly; no
// package-level singletons.
type Runtime struct {
	db        *pebblestore.DB
	gen       *snowflake.Generator
	assigner  *entity.Assigner
	config    cfgpkg.Config
	uploadDir string
	metrics   *metrics.Registry
}

// Open initializes storage and the generator and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	genOpts := []snowflake.Option{}
	if opts.Clock != nil {
		genOpts = append(genOpts, snowflake.WithClock(opts.Clock))
	}
	var storeHook pebblestore.MetricsHook
	if opts.Metrics != nil {
		genOpts = append(genOpts, snowflake.WithMetrics(opts.Metrics.GeneratorHook()))
		storeHook = opts.Metrics.StorageHook()
		opts.Metrics.SetNodeID(opts.NodeID)
	}

	gen, err := snowflake.New(opts.NodeID, genOpts...)
	if err != nil {
		return nil, err
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       storeHook,
	})
	if err != nil {
		return nil, err
	}

	uploadDir := opts.Config.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(opts.DataDir, "uploads")
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Runtime{
		db:        db,
		gen:       gen,
		assigner:  entity.NewAssigner(gen),
		config:    opts.Config,
		uploadDir: uploadDir,
		metrics:   opts.Metrics,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check against the store.
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

// DB exposes the underlying store (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Assigner returns the pre-insert identity hook shared by all services.
func (r *Runtime) Assigner() *entity.Assigner { return r.assigner }

// Generator returns the replica's ID generator.
func (r *Runtime) Generator() *snowflake.Generator { return r.gen }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// UploadDir returns the directory holding stored image files.
func (r *Runtime) UploadDir() string { return r.uploadDir }

// Metrics returns the metrics registry, or nil when none was configured.
func (r *Runtime) Metrics() *metrics.Registry { return r.metrics }
