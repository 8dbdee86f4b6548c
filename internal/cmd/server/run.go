package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ZeroFairy/kuenyawz-api/internal/clock"
	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/metrics"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	httpserver "github.com/ZeroFairy/kuenyawz-api/internal/server/http"
	"github.com/ZeroFairy/kuenyawz-api/internal/server/http/controllers"
	accountsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/accounts"
	cartsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/carts"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	imagesvc "github.com/ZeroFairy/kuenyawz-api/internal/services/images"
	transactionsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/transactions"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// Options configure a server run.
type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so callers that
	// don't pass a signal-aware context still shut down cleanly.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.Config
	if opts.DataDir == "" {
		opts.DataDir = cfg.DataDir
	}
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = cfg.HTTPAddr
	}

	logCfg := &logpkg.Config{
		Level:  getenvDefault("KW_LOG_LEVEL", cfg.LogLevel),
		Format: getenvDefault("KW_LOG_FORMAT", cfg.LogFormat),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(logCfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g. Pebble) to our logger.
	logpkg.RedirectStdLog(procLogger)

	nodeID, err := cfgpkg.ResolveNodeID(cfg)
	if err != nil {
		return err
	}

	// Every key embeds a timestamp, so refuse to start on a badly skewed
	// clock when the check is enabled.
	if cfg.NTP.Enabled {
		if err := clock.VerifyStartup(cfg.NTP.Server, cfg.NTP.MaxOffset(), procLogger); err != nil {
			return err
		}
	}

	reg := metrics.NewRegistry()
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		NodeID:        nodeID,
		Config:        cfg,
		Metrics:       reg,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting KuenyaWZ server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Int64("node_id", nodeID),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	catalog := catalogsvc.NewWithLogger(rt, procLogger.With(logpkg.Component("catalog")))
	svcs := controllers.Services{
		Accounts:     accountsvc.NewWithLogger(rt, procLogger.With(logpkg.Component("accounts"))),
		Catalog:      catalog,
		Carts:        cartsvc.NewWithLogger(rt, catalog, procLogger.With(logpkg.Component("carts"))),
		Transactions: transactionsvc.NewWithLogger(rt, procLogger.With(logpkg.Component("transactions"))),
		Images:       imagesvc.NewWithLogger(rt, catalog, procLogger.With(logpkg.Component("images"))),
	}
	hsrv := httpserver.NewWithServices(rt, svcs)

	errCh := make(chan error, 1)
	go func() { errCh <- hsrv.ListenAndServe(sctx, opts.HTTPAddr) }()

	select {
	case <-sctx.Done():
	case err := <-errCh:
		if err != nil && sctx.Err() == nil {
			hsrv.Close()
			return err
		}
	}
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	return nil
}
