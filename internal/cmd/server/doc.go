// Package serverrun exposes a shared Run entrypoint used by the CLI to start
// the KuenyaWZ backend, handling node ID resolution, the optional startup
// clock check, lifecycle and shutdown.
//
// Example:
//
//	opts := serverrun.Options{DataDir: "./data", HTTPAddr: ":8080", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()}
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = serverrun.Run(ctx, opts)
package serverrun
