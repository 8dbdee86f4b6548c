// Package runtime wires storage, the snowflake generator, and the identity
// assigner into a single replica instance. It exposes Open/Close and basic
// health checks; services receive the Runtime and build their facades on it.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeAlways,
//	    NodeID:  nodeID,
//	    Config:  cfg,
//	})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
package runtime
