// Package config provides loading and environment overlay for server
// configuration. It exposes a Default() baseline, JSON/YAML file loading,
// a KW_* environment overlay, and the node-ID bootstrap used to construct
// the process's ID generator.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/kuenyawz.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	nodeID, err := config.ResolveNodeID(cfg)
package config
