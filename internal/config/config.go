package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr"`
	DataDir  string `json:"dataDir" yaml:"dataDir"`

	// Fsync is always|interval|never; FsyncIntervalMs applies to interval.
	Fsync           string `json:"fsync" yaml:"fsync"`
	FsyncIntervalMs int    `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs"`

	// NodeID identifies this replica's ID generator in [0,1023]. The value
	// -1 means "not set"; resolution order is config > KW_NODE_ID env >
	// hostname ordinal (when NodeIDFromHostname). Uniqueness across
	// replicas is the deployment's responsibility.
	NodeID int64 `json:"nodeId" yaml:"nodeId"`
	// NodeIDFromHostname derives the node ID from the host's trailing
	// ordinal (e.g. "api-7" -> 7), the StatefulSet convention.
	NodeIDFromHostname bool `json:"nodeIdFromHostname" yaml:"nodeIdFromHostname"`

	// NTP optionally gates startup on a clock sanity check.
	NTP NTPCheck `json:"ntp" yaml:"ntp"`

	LogLevel  string `json:"logLevel" yaml:"logLevel"`
	LogFormat string `json:"logFormat" yaml:"logFormat"`

	// UploadDir stores product image files; empty means <DataDir>/uploads.
	UploadDir string `json:"uploadDir" yaml:"uploadDir"`
	// MaxImagesPerProduct caps stored images per product.
	MaxImagesPerProduct int `json:"maxImagesPerProduct" yaml:"maxImagesPerProduct"`
	// MaxVariantQuantity is the default per-order ceiling applied to CSV
	// imported variants that do not set their own.
	MaxVariantQuantity int `json:"maxVariantQuantity" yaml:"maxVariantQuantity"`
	// CSVSeparator splits bulk-import rows (default ";").
	CSVSeparator string `json:"csvSeparator" yaml:"csvSeparator"`
}

// NTPCheck configures the optional startup clock check.
type NTPCheck struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Server  string `json:"server" yaml:"server"`
	// MaxOffsetMs refuses startup when |measured offset| exceeds it.
	MaxOffsetMs int `json:"maxOffsetMs" yaml:"maxOffsetMs"`
}

// MaxOffset returns the configured bound as a duration.
func (n NTPCheck) MaxOffset() time.Duration {
	return time.Duration(n.MaxOffsetMs) * time.Millisecond
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:            ":8080",
		Fsync:               "always",
		FsyncIntervalMs:     5,
		NodeID:              -1,
		NTP:                 NTPCheck{Server: "pool.ntp.org", MaxOffsetMs: 500},
		LogLevel:            "info",
		LogFormat:           "text",
		MaxImagesPerProduct: 3,
		MaxVariantQuantity:  250,
		CSVSeparator:        ";",
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
