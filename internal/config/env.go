package config

import (
	"os"
	"strconv"
)

// FromEnv overlays KW_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("KW_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("KW_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("KW_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("KW_FSYNC_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FsyncIntervalMs = n
		}
	}
	if v := os.Getenv("KW_NODE_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.NodeID = n
		}
	}
	if v := os.Getenv("KW_NODE_ID_FROM_HOSTNAME"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NodeIDFromHostname = b
		}
	}
	if v := os.Getenv("KW_NTP_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NTP.Enabled = b
		}
	}
	if v := os.Getenv("KW_NTP_SERVER"); v != "" {
		cfg.NTP.Server = v
	}
	if v := os.Getenv("KW_NTP_MAX_OFFSET_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.NTP.MaxOffsetMs = n
		}
	}
	if v := os.Getenv("KW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KW_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("KW_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("KW_MAX_IMAGES_PER_PRODUCT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxImagesPerProduct = n
		}
	}
	if v := os.Getenv("KW_MAX_VARIANT_QUANTITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxVariantQuantity = n
		}
	}
	if v := os.Getenv("KW_CSV_SEPARATOR"); v != "" {
		cfg.CSVSeparator = v
	}
}
