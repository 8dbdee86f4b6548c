package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("default http addr")
	}
	if cfg.Fsync != "always" {
		t.Fatalf("default fsync")
	}
	if cfg.NodeID != -1 {
		t.Fatalf("node id must default to unset")
	}
	if cfg.MaxImagesPerProduct != 3 {
		t.Fatalf("default image cap")
	}
	if cfg.CSVSeparator != ";" {
		t.Fatalf("default csv separator")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kuenyawz.json")
	data := []byte(`{"httpAddr":":9090","nodeId":12,"fsync":"interval","fsyncIntervalMs":10}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090")
	}
	if cfg.NodeID != 12 {
		t.Fatalf("expected node 12")
	}
	if cfg.Fsync != "interval" || cfg.FsyncIntervalMs != 10 {
		t.Fatalf("fsync fields")
	}
	// Untouched fields keep defaults.
	if cfg.MaxVariantQuantity != 250 {
		t.Fatalf("defaults must survive partial files")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "kuenyawz.yaml")
	data := []byte("httpAddr: \":7070\"\nnodeId: 3\nntp:\n  enabled: true\n  server: time.google.com\n  maxOffsetMs: 250\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" || cfg.NodeID != 3 {
		t.Fatalf("yaml scalars: %+v", cfg)
	}
	if !cfg.NTP.Enabled || cfg.NTP.Server != "time.google.com" || cfg.NTP.MaxOffsetMs != 250 {
		t.Fatalf("yaml ntp: %+v", cfg.NTP)
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	os.Setenv("KW_HTTP_ADDR", ":6060")
	os.Setenv("KW_NODE_ID", "42")
	os.Setenv("KW_CSV_SEPARATOR", ",")
	t.Cleanup(func() {
		os.Unsetenv("KW_HTTP_ADDR")
		os.Unsetenv("KW_NODE_ID")
		os.Unsetenv("KW_CSV_SEPARATOR")
	})
	FromEnv(&cfg)
	if cfg.HTTPAddr != ":6060" {
		t.Fatalf("env addr override")
	}
	if cfg.NodeID != 42 {
		t.Fatalf("env node override")
	}
	if cfg.CSVSeparator != "," {
		t.Fatalf("env separator override")
	}
}

func TestResolveNodeIDExplicit(t *testing.T) {
	cfg := Default()
	cfg.NodeID = 9
	id, err := ResolveNodeID(cfg)
	if err != nil || id != 9 {
		t.Fatalf("explicit: %d, %v", id, err)
	}
}

func TestResolveNodeIDFromHostname(t *testing.T) {
	orig := hostname
	t.Cleanup(func() { hostname = orig })

	hostname = func() (string, error) { return "kuenyawz-api-17", nil }
	cfg := Default()
	cfg.NodeIDFromHostname = true
	id, err := ResolveNodeID(cfg)
	if err != nil || id != 17 {
		t.Fatalf("hostname ordinal: %d, %v", id, err)
	}

	hostname = func() (string, error) { return "no-ordinal", nil }
	if _, err := ResolveNodeID(cfg); err == nil {
		t.Fatalf("expected error for hostname without ordinal")
	}
}

func TestResolveNodeIDUnset(t *testing.T) {
	cfg := Default()
	_, err := ResolveNodeID(cfg)
	if err == nil {
		t.Fatalf("expected error when node id unset")
	}
	if !strings.Contains(err.Error(), "KW_NODE_ID") {
		t.Fatalf("error should point at configuration, got %q", err)
	}
}
