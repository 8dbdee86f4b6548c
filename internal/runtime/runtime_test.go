package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	"github.com/ZeroFairy/kuenyawz-api/pkg/snowflake"
)

func TestOpenCloseHealth(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, NodeID: 1, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rt.Generator().NodeID() != 1 {
		t.Fatalf("generator node id")
	}
	if rt.UploadDir() == "" {
		t.Fatalf("upload dir must be derived from data dir")
	}
}

func TestOpenRejectsBadNodeID(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, NodeID: 5000, Config: cfgpkg.Default()})
	if err != snowflake.ErrNodeIDRange {
		t.Fatalf("expected ErrNodeIDRange, got %v", err)
	}
}

func TestAssignerSharedAcrossInserts(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, NodeID: 2, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()

	a := &entity.Account{}
	p := &entity.Product{Variants: []entity.Variant{{Type: "base", Price: 1}}}
	if err := rt.Assigner().Assign(a); err != nil {
		t.Fatalf("assign account: %v", err)
	}
	if err := rt.Assigner().Assign(p.IdentityTargets()...); err != nil {
		t.Fatalf("assign product: %v", err)
	}
	if a.AccountID == p.ProductID || p.ProductID == p.Variants[0].VariantID {
		t.Fatalf("keys must be distinct across entities")
	}
}
