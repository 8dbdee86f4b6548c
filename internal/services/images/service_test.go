package imagesvc

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

func newTestService(t *testing.T) (*Service, *entity.Product, *runtime.Runtime) {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeNever,
		NodeID:  1,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	logger := logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	catalog := catalogsvc.NewWithLogger(rt, logger)
	p, err := catalog.Create(context.Background(), catalogsvc.CreateInput{
		Name:     "Lapis",
		Category: "cake",
		Variants: []catalogsvc.VariantInput{{Type: "whole", Price: 650000, MinQuantity: 1}},
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return NewWithLogger(rt, catalog, logger), p, rt
}

func TestSaveAndOpen(t *testing.T) {
	s, p, rt := newTestService(t)
	ctx := context.Background()

	img, err := s.Save(ctx, p.ProductID, "photo.JPG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if img.ProductImageID.Zero() {
		t.Fatalf("image id must be assigned")
	}
	if img.SizeBytes != int64(len("fake image bytes")) {
		t.Fatalf("size mismatch: %d", img.SizeBytes)
	}
	if img.OriginalFilename != "photo.JPG" {
		t.Fatalf("original filename must be kept: %q", img.OriginalFilename)
	}

	// The stored name is key-based, not the upload name.
	want := filepath.Join(rt.UploadDir(), p.ProductID.String(), img.ProductImageID.String()+".jpg")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	rc, meta, err := s.Open(ctx, p.ProductID, img.ProductImageID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "fake image bytes" {
		t.Fatalf("content round trip: %q", b)
	}
	if meta.ProductImageID != img.ProductImageID {
		t.Fatalf("metadata mismatch")
	}
}

func TestSaveRejectsBadUploads(t *testing.T) {
	s, p, _ := newTestService(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, p.ProductID, "malware.exe", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad extension: want ErrInvalidInput, got %v", err)
	}
	if _, err := s.Save(ctx, entity.ID(999), "ok.png", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown product: want ErrInvalidInput, got %v", err)
	}
}

func TestSaveEnforcesLimit(t *testing.T) {
	s, p, rt := newTestService(t)
	ctx := context.Background()

	limit := rt.Config().MaxImagesPerProduct
	for i := 0; i < limit; i++ {
		if _, err := s.Save(ctx, p.ProductID, "a.png", strings.NewReader("x")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := s.Save(ctx, p.ProductID, "a.png", strings.NewReader("x")); !errors.Is(err, ErrTooMany) {
		t.Fatalf("want ErrTooMany past the limit, got %v", err)
	}

	imgs, err := s.List(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(imgs) != limit {
		t.Fatalf("want %d images, got %d", limit, len(imgs))
	}
}

func TestConcurrentSavesRespectLimit(t *testing.T) {
	s, p, rt := newTestService(t)
	ctx := context.Background()

	limit := rt.Config().MaxImagesPerProduct
	const callers = 12
	var wg sync.WaitGroup
	var saved atomic.Int64
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(ctx, p.ProductID, "a.png", strings.NewReader("x"))
			switch {
			case err == nil:
				saved.Add(1)
			case errors.Is(err, ErrTooMany):
			default:
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	if int(saved.Load()) != limit {
		t.Fatalf("expected %d saves to win, got %d", limit, saved.Load())
	}
	imgs, err := s.List(ctx, p.ProductID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(imgs) != limit {
		t.Fatalf("stored %d images, limit is %d", len(imgs), limit)
	}
}

func TestDelete(t *testing.T) {
	s, p, rt := newTestService(t)
	ctx := context.Background()

	img, err := s.Save(ctx, p.ProductID, "a.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, p.ProductID, img.ProductImageID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ProductID, img.ProductImageID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(rt.UploadDir(), img.RelativePath)); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err: %v", err)
	}
	if err := s.Delete(ctx, p.ProductID, img.ProductImageID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}
