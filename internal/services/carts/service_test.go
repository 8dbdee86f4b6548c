package cartsvc

import (
	"context"
	"errors"
	"testing"

	cfgpkg "github.com/ZeroFairy/kuenyawz-api/internal/config"
	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	pebblestore "github.com/ZeroFairy/kuenyawz-api/internal/storage/pebble"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

func newTestServices(t *testing.T) (*Service, *catalogsvc.Service) {
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
	return NewWithLogger(rt, catalog, logger), catalog
}

func seedProduct(t *testing.T, catalog *catalogsvc.Service) *entity.Product {
	t.Helper()
	p, err := catalog.Create(context.Background(), catalogsvc.CreateInput{
		Name:      "Lapis",
		Category:  "cake",
		Available: true,
		Variants: []catalogsvc.VariantInput{
			{Type: "whole", Price: 650000, MinQuantity: 1, MaxQuantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func TestAddListRemove(t *testing.T) {
	s, catalog := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, catalog)
	account := entity.ID(42)

	item, err := s.Add(ctx, account, AddInput{
		ProductID: p.ProductID,
		VariantID: p.Variants[0].VariantID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if item.CartItemID.Zero() {
		t.Fatalf("cart item id must be assigned")
	}

	items, err := s.List(ctx, account)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].CartItemID != item.CartItemID {
		t.Fatalf("list mismatch: %+v", items)
	}

	// Carts are scoped per account.
	other, err := s.List(ctx, entity.ID(43))
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other account's cart must be empty, got %+v", other)
	}

	if err := s.Remove(ctx, account, item.CartItemID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, account, item.CartItemID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after remove, got %v", err)
	}
}

func TestAddValidatesVariant(t *testing.T) {
	s, catalog := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, catalog)
	account := entity.ID(42)

	if _, err := s.Add(ctx, account, AddInput{ProductID: 999, VariantID: 1, Quantity: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown product: want ErrInvalidInput, got %v", err)
	}
	if _, err := s.Add(ctx, account, AddInput{ProductID: p.ProductID, VariantID: 999, Quantity: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown variant: want ErrInvalidInput, got %v", err)
	}
	if _, err := s.Add(ctx, account, AddInput{
		ProductID: p.ProductID,
		VariantID: p.Variants[0].VariantID,
		Quantity:  6, // variant max is 5
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("quantity over max: want ErrInvalidInput, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	s, catalog := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, catalog)
	account := entity.ID(7)

	item, err := s.Add(ctx, account, AddInput{
		ProductID: p.ProductID,
		VariantID: p.Variants[0].VariantID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := s.SetQuantity(ctx, account, item.CartItemID, 3)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if updated.Quantity != 3 {
		t.Fatalf("want quantity 3, got %d", updated.Quantity)
	}

	if _, err := s.SetQuantity(ctx, account, item.CartItemID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput for quantity below min, got %v", err)
	}
}

func TestClear(t *testing.T) {
	s, catalog := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, catalog)
	account := entity.ID(11)

	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, account, AddInput{
			ProductID: p.ProductID,
			VariantID: p.Variants[0].VariantID,
			Quantity:  1,
		}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if err := s.Clear(ctx, account); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err := s.List(ctx, account)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart must be empty after clear, got %d items", len(items))
	}
}
