package cartsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

var (
	// ErrNotFound reports a missing cart item.
	ErrNotFound = errors.New("cart: not found")
	// ErrInvalidInput reports a rejected request.
	ErrInvalidInput = errors.New("cart: invalid input")
)

// Catalog is the product lookup the cart needs to validate additions.
type Catalog interface {
	Get(ctx context.Context, id entity.ID) (*entity.Product, error)
}

// Service manages per-account carts.
type Service struct {
	rt      *runtime.Runtime
	catalog Catalog
	logger  logpkg.Logger
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime, catalog Catalog) *Service {
	return NewWithLogger(rt, catalog, logpkg.NewLogger().With(logpkg.Component("carts")))
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, catalog Catalog, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("carts"))
	}
	return &Service{rt: rt, catalog: catalog, logger: logger}
}

// AddInput describes one variant selection to put in a cart.
type AddInput struct {
	ProductID entity.ID `json:"productId"`
	VariantID entity.ID `json:"variantId"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note,omitempty"`
}

// Add validates the selection against the catalog and stores a new cart
// item for the account. The item key is assigned before the write.
func (s *Service) Add(ctx context.Context, accountID entity.ID, in AddInput) (*entity.CartItem, error) {
	if accountID.Zero() {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	variant, err := s.lookupVariant(ctx, in.ProductID, in.VariantID)
	if err != nil {
		return nil, err
	}
	if in.Quantity < variant.MinQuantity || in.Quantity > variant.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity %d outside [%d, %d] for variant %q",
			ErrInvalidInput, in.Quantity, variant.MinQuantity, variant.MaxQuantity, variant.Type)
	}
	item := &entity.CartItem{
		AccountID: accountID,
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		Note:      in.Note,
	}
	item.Touch(time.Now())
	if err := s.rt.Assigner().Assign(item); err != nil {
		return nil, err
	}
	if err := s.put(item); err != nil {
		return nil, err
	}
	s.logger.Info("cart item added",
		logpkg.Str("account_id", accountID.String()),
		logpkg.Str("cart_item_id", item.CartItemID.String()),
	)
	return item, nil
}

// Get returns one cart item belonging to the account.
func (s *Service) Get(ctx context.Context, accountID, itemID entity.ID) (*entity.CartItem, error) {
	b, err := s.rt.DB().Get(cartItemKey(accountID, itemID))
	if err != nil {
		return nil, ErrNotFound
	}
	var item entity.CartItem
	if err := json.Unmarshal(b, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity updates the quantity of an existing item, re-checked against
// the variant's bounds.
func (s *Service) SetQuantity(ctx context.Context, accountID, itemID entity.ID, quantity int) (*entity.CartItem, error) {
	item, err := s.Get(ctx, accountID, itemID)
	if err != nil {
		return nil, err
	}
	variant, err := s.lookupVariant(ctx, item.ProductID, item.VariantID)
	if err != nil {
		return nil, err
	}
	if quantity < variant.MinQuantity || quantity > variant.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity %d outside [%d, %d]",
			ErrInvalidInput, quantity, variant.MinQuantity, variant.MaxQuantity)
	}
	item.Quantity = quantity
	item.Touch(time.Now())
	if err := s.put(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove deletes one item from the account's cart.
func (s *Service) Remove(ctx context.Context, accountID, itemID entity.ID) error {
	if _, err := s.Get(ctx, accountID, itemID); err != nil {
		return err
	}
	return s.rt.DB().Delete(cartItemKey(accountID, itemID))
}

// List returns the account's cart in insertion order.
func (s *Service) List(ctx context.Context, accountID entity.ID) ([]entity.CartItem, error) {
	var out []entity.CartItem
	err := s.rt.DB().ScanPrefix(accountCartPrefix(accountID), func(_, v []byte) bool {
		var item entity.CartItem
		if json.Unmarshal(v, &item) == nil {
			out = append(out, item)
		}
		return true
	})
	return out, err
}

// Clear removes every item in the account's cart in one batch.
func (s *Service) Clear(ctx context.Context, accountID entity.ID) error {
	batch := s.rt.DB().NewBatch()
	err := s.rt.DB().ScanPrefix(accountCartPrefix(accountID), func(k, _ []byte) bool {
		key := append([]byte(nil), k...)
		return batch.Delete(key, nil) == nil
	})
	if err != nil {
		batch.Close()
		return err
	}
	if batch.Empty() {
		batch.Close()
		return nil
	}
	return s.rt.DB().CommitBatch(ctx, batch)
}

func (s *Service) lookupVariant(ctx context.Context, productID, variantID entity.ID) (*entity.Variant, error) {
	p, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrInvalidInput, productID)
	}
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i], nil
		}
	}
	return nil, fmt.Errorf("%w: variant %s not on product %s", ErrInvalidInput, variantID, productID)
}

func (s *Service) put(item *entity.CartItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.rt.DB().Set(cartItemKey(item.AccountID, item.CartItemID), raw)
}
