package catalogsvc

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
	// ErrNotFound reports a missing product.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidInput reports a rejected request body.
	ErrInvalidInput = errors.New("catalog: invalid input")
	// ErrBadFilter reports an uncompilable list filter expression.
	ErrBadFilter = errors.New("catalog: invalid filter expression")
)

// Service is the catalog facade.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, logpkg.NewLogger().With(logpkg.Component("catalog")))
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("catalog"))
	}
	return &Service{rt: rt, logger: logger}
}

// VariantInput is one variant in a create/update request.
type VariantInput struct {
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	MinQuantity int     `json:"minQuantity"`
	MaxQuantity int     `json:"maxQuantity"`
}

// CreateInput carries the product fields.
type CreateInput struct {
	Name        string         `json:"name"`
	Tagline     string         `json:"tagline"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Available   bool           `json:"available"`
	Variants    []VariantInput `json:"variants"`
}

func (in CreateInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Variants) == 0 {
		return fmt.Errorf("%w: at least one variant is required", ErrInvalidInput)
	}
	for _, v := range in.Variants {
		if v.Type == "" {
			return fmt.Errorf("%w: variant type is required", ErrInvalidInput)
		}
		if v.Price <= 0 {
			return fmt.Errorf("%w: variant %q price must be positive", ErrInvalidInput, v.Type)
		}
	}
	return nil
}

func (s *Service) buildProduct(in CreateInput) *entity.Product {
	maxQty := s.rt.Config().MaxVariantQuantity
	p := &entity.Product{
		Name:        in.Name,
		Tagline:     in.Tagline,
		Description: in.Description,
		Category:    in.Category,
		Available:   in.Available,
		Variants:    make([]entity.Variant, 0, len(in.Variants)),
	}
	for _, v := range in.Variants {
		ev := entity.Variant{
			Type:        v.Type,
			Price:       v.Price,
			MinQuantity: v.MinQuantity,
			MaxQuantity: v.MaxQuantity,
		}
		if ev.MinQuantity <= 0 {
			ev.MinQuantity = 1
		}
		if ev.MaxQuantity <= 0 {
			ev.MaxQuantity = maxQty
		}
		p.Variants = append(p.Variants, ev)
	}
	return p
}

// Create inserts a new product. The product key and every variant key are
// assigned in one pre-insert pass; any generator failure aborts the insert
// with nothing written.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := s.buildProduct(in)
	for i := range p.Variants {
		if !p.Variants[i].QuantityConsistent() {
			return nil, fmt.Errorf("%w: variant %q has inconsistent quantities", ErrInvalidInput, p.Variants[i].Type)
		}
	}
	p.Touch(time.Now())
	if err := s.rt.Assigner().Assign(p.IdentityTargets()...); err != nil {
		return nil, err
	}
	if err := s.put(p); err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		logpkg.Str("product_id", p.ProductID.String()),
		logpkg.Str("name", p.Name),
		logpkg.Int("variants", len(p.Variants)),
	)
	return p, nil
}

// Get returns the product with the given id.
func (s *Service) Get(ctx context.Context, id entity.ID) (*entity.Product, error) {
	b, err := s.rt.DB().Get(productKey(id))
	if err != nil {
		return nil, ErrNotFound
	}
	var p entity.Product
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the product's fields. Variants keep their keys when the
// update carries them back with IDs; fresh variants are assigned new keys.
func (s *Service) Update(ctx context.Context, id entity.ID, in CreateInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := s.buildProduct(in)
	p.ProductID = existing.ProductID
	p.CreatedAt = existing.CreatedAt
	p.Touch(time.Now())

	// Carry over keys for variants whose type matches an existing one, so
	// cart items referencing them stay valid.
	byType := make(map[string]entity.ID, len(existing.Variants))
	for _, v := range existing.Variants {
		byType[v.Type] = v.VariantID
	}
	for i := range p.Variants {
		if vid, ok := byType[p.Variants[i].Type]; ok {
			p.Variants[i].VariantID = vid
		}
	}
	if err := s.rt.Assigner().Assign(p.IdentityTargets()...); err != nil {
		return nil, err
	}
	if err := s.put(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the product record.
func (s *Service) Delete(ctx context.Context, id entity.ID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.rt.DB().Delete(productKey(id))
}

// ListOptions narrows a catalog listing.
type ListOptions struct {
	// Category, when set, keeps only exact category matches.
	Category string
	// Filter is an optional CEL expression; see package doc.
	Filter string
}

// List returns products in id order, optionally narrowed by category and a
// CEL filter expression.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]entity.Product, error) {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFilter, err)
	}
	var out []entity.Product
	scanErr := s.rt.DB().ScanPrefix(productPrefix, func(_, v []byte) bool {
		var p entity.Product
		if json.Unmarshal(v, &p) != nil {
			return true
		}
		if opts.Category != "" && p.Category != opts.Category {
			return true
		}
		if !filter.Eval(&p) {
			return true
		}
		out = append(out, p)
		return true
	})
	return out, scanErr
}

func (s *Service) put(p *entity.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rt.DB().Set(productKey(p.ProductID), raw)
}
