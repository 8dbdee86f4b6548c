package entity

// Variant is a purchasable variation of a product (size, flavor, batch).
// Each variant carries its own generated key.
type Variant struct {
	VariantID   ID      `json:"variantId"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	MinQuantity int     `json:"minQuantity"`
	MaxQuantity int     `json:"maxQuantity"`
}

func (v *Variant) IdentityBinding() Binding {
	return Binding{Entity: "variant", Attribute: "variant_id"}
}

func (v *Variant) IdentityAssigned() bool { return !v.VariantID.Zero() }

func (v *Variant) AssignIdentity(id int64) { v.VariantID = ID(id) }

// QuantityConsistent reports whether the min/max ordering quantities make
// sense together.
func (v *Variant) QuantityConsistent() bool {
	return v.MinQuantity >= 1 && v.MaxQuantity >= v.MinQuantity
}

// Product is a catalog item with at least one variant.
type Product struct {
	ProductID   ID        `json:"productId"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Available   bool      `json:"available"`
	Variants    []Variant `json:"variants"`
	Auditables
}

func (p *Product) IdentityBinding() Binding {
	return Binding{Entity: "product", Attribute: "product_id"}
}

func (p *Product) IdentityAssigned() bool { return !p.ProductID.Zero() }

func (p *Product) AssignIdentity(id int64) { p.ProductID = ID(id) }

// IdentityTargets returns the product plus each of its variants, the full
// set of key attributes that must be assigned before the first write.
func (p *Product) IdentityTargets() []HasGeneratedIdentity {
	targets := make([]HasGeneratedIdentity, 0, 1+len(p.Variants))
	targets = append(targets, p)
	for i := range p.Variants {
		targets = append(targets, &p.Variants[i])
	}
	return targets
}
