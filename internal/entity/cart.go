package entity

// CartItem is one variant selection in an account's cart.
type CartItem struct {
	CartItemID ID     `json:"cartItemId"`
	AccountID  ID     `json:"accountId"`
	ProductID  ID     `json:"productId"`
	VariantID  ID     `json:"variantId"`
	Quantity   int    `json:"quantity"`
	Note       string `json:"note,omitempty"`
	Auditables
}

func (c *CartItem) IdentityBinding() Binding {
	return Binding{Entity: "cart_item", Attribute: "cart_item_id"}
}

func (c *CartItem) IdentityAssigned() bool { return !c.CartItemID.Zero() }

func (c *CartItem) AssignIdentity(id int64) { c.CartItemID = ID(id) }
