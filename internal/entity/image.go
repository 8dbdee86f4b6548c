package entity

// ProductImage records one stored upload for a product. The bytes live on
// disk under the upload directory; only metadata is persisted.
type ProductImage struct {
	ProductImageID   ID     `json:"productImageId"`
	ProductID        ID     `json:"productId"`
	OriginalFilename string `json:"originalFilename"`
	RelativePath     string `json:"relativePath"`
	SizeBytes        int64  `json:"sizeBytes"`
	Auditables
}

func (i *ProductImage) IdentityBinding() Binding {
	return Binding{Entity: "product_image", Attribute: "product_image_id"}
}

func (i *ProductImage) IdentityAssigned() bool { return !i.ProductImageID.Zero() }

func (i *ProductImage) AssignIdentity(id int64) { i.ProductImageID = ID(id) }
