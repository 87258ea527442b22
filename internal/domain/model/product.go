package model

// ProductSnapshot is the catalog view of a product as captured into a cart or
// favorites entry. It is immutable once captured: a later catalog price change
// does not alter snapshots already held by a cart line or an order draft.
type ProductSnapshot struct {
	ID        string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name      string `gorm:"not null;type:varchar(255)" json:"name"`
	SalePrice *int64 `gorm:"type:bigint" json:"sale_price"` // kopecks, nil means the product has no price
	Stock     int    `gorm:"not null;default:0" json:"stock"`
	Archived  bool   `gorm:"not null;default:false" json:"archived"`
	PathName  string `gorm:"type:varchar(255)" json:"path_name"`
	ImageURL  string `gorm:"type:text" json:"image_url"`
	BaseModel
}

func (ProductSnapshot) TableName() string {
	return "products"
}

// PriceOrZero treats a missing price as zero for total computation.
func (p *ProductSnapshot) PriceOrZero() int64 {
	if p.SalePrice == nil {
		return 0
	}
	return *p.SalePrice
}
