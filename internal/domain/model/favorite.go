package model

// Favorite is one per-user favorites row. Display data is joined from the
// products table on load.
type Favorite struct {
	UserID    string `gorm:"primaryKey;type:uuid" json:"user_id"`
	ProductID string `gorm:"primaryKey;type:varchar(64)" json:"product_id"`
	BaseModel
}
