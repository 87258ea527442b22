package model

// Profile holds the recipient data attached to a user account. Address is a
// single "city, region, street, zip" string, the format the checkout form
// writes and parses back.
type Profile struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Email   string `gorm:"type:varchar(255)" json:"email"`
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Address string `gorm:"type:text" json:"address"`
	BaseModel
}
