package model

import (
	"github.com/shopspring/decimal"
)

// OrderStatusAwaitingPayment is the status every storefront order is created
// with. Later transitions belong to the back-office.
const OrderStatusAwaitingPayment = "Ожидает оплаты"

type Order struct {
	ID              string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID          string          `gorm:"not null;type:uuid;index" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total_amount"` // rubles, items plus delivery
	Status          string          `gorm:"not null;type:varchar(50)" json:"status"`
	CustomerName    string          `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone   string          `gorm:"type:varchar(50)" json:"customer_phone"`
	DeliveryAddress string          `gorm:"type:text" json:"delivery_address"`
	PaymentMethod   string          `gorm:"type:varchar(100)" json:"payment_method"` // display name, not id
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	BaseModel
}

type OrderItem struct {
	OrderID   string `gorm:"primaryKey;type:uuid" json:"order_id"`
	ProductID string `gorm:"primaryKey;type:varchar(64)" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	Price     *int64 `gorm:"type:bigint" json:"price"` // unit price in kopecks at order time
	BaseModel
}
