package db

import (
	"context"
	"fmt"

	"github.com/volnyigory/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type IOrderRepository interface {
	// CreateOrderWithItems inserts the order header and its line rows in one
	// transaction: a failing line insert rolls the header back, so a header
	// without lines can never be observed.
	CreateOrderWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]model.Order, error)
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

func (s *OrderRepo) CreateOrderWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create order items: %w", err)
			}
		}
		return nil
	})
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).Find(&orders).Error
	return orders, err
}
