package db

import (
	"github.com/volnyigory/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// InitMigrate sets up the storefront schema. Idempotent.
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.ProductSnapshot{},
		&model.Profile{},
		&model.Order{},
		&model.OrderItem{},
		&model.Favorite{},
		&model.Setting{},
	)
}
