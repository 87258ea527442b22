package db

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
)

type IProductRepository interface {
	GetProductByID(ctx context.Context, id string) (*model.ProductSnapshot, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error)
	GetActiveProducts(ctx context.Context) ([]model.ProductSnapshot, error)
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) GetProductByID(ctx context.Context, id string) (*model.ProductSnapshot, error) {
	var product model.ProductSnapshot
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.ProductSnapshot
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (s *ProductRepo) GetActiveProducts(ctx context.Context) ([]model.ProductSnapshot, error) {
	var products []model.ProductSnapshot
	err := s.db.WithContext(ctx).Where("archived = ?", false).Find(&products).Error
	return products, err
}
