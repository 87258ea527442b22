package db

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
	"gorm.io/gorm/clause"
)

type IFavoriteRepository interface {
	GetProductIDs(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type FavoriteRepo struct {
	db *DbDao
}

func NewFavoriteRepo(db *DbDao) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

func (s *FavoriteRepo) GetProductIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Pluck("product_id", &ids).Error
	return ids, err
}

func (s *FavoriteRepo) Add(ctx context.Context, userID, productID string) error {
	fav := model.Favorite{UserID: userID, ProductID: productID}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error
}

func (s *FavoriteRepo) Remove(ctx context.Context, userID, productID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{}).Error
}
