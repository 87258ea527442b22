package db

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
)

type IProfileRepository interface {
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error
}

type ProfileRepo struct {
	db *DbDao
}

func NewProfileRepo(db *DbDao) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (s *ProfileRepo) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *ProfileRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	return s.db.WithContext(ctx).Save(profile).Error
}
