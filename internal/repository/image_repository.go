package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contact-intake-api/internal/domain"
)

// ImageRepository defines the interface for managed image metadata access
type ImageRepository interface {
	Upsert(ctx context.Context, image *domain.ImageAsset) error
	FindByCategoryAndName(ctx context.Context, category, name string) (*domain.ImageAsset, error)
	FindByCategory(ctx context.Context, category string) ([]*domain.ImageAsset, error)
}

// imageRepositoryImpl is the GORM implementation of ImageRepository
type imageRepositoryImpl struct {
	db *gorm.DB
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepositoryImpl{db: db}
}

// Upsert creates the row or, when the category/name pair already exists,
// overwrites its file metadata. Re-uploading a managed image is allowed.
func (r *imageRepositoryImpl) Upsert(ctx context.Context, image *domain.ImageAsset) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_key", "file_size", "content_type", "public_url", "updated_at"}),
		}).
		Create(image).Error
}

// FindByCategoryAndName finds one image by its category/name pair
func (r *imageRepositoryImpl) FindByCategoryAndName(ctx context.Context, category, name string) (*domain.ImageAsset, error) {
	var image domain.ImageAsset
	if err := r.db.WithContext(ctx).
		Where("category = ? AND name = ?", category, name).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// FindByCategory lists all images in a category, newest first
func (r *imageRepositoryImpl) FindByCategory(ctx context.Context, category string) ([]*domain.ImageAsset, error) {
	var images []*domain.ImageAsset
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("updated_at DESC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}
