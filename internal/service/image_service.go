package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contact-intake-api/internal/client"
	"contact-intake-api/internal/domain"
	"contact-intake-api/internal/metrics"
	"contact-intake-api/internal/repository"
	"contact-intake-api/internal/response"
)

// MaxImageSize bounds managed image uploads
const MaxImageSize = 5 * 1024 * 1024

// ImageService manages the website's static images: blob storage plus a
// metadata row per image so lookups do not need bucket listings.
type ImageService struct {
	repo     repository.ImageRepository
	s3Client client.S3ClientInterface
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewImageService creates a new ImageService
func NewImageService(repo repository.ImageRepository, s3Client client.S3ClientInterface, logger *zap.Logger, m *metrics.Metrics) *ImageService {
	return &ImageService{
		repo:     repo,
		s3Client: s3Client,
		logger:   logger,
		metrics:  m,
	}
}

// Upload stores an image blob under images/{category}/{name}{ext} and upserts
// its metadata row. Re-uploading the same category/name pair replaces the
// image.
func (s *ImageService) Upload(ctx context.Context, category, name, fileName, contentType string, data []byte) (*domain.ImageAsset, error) {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(name) == "" {
		return nil, response.NewValidationError("カテゴリと名前を指定してください")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, response.NewValidationError("画像ファイルのみアップロードできます")
	}
	if int64(len(data)) > MaxImageSize {
		return nil, response.NewValidationError("画像サイズは5MB以下にしてください")
	}

	key := client.ImageKey(category, name, fileName)
	if err := s.s3Client.UploadFile(ctx, key, bytes.NewReader(data), contentType); err != nil {
		s.logger.Error("Failed to upload image",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, response.NewStorageError("画像のアップロードに失敗しました", err)
	}

	asset := &domain.ImageAsset{
		Category:    category,
		Name:        name,
		FileKey:     key,
		FileSize:    int64(len(data)),
		ContentType: contentType,
		PublicURL:   s.s3Client.GetPublicURL(key),
	}
	if err := s.repo.Upsert(ctx, asset); err != nil {
		s.logger.Error("Failed to save image metadata",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, response.NewStorageError("画像情報の保存に失敗しました", err)
	}

	s.logger.Info("Image uploaded",
		zap.String("category", category),
		zap.String("name", name),
		zap.Int("size", len(data)),
	)
	if s.metrics != nil {
		s.metrics.IncrementImageUploads()
	}

	return asset, nil
}

// Get resolves an image by category and name. Callers may pass the name with
// or without its file extension; both resolve to the same image. Images whose
// blob exists but whose metadata row is missing are resolved from a bucket
// listing as a fallback.
func (s *ImageService) Get(ctx context.Context, category, name string) (*domain.ImageAsset, error) {
	asset, err := s.repo.FindByCategoryAndName(ctx, category, name)
	if err == nil {
		return asset, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewStorageError("画像情報の取得に失敗しました", err)
	}

	// Retry without the extension the caller may have included.
	if ext := filepath.Ext(name); ext != "" {
		base := strings.TrimSuffix(name, ext)
		if asset, err := s.repo.FindByCategoryAndName(ctx, category, base); err == nil {
			return asset, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewStorageError("画像情報の取得に失敗しました", err)
		}
	}

	return s.getFromBucket(ctx, category, name)
}

// getFromBucket matches a blob under the category prefix by base name
func (s *ImageService) getFromBucket(ctx context.Context, category, name string) (*domain.ImageAsset, error) {
	prefix := client.ImagePrefix + category + "/"
	entries, err := s.s3Client.ListFiles(ctx, prefix)
	if err != nil {
		return nil, response.NewStorageError("画像情報の取得に失敗しました", err)
	}

	want := strings.TrimSuffix(name, filepath.Ext(name))
	for _, entry := range entries {
		base := strings.TrimPrefix(entry.Key, prefix)
		if strings.TrimSuffix(base, filepath.Ext(base)) != want {
			continue
		}
		return &domain.ImageAsset{
			Category:  category,
			Name:      want,
			FileKey:   entry.Key,
			FileSize:  entry.Size,
			PublicURL: s.s3Client.GetPublicURL(entry.Key),
			UpdatedAt: entry.LastModified,
		}, nil
	}

	return nil, response.NewNotFoundError("指定された画像が見つかりません")
}

// List returns all images in a category, newest first
func (s *ImageService) List(ctx context.Context, category string) ([]*domain.ImageAsset, error) {
	if strings.TrimSpace(category) == "" {
		return nil, response.NewValidationError("カテゴリを指定してください")
	}
	assets, err := s.repo.FindByCategory(ctx, category)
	if err != nil {
		return nil, response.NewStorageError("画像一覧の取得に失敗しました", err)
	}
	return assets, nil
}
