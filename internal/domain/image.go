package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImageAsset records a managed website image stored in the image bucket
// prefix. Uploads with the same category and name overwrite the blob and
// update this row in place.
type ImageAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Category    string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_image_assets_category_name,priority:1" json:"category"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_image_assets_category_name,priority:2" json:"name"`
	FileKey     string    `gorm:"type:text;not null" json:"fileKey"`
	FileSize    int64     `gorm:"not null" json:"fileSize"`
	ContentType string    `gorm:"type:varchar(100);not null" json:"contentType"`
	PublicURL   string    `gorm:"type:text;not null" json:"publicUrl"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for ImageAsset
func (ImageAsset) TableName() string {
	return "image_assets"
}
