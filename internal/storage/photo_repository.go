package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/giftshop-functions/internal/model"
)

// GalleryLimit caps how many photos a listing returns.
const GalleryLimit = 100

// PhotoRepository persists gallery photo records. Rows are insert-only.
type PhotoRepository interface {
	Create(ctx context.Context, photo *model.GalleryPhoto) error
	ListRecent(ctx context.Context, limit int) ([]model.GalleryPhoto, error)
}

type sqlPhotoRepository struct {
	db *sqlx.DB
}

// NewPhotoRepository creates a PhotoRepository on top of db.
func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &sqlPhotoRepository{db: db}
}

// Create inserts the photo and sets photo.ID to the store-assigned id.
// uploaded_at is left to the column default.
func (r *sqlPhotoRepository) Create(ctx context.Context, photo *model.GalleryPhoto) error {
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		"INSERT INTO gallery_photos (file_key, file_url) VALUES (?, ?) RETURNING id"),
		photo.FileKey, photo.FileURL,
	).Scan(&photo.ID)
	if err != nil {
		return fmt.Errorf("creating gallery photo: %w", err)
	}
	return nil
}

// ListRecent returns up to limit photos, newest first. Only id, file_url and
// uploaded_at are loaded.
func (r *sqlPhotoRepository) ListRecent(ctx context.Context, limit int) ([]model.GalleryPhoto, error) {
	photos := []model.GalleryPhoto{}
	err := r.db.SelectContext(ctx, &photos, r.db.Rebind(
		"SELECT id, file_url, uploaded_at FROM gallery_photos ORDER BY uploaded_at DESC LIMIT ?"), limit)
	if err != nil {
		return nil, fmt.Errorf("listing gallery photos: %w", err)
	}
	return photos, nil
}
