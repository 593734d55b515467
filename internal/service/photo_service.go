// Package service contains the upload workflow: store the image bytes,
// then record them in the gallery.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/config"
	"github.com/fleveque/giftshop-functions/internal/model"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

const (
	// KeyPrefix is the logical folder every gallery object is stored under.
	KeyPrefix = "gallery/"
	// All uploads are stored and served as JPEG regardless of the source format.
	storedContentType = "image/jpeg"
	storedExtension   = ".jpg"
)

// PhotoService stores uploaded images and records them in the gallery.
type PhotoService struct {
	store  storage.ObjectStore
	db     storage.Opener
	cdn    config.CDNConfig
	newKey func() string
	logger *zap.Logger
}

// NewPhotoService wires the object store, the database and the CDN settings.
func NewPhotoService(store storage.ObjectStore, db storage.Opener, cdn config.CDNConfig, logger *zap.Logger) *PhotoService {
	return &PhotoService{
		store:  store,
		db:     db,
		cdn:    cdn,
		newKey: NewObjectKey,
		logger: logger,
	}
}

// NewObjectKey returns a fresh gallery key such as "gallery/<uuid>.jpg".
func NewObjectKey() string {
	return KeyPrefix + uuid.NewString() + storedExtension
}

// PublicURL builds the CDN address an object key is served from.
func PublicURL(cdn config.CDNConfig, key string) string {
	return fmt.Sprintf("https://%s/projects/%s/bucket/%s", cdn.Host, cdn.AccountID, key)
}

// Upload writes image under a new key, then inserts the gallery row.
//
// The two steps are not atomic: if the insert fails the object stays in the
// bucket with no row pointing at it. Nothing cleans it up.
func (s *PhotoService) Upload(ctx context.Context, image []byte) (*model.GalleryPhoto, error) {
	key := s.newKey()

	if err := s.store.Put(ctx, key, image, storedContentType); err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	photo := &model.GalleryPhoto{
		FileKey: key,
		FileURL: PublicURL(s.cdn, key),
	}

	db, err := s.db.Open(ctx)
	if err != nil {
		s.logger.Error("image stored without gallery record",
			zap.String("file_key", key),
			zap.Error(err),
		)
		return nil, err
	}
	defer db.Close()

	if err := storage.NewPhotoRepository(db).Create(ctx, photo); err != nil {
		s.logger.Error("image stored without gallery record",
			zap.String("file_key", key),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("photo uploaded",
		zap.Int64("id", photo.ID),
		zap.String("file_key", key),
		zap.Int("bytes", len(image)),
	)
	return photo, nil
}
