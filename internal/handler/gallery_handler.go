package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

// GalleryHandler lists recently uploaded photos.
type GalleryHandler struct {
	db     storage.Opener
	logger *zap.Logger
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(db storage.Opener, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{db: db, logger: logger}
}

// Handle returns the newest photos first, at most storage.GalleryLimit.
// Route: GET /gallery
func (h *GalleryHandler) Handle(ctx context.Context, req httpevent.Request) (httpevent.Response, error) {
	switch req.Method(http.MethodGet) {
	case http.MethodOptions:
		return httpevent.Preflight("GET, OPTIONS"), nil
	case http.MethodGet:
	default:
		return httpevent.MethodNotAllowed(), nil
	}

	db, err := h.db.Open(ctx)
	if err != nil {
		return httpevent.Response{}, err
	}
	defer db.Close()

	photos, err := storage.NewPhotoRepository(db).ListRecent(ctx, storage.GalleryLimit)
	if err != nil {
		return httpevent.Response{}, err
	}

	h.logger.Debug("listed gallery", zap.Int("count", len(photos)))
	return httpevent.JSON(http.StatusOK, photos)
}
