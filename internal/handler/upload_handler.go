package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
	"github.com/fleveque/giftshop-functions/internal/imagebody"
	"github.com/fleveque/giftshop-functions/internal/model"
	"github.com/fleveque/giftshop-functions/internal/service"
)

// UploadHandler accepts a single image and adds it to the gallery.
type UploadHandler struct {
	photos *service.PhotoService
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(photos *service.PhotoService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{photos: photos, logger: logger}
}

// Handle decodes the image from the body (JSON base64 or multipart,
// depending on Content-Type) and uploads it.
// Route: POST /upload-photo
func (h *UploadHandler) Handle(ctx context.Context, req httpevent.Request) (httpevent.Response, error) {
	switch req.Method(http.MethodPost) {
	case http.MethodOptions:
		return httpevent.Preflight("POST, OPTIONS"), nil
	case http.MethodPost:
	default:
		return httpevent.MethodNotAllowed(), nil
	}

	// Decoding is pure, so a bad body is rejected before anything is stored.
	image, err := imagebody.Decode(req)
	if err != nil {
		h.logger.Warn("rejected upload body",
			zap.String("content_type", req.Header("Content-Type")),
			zap.Error(err),
		)
		return httpevent.Error(http.StatusBadRequest, err.Error()), nil
	}

	photo, err := h.photos.Upload(ctx, image)
	if err != nil {
		return httpevent.Response{}, err
	}

	return httpevent.JSON(http.StatusOK, model.UploadResult{ID: photo.ID, URL: photo.FileURL})
}
