// Package handler contains the function handlers. Each one takes an
// httpevent.Request and returns an httpevent.Response; client mistakes
// become 4xx responses, infrastructure failures are returned as errors.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

// CardsHandler serves the gift card catalog.
type CardsHandler struct {
	db     storage.Opener
	logger *zap.Logger
}

// NewCardsHandler creates a new CardsHandler.
func NewCardsHandler(db storage.Opener, logger *zap.Logger) *CardsHandler {
	return &CardsHandler{db: db, logger: logger}
}

// Handle returns every card sorted by amount, or the card named by the
// "id" path parameter.
// Route: GET /cards, GET /cards/:id
func (h *CardsHandler) Handle(ctx context.Context, req httpevent.Request) (httpevent.Response, error) {
	switch req.Method(http.MethodGet) {
	case http.MethodOptions:
		return httpevent.Preflight("GET, OPTIONS"), nil
	case http.MethodGet:
	default:
		return httpevent.MethodNotAllowed(), nil
	}

	idParam := req.PathParam("id")
	var id int64
	if idParam != "" {
		var err error
		// Ids are integers; anything else cannot match a row.
		if id, err = strconv.ParseInt(idParam, 10, 64); err != nil {
			h.logger.Warn("card not found", zap.String("id", idParam))
			return cardNotFound(), nil
		}
	}

	db, err := h.db.Open(ctx)
	if err != nil {
		return httpevent.Response{}, err
	}
	defer db.Close()
	repo := storage.NewCardRepository(db)

	if idParam == "" {
		cards, err := repo.List(ctx)
		if err != nil {
			return httpevent.Response{}, err
		}
		return httpevent.JSON(http.StatusOK, cards)
	}

	card, err := repo.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		h.logger.Warn("card not found", zap.Int64("id", id))
		return cardNotFound(), nil
	}
	if err != nil {
		return httpevent.Response{}, err
	}
	return httpevent.JSON(http.StatusOK, card)
}

func cardNotFound() httpevent.Response {
	return httpevent.Error(http.StatusNotFound, "Card not found")
}
