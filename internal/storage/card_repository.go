package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/giftshop-functions/internal/model"
)

// ErrNotFound is returned when a requested row doesn't exist.
var ErrNotFound = errors.New("not found")

// CardRepository reads gift cards. Cards are maintained outside this
// service, so there are no write methods.
type CardRepository interface {
	List(ctx context.Context) ([]model.Card, error)
	GetByID(ctx context.Context, id int64) (*model.Card, error)
}

type sqlCardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a CardRepository on top of db.
func NewCardRepository(db *sqlx.DB) CardRepository {
	return &sqlCardRepository{db: db}
}

// List returns every card ordered by face value, smallest first.
func (r *sqlCardRepository) List(ctx context.Context) ([]model.Card, error) {
	cards := []model.Card{}
	err := r.db.SelectContext(ctx, &cards,
		"SELECT id, amount, price, description, available_count FROM cards ORDER BY amount")
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	return cards, nil
}

func (r *sqlCardRepository) GetByID(ctx context.Context, id int64) (*model.Card, error) {
	var card model.Card
	// Rebind turns ? placeholders into the driver's style ($1 for pgx).
	err := r.db.GetContext(ctx, &card, r.db.Rebind(
		"SELECT id, amount, price, description, available_count FROM cards WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting card %d: %w", id, err)
	}
	return &card, nil
}
