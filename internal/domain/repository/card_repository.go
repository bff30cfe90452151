package repository

import (
	"context"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

// CardRepository persists cards. AddLike and RemoveLike are atomic set
// operations and return the card after the update.
type CardRepository interface {
	Create(ctx context.Context, c *entity.Card) error
	GetByID(ctx context.Context, id string) (*entity.Card, error)
	// List returns all cards, newest first.
	List(ctx context.Context) ([]entity.Card, error)
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	AddLike(ctx context.Context, cardID, userID string) (*entity.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (*entity.Card, error)
}
