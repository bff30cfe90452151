package application

import (
	"context"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	repo "github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

type CardService struct {
	Cards repo.CardRepository
}

func NewCardService(cards repo.CardRepository) *CardService {
	return &CardService{Cards: cards}
}

// List returns every card, newest first.
func (s *CardService) List(ctx context.Context) ([]entity.Card, error) {
	cards, err := s.Cards.List(ctx)
	if err != nil {
		return nil, store.Translate(err)
	}
	return cards, nil
}

// Create stores a card owned by the caller.
func (s *CardService) Create(ctx context.Context, p entity.Principal, name, link string) (*entity.Card, error) {
	if err := RequireAuthenticated(p); err != nil {
		return nil, err
	}
	c := &entity.Card{Name: name, Link: link, Owner: p.ID, Likes: []string{}}
	if err := s.Cards.Create(ctx, c); err != nil {
		return nil, store.Translate(err)
	}
	return c, nil
}

// Delete removes the card if the caller owns it.
func (s *CardService) Delete(ctx context.Context, p entity.Principal, cardID string) error {
	c, err := s.Cards.GetByID(ctx, cardID)
	if err != nil {
		return store.Translate(err)
	}
	if err := RequireOwner(p, c.Owner); err != nil {
		return err
	}
	return store.Translate(s.Cards.Delete(ctx, cardID))
}

// Like adds the caller to the card's likes. Repeating it changes nothing.
func (s *CardService) Like(ctx context.Context, p entity.Principal, cardID string) (*entity.Card, error) {
	if err := RequireAuthenticated(p); err != nil {
		return nil, err
	}
	c, err := s.Cards.AddLike(ctx, cardID, p.ID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return c, nil
}

// Unlike removes the caller from the card's likes, if present.
func (s *CardService) Unlike(ctx context.Context, p entity.Principal, cardID string) (*entity.Card, error) {
	if err := RequireAuthenticated(p); err != nil {
		return nil, err
	}
	c, err := s.Cards.RemoveLike(ctx, cardID, p.ID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return c, nil
}
