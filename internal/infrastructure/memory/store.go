// Package memory is an in-process store used by tests and local runs without
// a database. It reports failures with the same error types as the real
// backends.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

type cardRecord struct {
	card entity.Card
	seq  uint64
}

// Store holds users and cards behind one mutex.
type Store struct {
	mu     sync.RWMutex
	users  map[string]entity.User
	emails map[string]string // lower-cased email -> user id
	cards  map[string]cardRecord
	seq    uint64
	now    func() time.Time
}

func New() *Store {
	return &Store{
		users:  make(map[string]entity.User),
		emails: make(map[string]string),
		cards:  make(map[string]cardRecord),
		now:    time.Now,
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Cards() *CardRepository { return &CardRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	if err := store.Validate(u); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.emails[key]; ok {
		return &store.DuplicateKeyError{Key: "email", Value: u.Email}
	}
	u.ID = store.NewID()
	u.CreatedAt = s.now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	s.emails[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, store.NotFound("user")
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[strings.ToLower(email)]
	if !ok {
		return nil, store.NotFound("user")
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) List(_ context.Context) ([]entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	if err := store.CheckID("_id", u.ID); err != nil {
		return err
	}
	if err := store.Validate(u); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[u.ID]
	if !ok {
		return store.NotFound("user")
	}
	newKey := strings.ToLower(u.Email)
	oldKey := strings.ToLower(old.Email)
	if newKey != oldKey {
		if _, taken := s.emails[newKey]; taken {
			return &store.DuplicateKeyError{Key: "email", Value: u.Email}
		}
		delete(s.emails, oldKey)
		s.emails[newKey] = u.ID
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = s.now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.NotFound("user")
	}
	delete(s.users, id)
	delete(s.emails, strings.ToLower(u.Email))
	return nil
}

func (r *UserRepository) Ping(context.Context) error { return nil }

type CardRepository struct{ s *Store }

func (r *CardRepository) Create(_ context.Context, c *entity.Card) error {
	if err := store.Validate(c); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = store.NewID()
	c.CreatedAt = s.now().UTC()
	if c.Likes == nil {
		c.Likes = []string{}
	}
	s.seq++
	s.cards[c.ID] = cardRecord{card: cloneCard(*c), seq: s.seq}
	return nil
}

func (r *CardRepository) GetByID(_ context.Context, id string) (*entity.Card, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.cards[id]
	if !ok {
		return nil, store.NotFound("card")
	}
	c := cloneCard(rec.card)
	return &c, nil
}

func (r *CardRepository) List(_ context.Context) ([]entity.Card, error) {
	r.s.mu.RLock()
	recs := make([]cardRecord, 0, len(r.s.cards))
	for _, rec := range r.s.cards {
		rec.card = cloneCard(rec.card)
		recs = append(recs, rec)
	}
	r.s.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	out := make([]entity.Card, len(recs))
	for i, rec := range recs {
		out[i] = rec.card
	}
	return out, nil
}

func (r *CardRepository) Delete(_ context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return store.NotFound("card")
	}
	delete(s.cards, id)
	return nil
}

func (r *CardRepository) DeleteByOwner(_ context.Context, ownerID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.cards {
		if rec.card.Owner == ownerID {
			delete(s.cards, id)
		}
	}
	return nil
}

func (r *CardRepository) AddLike(_ context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(cardID, func(c *entity.Card) { c.AddLike(userID) })
}

func (r *CardRepository) RemoveLike(_ context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(cardID, func(c *entity.Card) { c.RemoveLike(userID) })
}

func (r *CardRepository) updateLikes(cardID string, fn func(*entity.Card)) (*entity.Card, error) {
	if err := store.CheckID("_id", cardID); err != nil {
		return nil, err
	}
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.cards[cardID]
	if !ok {
		return nil, store.NotFound("card")
	}
	// likes is replaced, never edited in place
	rec.card = cloneCard(rec.card)
	fn(&rec.card)
	s.cards[cardID] = rec
	c := cloneCard(rec.card)
	return &c, nil
}

func cloneCard(c entity.Card) entity.Card {
	c.Likes = slices.Clone(c.Likes)
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return c
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.CardRepository = (*CardRepository)(nil)
)
