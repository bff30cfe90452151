package couchdb

import (
	"context"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/go-kivik/kivik/v4"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

type cardDoc struct {
	ID        string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Owner     string    `json:"owner"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCardDoc(c *entity.Card, rev string) cardDoc {
	return cardDoc{
		ID: c.ID, Rev: rev, Name: c.Name, Link: c.Link,
		Owner: c.Owner, Likes: slices.Clone(c.Likes), CreatedAt: c.CreatedAt,
	}
}

func (d cardDoc) entity() *entity.Card {
	likes := slices.Clone(d.Likes)
	if likes == nil {
		likes = []string{}
	}
	return &entity.Card{
		ID: d.ID, Name: d.Name, Link: d.Link,
		Owner: d.Owner, Likes: likes, CreatedAt: d.CreatedAt,
	}
}

type CardRepository struct {
	c *Client
}

func (r *CardRepository) Create(ctx context.Context, c *entity.Card) error {
	if err := store.Validate(c); err != nil {
		return err
	}
	c.ID = store.NewID()
	c.CreatedAt = time.Now().UTC()
	if c.Likes == nil {
		c.Likes = []string{}
	}
	if _, err := r.c.cards.Put(ctx, c.ID, toCardDoc(c, "")); err != nil {
		id := c.ID
		c.ID = ""
		return normalize(err, "card", "_id", id)
	}
	return nil
}

func (r *CardRepository) get(ctx context.Context, id string) (cardDoc, error) {
	var d cardDoc
	if err := r.c.cards.Get(ctx, id).ScanDoc(&d); err != nil {
		return d, normalize(err, "card", "_id", id)
	}
	return d, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*entity.Card, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	d, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.entity(), nil
}

func (r *CardRepository) all(ctx context.Context) ([]cardDoc, error) {
	rs := r.c.cards.AllDocs(ctx, kivik.Param("include_docs", true))
	defer func() { _ = rs.Close() }()

	var out []cardDoc
	for rs.Next() {
		id, err := rs.ID()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(id, "_design/") {
			continue
		}
		var d cardDoc
		if err := rs.ScanDoc(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rs.Err(); err != nil {
		return nil, normalize(err, "card", "", nil)
	}
	return out, nil
}

func (r *CardRepository) List(ctx context.Context) ([]entity.Card, error) {
	docs, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	out := make([]entity.Card, len(docs))
	for i, d := range docs {
		out[i] = *d.entity()
	}
	return out, nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	err := retryOnConflict(ctx, func() error {
		cur, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		_, err = r.c.cards.Delete(ctx, id, cur.Rev)
		return err
	})
	return normalize(err, "card", "_id", id)
}

func (r *CardRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	docs, err := r.all(ctx)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.Owner != ownerID {
			continue
		}
		if _, err := r.c.cards.Delete(ctx, d.ID, d.Rev); err != nil && kivik.HTTPStatus(err) != http.StatusNotFound {
			return normalize(err, "card", "_id", d.ID)
		}
	}
	return nil
}

func (r *CardRepository) AddLike(ctx context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(ctx, cardID, func(c *entity.Card) bool { return c.AddLike(userID) })
}

func (r *CardRepository) RemoveLike(ctx context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(ctx, cardID, func(c *entity.Card) bool { return c.RemoveLike(userID) })
}

// updateLikes applies fn to the latest revision and writes it back, retrying
// when another writer got there first. A no-op change skips the write.
func (r *CardRepository) updateLikes(ctx context.Context, cardID string, fn func(*entity.Card) bool) (*entity.Card, error) {
	if err := store.CheckID("_id", cardID); err != nil {
		return nil, err
	}
	var out *entity.Card
	err := retryOnConflict(ctx, func() error {
		cur, err := r.get(ctx, cardID)
		if err != nil {
			return err
		}
		c := cur.entity()
		if !fn(c) {
			out = c
			return nil
		}
		if _, err := r.c.cards.Put(ctx, cardID, toCardDoc(c, cur.Rev)); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, normalize(err, "card", "_id", cardID)
	}
	return out, nil
}

var _ repository.CardRepository = (*CardRepository)(nil)
