package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

const cardColumns = `id, name, link, owner, likes, created_at`

type CardRepository struct {
	pool *pgxpool.Pool
}

func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

func scanCard(row pgx.Row) (*entity.Card, error) {
	c := &entity.Card{}
	if err := row.Scan(&c.ID, &c.Name, &c.Link, &c.Owner, &c.Likes, &c.CreatedAt); err != nil {
		return nil, err
	}
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return c, nil
}

func (r *CardRepository) Create(ctx context.Context, c *entity.Card) error {
	if err := store.Validate(c); err != nil {
		return err
	}
	if err := store.CheckID("owner", c.Owner); err != nil {
		return err
	}
	c.ID = store.NewID()
	if c.Likes == nil {
		c.Likes = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO cards (id, name, link, owner)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, c.ID, c.Name, c.Link, c.Owner)
	if err := row.Scan(&c.CreatedAt); err != nil {
		c.ID = ""
		return normalize(err, "card", c.Owner)
	}
	return nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*entity.Card, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	c, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return nil, normalize(err, "card", id)
	}
	return c, nil
}

func (r *CardRepository) List(ctx context.Context) ([]entity.Card, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, normalize(err, "card", nil)
	}
	defer rows.Close()

	out := []entity.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, normalize(rows.Err(), "card", nil)
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return normalize(err, "card", id)
	}
	if res.RowsAffected() == 0 {
		return store.NotFound("card")
	}
	return nil
}

func (r *CardRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := store.CheckID("owner", ownerID); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE owner = $1`, ownerID)
	return normalize(err, "card", ownerID)
}

// AddLike appends userID unless present. The row lock taken by UPDATE
// serialises concurrent likes on the same card.
func (r *CardRepository) AddLike(ctx context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(ctx, cardID, userID, `
		UPDATE cards
		SET likes = CASE WHEN $2 = ANY(likes) THEN likes ELSE array_append(likes, $2) END
		WHERE id = $1
		RETURNING `+cardColumns)
}

func (r *CardRepository) RemoveLike(ctx context.Context, cardID, userID string) (*entity.Card, error) {
	return r.updateLikes(ctx, cardID, userID, `
		UPDATE cards SET likes = array_remove(likes, $2) WHERE id = $1
		RETURNING `+cardColumns)
}

func (r *CardRepository) updateLikes(ctx context.Context, cardID, userID, query string) (*entity.Card, error) {
	if err := store.CheckID("_id", cardID); err != nil {
		return nil, err
	}
	if err := store.CheckID("likes", userID); err != nil {
		return nil, err
	}
	c, err := scanCard(r.pool.QueryRow(ctx, query, cardID, userID))
	if err != nil {
		return nil, normalize(err, "card", cardID)
	}
	return c, nil
}

var _ repository.CardRepository = (*CardRepository)(nil)
