package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

const userColumns = `id, email, password_hash, name, about, avatar, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.About, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := store.Validate(u); err != nil {
		return err
	}
	u.ID = store.NewID()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, about, avatar)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Password, u.Name, u.About, u.Avatar)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		u.ID = ""
		return normalize(err, "user", u.Email)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, normalize(err, "user", id)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, strings.ToLower(email)))
	if err != nil {
		return nil, normalize(err, "user", email)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, normalize(err, "user", nil)
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, normalize(rows.Err(), "user", nil)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := store.CheckID("_id", u.ID); err != nil {
		return err
	}
	if err := store.Validate(u); err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, about = $4, avatar = $5, updated_at = $6
		WHERE id = $7
		RETURNING created_at, updated_at
	`, u.Email, u.Password, u.Name, u.About, u.Avatar, time.Now().UTC(), u.ID)
	return normalize(row.Scan(&u.CreatedAt, &u.UpdatedAt), "user", u.Email)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return normalize(err, "user", id)
	}
	if res.RowsAffected() == 0 {
		return store.NotFound("user")
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
