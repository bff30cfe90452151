package couchdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-kivik/kivik/v4"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
	"github.com/oksasatya/mesto-api/internal/domain/repository"
	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

type userDoc struct {
	ID        string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	About     string    `json:"about"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// emailDoc reserves an address; its id is the lower-cased email.
type emailDoc struct {
	UserID string `json:"user_id"`
}

func toUserDoc(u *entity.User, rev string) userDoc {
	return userDoc{
		ID: u.ID, Rev: rev, Email: u.Email, Password: u.Password,
		Name: u.Name, About: u.About, Avatar: u.Avatar,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) entity() *entity.User {
	return &entity.User{
		ID: d.ID, Email: d.Email, Password: d.Password,
		Name: d.Name, About: d.About, Avatar: d.Avatar,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserRepository keeps users in one database and reserves their emails in a
// second one, since CouchDB has no secondary unique index.
type UserRepository struct {
	c *Client
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := store.Validate(u); err != nil {
		return err
	}
	id := store.NewID()
	key := emailKey(u.Email)
	// create-only put: an existing reservation answers 409
	if _, err := r.c.emails.Put(ctx, key, emailDoc{UserID: id}); err != nil {
		return normalize(err, "user", "email", u.Email)
	}

	now := time.Now().UTC()
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	if _, err := r.c.users.Put(ctx, id, toUserDoc(u, "")); err != nil {
		r.release(ctx, key)
		u.ID = ""
		return normalize(err, "user", "_id", id)
	}
	return nil
}

// release drops an email reservation; failures leave a stale reservation
// that only blocks re-use of that address.
func (r *UserRepository) release(ctx context.Context, key string) {
	rev, err := r.c.emails.GetRev(ctx, key)
	if err != nil {
		return
	}
	_, _ = r.c.emails.Delete(ctx, key, rev)
}

func (r *UserRepository) get(ctx context.Context, id string) (userDoc, error) {
	var d userDoc
	if err := r.c.users.Get(ctx, id).ScanDoc(&d); err != nil {
		return d, normalize(err, "user", "_id", id)
	}
	return d, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := store.CheckID("_id", id); err != nil {
		return nil, err
	}
	d, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.entity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var ed emailDoc
	if err := r.c.emails.Get(ctx, emailKey(email)).ScanDoc(&ed); err != nil {
		return nil, normalize(err, "user", "email", email)
	}
	d, err := r.get(ctx, ed.UserID)
	if err != nil {
		return nil, err
	}
	return d.entity(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rs := r.c.users.AllDocs(ctx, kivik.Param("include_docs", true))
	defer func() { _ = rs.Close() }()

	out := []entity.User{}
	for rs.Next() {
		id, err := rs.ID()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(id, "_design/") {
			continue
		}
		var d userDoc
		if err := rs.ScanDoc(&d); err != nil {
			return nil, err
		}
		out = append(out, *d.entity())
	}
	if err := rs.Err(); err != nil {
		return nil, normalize(err, "user", "", nil)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := store.CheckID("_id", u.ID); err != nil {
		return err
	}
	if err := store.Validate(u); err != nil {
		return err
	}
	var oldKey string
	err := retryOnConflict(ctx, func() error {
		cur, err := r.get(ctx, u.ID)
		if err != nil {
			return err
		}
		if oldKey == "" {
			oldKey = emailKey(cur.Email)
			if newKey := emailKey(u.Email); newKey != oldKey {
				if _, err := r.c.emails.Put(ctx, newKey, emailDoc{UserID: u.ID}); err != nil {
					return normalize(err, "user", "email", u.Email)
				}
			}
		}
		u.CreatedAt = cur.CreatedAt
		u.UpdatedAt = time.Now().UTC()
		_, err = r.c.users.Put(ctx, u.ID, toUserDoc(u, cur.Rev))
		return err
	})
	if err != nil {
		return normalize(err, "user", "_id", u.ID)
	}
	if newKey := emailKey(u.Email); oldKey != "" && newKey != oldKey {
		r.release(ctx, oldKey)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := store.CheckID("_id", id); err != nil {
		return err
	}
	var email string
	err := retryOnConflict(ctx, func() error {
		cur, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		email = cur.Email
		_, err = r.c.users.Delete(ctx, id, cur.Rev)
		return err
	})
	if err != nil {
		return normalize(err, "user", "_id", id)
	}
	r.release(ctx, emailKey(email))
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.c.Ping(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
