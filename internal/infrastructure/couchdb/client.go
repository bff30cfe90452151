// Package couchdb stores users and cards in CouchDB through kivik.
package couchdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb" // registers the "couch" driver

	"github.com/oksasatya/mesto-api/internal/infrastructure/store"
)

const (
	usersDB  = "users"
	emailsDB = "user_emails"
	cardsDB  = "cards"

	maxConflictRetries = 5
)

var (
	errUnavailable = errors.New("couchdb: server did not answer ping")

	// ErrStillConflicting ends a read-modify-write that kept losing the
	// revision race. It has no HTTP status and translates to Internal.
	ErrStillConflicting = errors.New("couchdb: document kept changing")
)

// Client owns the kivik connection and the three databases the repositories
// use. Database names carry prefix.
type Client struct {
	kc     *kivik.Client
	users  *kivik.DB
	emails *kivik.DB
	cards  *kivik.DB
}

// Open connects to dsn and creates missing databases. Use it as the dial
// function of a store.Connector.
func Open(ctx context.Context, dsn, prefix string) (*Client, error) {
	kc, err := kivik.New("couch", dsn)
	if err != nil {
		return nil, err
	}
	ok, err := kc.Ping(ctx)
	if err == nil && !ok {
		err = errUnavailable
	}
	if err != nil {
		_ = kc.Close()
		return nil, err
	}

	c := &Client{kc: kc}
	for _, t := range []struct {
		name string
		db   **kivik.DB
	}{
		{prefix + usersDB, &c.users},
		{prefix + emailsDB, &c.emails},
		{prefix + cardsDB, &c.cards},
	} {
		if err := ensureDB(ctx, kc, t.name); err != nil {
			_ = kc.Close()
			return nil, err
		}
		*t.db = kc.DB(t.name)
	}
	return c, nil
}

func ensureDB(ctx context.Context, kc *kivik.Client, name string) error {
	exists, err := kc.DBExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	err = kc.CreateDB(ctx, name)
	// another instance may have won the race
	if kivik.HTTPStatus(err) == http.StatusPreconditionFailed {
		return nil
	}
	return err
}

func (c *Client) Users() *UserRepository { return &UserRepository{c: c} }
func (c *Client) Cards() *CardRepository { return &CardRepository{c: c} }

func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.kc.Ping(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errUnavailable
	}
	return nil
}

func (c *Client) Close() error {
	return c.kc.Close()
}

// normalize converts kivik errors into the store error types.
func normalize(err error, resource string, key string, value any) error {
	if err == nil {
		return nil
	}
	if isNormalized(err) {
		return err
	}
	switch kivik.HTTPStatus(err) {
	case http.StatusNotFound:
		return store.NotFound(resource)
	case http.StatusConflict:
		return &store.DuplicateKeyError{Key: key, Value: value, Err: err}
	case http.StatusBadRequest:
		s, _ := value.(string)
		return &store.CastError{Path: key, Value: s, Err: err}
	}
	return err
}

// isNormalized reports errors an op already mapped to store errors.
func isNormalized(err error) bool {
	var (
		dup    *store.DuplicateKeyError
		cast   *store.CastError
		schema *store.SchemaError
	)
	return errors.As(err, &dup) || errors.As(err, &cast) || errors.As(err, &schema) ||
		errors.Is(err, store.ErrDocumentNotFound)
}

func isConflict(err error) bool {
	return !isNormalized(err) && kivik.HTTPStatus(err) == http.StatusConflict
}

// retryOnConflict reruns a read-modify-write op while CouchDB reports a
// revision conflict. Other errors stop it at once.
func retryOnConflict(ctx context.Context, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 20 * time.Millisecond
	eb.MaxInterval = 500 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(eb, maxConflictRetries), ctx)
	err := backoff.Retry(func() error {
		err := op()
		if err != nil && !isConflict(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
	if isConflict(err) {
		return fmt.Errorf("%w after %d retries: %s", ErrStillConflicting, maxConflictRetries, err.Error())
	}
	return err
}
