package application

import (
	"context"
	"io"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

// UserIndex is the full-text index over user profiles.
type UserIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	// Search returns matching user ids, best match first.
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// AvatarStore keeps uploaded avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// Publisher queues a JSON message for asynchronous processing.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
