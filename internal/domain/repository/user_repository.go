package repository

import (
	"context"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related persistence.
// Implementations report failures with the low-level error types of the store
// package so callers can translate them uniformly.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail returns the user including its password hash.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
