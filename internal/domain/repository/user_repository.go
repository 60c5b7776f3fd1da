package repository

import (
	"context"
	"errors"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a delete is blocked by dependent records.
	ErrReferenced = errors.New("record is referenced")
)

// UserRepository defines the interface for user-related database operations.
// Emails passed in are already normalized.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
