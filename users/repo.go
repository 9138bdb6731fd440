package users

import (
	"context"
	"time"
)

// Repo manages the user records the auth core reads. Lookups return
// internal/errors.ErrNotFound when no matching user exists.
type Repo interface {
	Upsert(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}
