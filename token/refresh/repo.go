package refresh

import (
	"context"
	"time"
)

// StoredRefreshToken is the server-side row backing a refresh token. The
// signature on the token value is not sufficient on its own: the row is the
// authority, and a token whose row is gone is revoked even if the signature
// still verifies.
type StoredRefreshToken struct {
	ID        string
	UserID    string
	Token     string // the signed value handed to the client
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repo is the durable record of live refresh tokens.
//
// Validate and Take treat expired rows as absent even when they have not been
// purged yet; purging is an external concern. Take must be atomic
// (delete-and-return) so that two refresh attempts racing on the same token
// can never both observe it as valid.
type Repo interface {
	Save(ctx context.Context, rec *StoredRefreshToken) error

	// Validate returns the live row for the token, or nil when the row is
	// absent or expired.
	Validate(ctx context.Context, token string) (*StoredRefreshToken, error)

	// Take atomically removes and returns the live row for the token; nil
	// when absent or expired. Only one caller in a race wins.
	Take(ctx context.Context, token string) (*StoredRefreshToken, error)

	// Invalidate deletes the row. Idempotent: deleting a token that has no
	// row is not an error.
	Invalidate(ctx context.Context, token string) error
}
