package refresh

import (
	"context"
	"time"

	"github.com/google/uuid"
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/pkg/errors"
)

// Manager handles refresh token creation, redemption, and invalidation.
// A refresh token is valid only when its signature verifies, its typ claim is
// "refresh", it has not expired, and its store row still exists.
type Manager struct {
	repo    Repo
	codec   *token.Codec
	ttl     time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the time source (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithTTL overrides the default seven day refresh lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func NewManager(repo Repo, codec *token.Codec, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		codec:   codec,
		ttl:     7 * 24 * time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Create issues a new signed refresh token and persists its row. Called once
// per login and once per successful rotation.
func (m *Manager) Create(ctx context.Context, userID, role string) (string, error) {
	raw, err := m.codec.Issue(userID, role, token.TypeRefresh, m.ttl)
	if err != nil {
		return "", errors.Wrap(err, "refresh.Manager.Create issue")
	}

	now := m.nowFunc()
	rec := &StoredRefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     raw,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.repo.Save(ctx, rec); err != nil {
		return "", ierrors.Storage(errors.Wrap(err, "refresh.Manager.Create save"))
	}
	return raw, nil
}

// Redeem consumes a refresh token for rotation: it verifies the signed value,
// then atomically removes the backing row. The row removal is what defeats
// replay; a second Redeem of the same token finds no row and fails with
// ErrRevokedCredential even though the signature still verifies.
func (m *Manager) Redeem(ctx context.Context, rawToken string) (*StoredRefreshToken, error) {
	intro := m.codec.Verify(rawToken, token.TypeRefresh)
	if !intro.Active {
		return nil, ierrors.ErrInvalidCredential
	}

	rec, err := m.repo.Take(ctx, rawToken)
	if err != nil {
		return nil, ierrors.Storage(errors.Wrap(err, "refresh.Manager.Redeem take"))
	}
	if rec == nil {
		return nil, ierrors.ErrRevokedCredential
	}
	return rec, nil
}

// Invalidate revokes a refresh token. Idempotent, so a retried logout stays
// safe.
func (m *Manager) Invalidate(ctx context.Context, rawToken string) error {
	if err := m.repo.Invalidate(ctx, rawToken); err != nil {
		return ierrors.Storage(errors.Wrap(err, "refresh.Manager.Invalidate"))
	}
	return nil
}
