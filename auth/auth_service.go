package auth

import (
	"context"
	"time"

	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/pkg/errors"
)

// TokenPair is what a successful login or rotation hands back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // access token lifetime, seconds
}

// Repos holds the repository dependencies for the Service.
type Repos struct {
	Users         users.Repo
	RefreshTokens refresh.Repo
}

// Service implements login, refresh-token rotation, and logout on top of the
// token codec and store. It holds no per-request state.
type Service struct {
	repos     Repos
	codec     *token.Codec
	refresh   *refresh.Manager
	accessTTL time.Duration
	nowFunc   func() time.Time
}

type ServiceOption func(*Service)

// WithNowFunc sets the time source (primarily for testing)
func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

// WithAccessTokenTTL overrides the default one hour access lifetime. Logout
// never revokes access tokens, so this TTL is the only bound on their life.
func WithAccessTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.accessTTL = ttl
	}
}

func NewService(repos Repos, codec *token.Codec, refreshManager *refresh.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, errors.New("[NewService] RefreshTokens repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] codec is required")
	}
	if refreshManager == nil {
		return nil, errors.New("[NewService] refresh manager is required")
	}

	s := &Service{
		repos:     repos,
		codec:     codec,
		refresh:   refreshManager,
		accessTTL: time.Hour,
		nowFunc:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login checks the credentials and, when they hold, issues an access/refresh
// pair and persists the refresh row. Unknown email, wrong password, and a
// deactivated account all fail identically with ErrInvalidCredential.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, *users.User, error) {
	user, err := s.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		if ierrors.Is(err, ierrors.ErrNotFound) {
			return nil, nil, ierrors.ErrInvalidCredential
		}
		return nil, nil, ierrors.Storage(errors.Wrap(err, "auth.Service.Login GetByEmail"))
	}

	if !user.Active || !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ierrors.ErrInvalidCredential
	}

	pair, err := s.issuePair(ctx, user.ID, string(user.Role))
	if err != nil {
		return nil, nil, err
	}

	if err := s.repos.Users.SetLastLogin(ctx, user.ID, s.nowFunc()); err != nil {
		return nil, nil, ierrors.Storage(errors.Wrap(err, "auth.Service.Login SetLastLogin"))
	}

	return pair, user, nil
}

// Refresh rotates a refresh token: the presented token is redeemed (its row
// atomically removed) before the replacement pair is issued. Replaying the
// original token after a successful rotation fails.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	rec, err := s.refresh.Redeem(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if ierrors.Is(err, ierrors.ErrNotFound) {
			return nil, ierrors.ErrMissingSubject
		}
		return nil, ierrors.Storage(errors.Wrap(err, "auth.Service.Refresh GetByID"))
	}
	if !user.Active {
		return nil, ierrors.ErrInvalidCredential
	}

	return s.issuePair(ctx, user.ID, string(user.Role))
}

// Logout invalidates the presented refresh token. Idempotent: logging out
// with an already-revoked or unknown token succeeds. The access token is not
// revoked; its short TTL bounds the remaining exposure.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.refresh.Invalidate(ctx, rawToken)
}

func (s *Service) issuePair(ctx context.Context, userID, role string) (*TokenPair, error) {
	access, err := s.codec.Issue(userID, role, token.TypeAccess, s.accessTTL)
	if err != nil {
		return nil, errors.Wrap(err, "auth.Service issue access token")
	}

	refreshToken, err := s.refresh.Create(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

// AccessTokenTTL exposes the configured access lifetime for cookie max-age.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.accessTTL
}
