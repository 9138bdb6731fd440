package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
	refreshrepofake "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh/repofake"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	userrepofake "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testSecret       = "test-secret-1234"
	testUserID       = "user-1"
	testUserEmail    = "joao.silva@example.com"
	testUserPassword = "password123"
)

type testFixture struct {
	userRepo    *userrepofake.FakeUserRepo
	refreshRepo *refreshrepofake.FakeRefreshTokenRepo
	codec       *token.Codec
	service     *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := userrepofake.NewFakeUserRepo()
	rr := refreshrepofake.NewFakeRefreshTokenRepo()
	codec := token.NewCodec(token.NewHMACSigner(testSecret))

	service, err := auth.NewService(
		auth.Repos{Users: ur, RefreshTokens: rr},
		codec,
		refresh.NewManager(rr, codec),
	)
	require.NoError(t, err)

	return &testFixture{
		userRepo:    ur,
		refreshRepo: rr,
		codec:       codec,
		service:     service,
	}
}

func (f *testFixture) createTestUser(t *testing.T, active bool) *users.User {
	t.Helper()

	hash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)

	user := &users.User{
		ID:           testUserID,
		Email:        testUserEmail,
		Name:         "Joao Silva",
		Role:         permissions.RoleTechnician,
		PasswordHash: hash,
		Active:       active,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.userRepo.Upsert(context.Background(), user))
	return user
}

func TestLogin_Success(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, user, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)
	require.Equal(t, testUserID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, 3600, pair.ExpiresIn)

	intro := f.codec.Verify(pair.AccessToken, token.TypeAccess)
	require.True(t, intro.Active)
	require.Equal(t, testUserID, intro.UserID)
	require.Equal(t, string(permissions.RoleTechnician), intro.Role)

	stored, err := f.userRepo.GetByID(ctx, testUserID)
	require.NoError(t, err)
	require.False(t, stored.LastLogin.IsZero())
}

func TestLogin_WrongPassword(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)

	_, _, err := f.service.Login(context.Background(), testUserEmail, "wrong-password")
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)

	_, _, err := f.service.Login(context.Background(), "nobody@example.com", testUserPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestLogin_InactiveUser(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, false)

	_, _, err := f.service.Login(context.Background(), testUserEmail, testUserPassword)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	rotated, err := f.service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The presented token was consumed; replaying it fails.
	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrRevokedCredential)

	// The replacement still works.
	_, err = f.service.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_DeletedUser(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.userRepo.Delete(ctx, testUserID))

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrMissingSubject)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	user.Active = false
	require.NoError(t, f.userRepo.Upsert(ctx, user))

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestRefresh_InvalidToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, pair.RefreshToken))

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, auth.ErrRevokedCredential)

	// Access tokens are not revoked; the TTL bounds their life.
	intro := f.codec.Verify(pair.AccessToken, token.TypeAccess)
	require.True(t, intro.Active)
}

func TestLogout_Idempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, pair.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, pair.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, ""))
}

func TestRefresh_StorageFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, true)
	ctx := context.Background()

	pair, _, err := f.service.Login(ctx, testUserEmail, testUserPassword)
	require.NoError(t, err)

	f.refreshRepo.FailWith = errors.New("connection reset")

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ierrors.ErrStorageFailure)
}
