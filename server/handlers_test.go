package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/features"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/config"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/server"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/session"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
	refreshrepofake "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh/repofake"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	userrepofake "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail   = "admin@example.com"
	testViewerEmail  = "viewer@example.com"
	testUserPassword = "password123"
)

type testFixture struct {
	cfg      config.Config
	userRepo *userrepofake.FakeUserRepo
	codec    *token.Codec
	server   *server.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	cfg := config.New()
	ur := userrepofake.NewFakeUserRepo()
	rr := refreshrepofake.NewFakeRefreshTokenRepo()
	registry := features.NewStaticRegistry()
	codec := token.NewCodec(token.NewHMACSigner(cfg.GetJWTSecret()))
	manager := refresh.NewManager(rr, codec)

	authService, err := auth.NewService(auth.Repos{Users: ur, RefreshTokens: rr}, codec, manager)
	require.NoError(t, err)
	resolver, err := session.NewResolver(codec, ur, permissions.NewModel(), registry, registry)
	require.NoError(t, err)

	srv, err := server.New(cfg, server.Deps{
		Auth:     authService,
		Sessions: resolver,
		Codec:    codec,
		Perms:    permissions.NewModel(),
		Users:    ur,
	})
	require.NoError(t, err)

	return &testFixture{cfg: cfg, userRepo: ur, codec: codec, server: srv}
}

func (f *testFixture) createTestUser(t *testing.T, id, email string, role permissions.Role) {
	t.Helper()

	hash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Upsert(context.Background(), &users.User{
		ID:           id,
		Email:        email,
		Name:         "Test User",
		Role:         role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now(),
	}))
}

func (f *testFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) login(t *testing.T, email, password string) (auth.TokenPair, *httptest.ResponseRecorder) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, server.RouteAuthLogin, bytes.NewReader(body))
	rec := f.do(req)

	var pair auth.TokenPair
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	}
	return pair, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLoginThenSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthSession, nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	perms, ok := body["permissions"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, perms)
	require.Equal(t, true, perms["incidents:view"])
	require.Equal(t, false, perms["users:manage"])
	require.NotEmpty(t, body["activeModules"])
}

func TestLogin_BadCredentials(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	_, rec := f.login(t, testViewerEmail, "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	_, rec = f.login(t, "nobody@example.com", testUserPassword)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_ExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	expired, err := f.codec.Issue("user-1", string(permissions.RoleViewer), token.TypeAccess, -1*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthSession, nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_DeletedUser(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, f.userRepo.Delete(context.Background(), "user-1"))

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthSession, nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = f.do(req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh_RotationAndReplay(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rotated auth.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token fails even though its signature verifies.
	req = httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_TokenFromCookie(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil)
	req.AddCookie(&http.Cookie{Name: f.cfg.GetRefreshCookieName(), Value: pair.RefreshToken})
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_NoToken(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, nil)
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, server.RouteAuthLogout, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Second logout with the same (now dead) token still succeeds.
	req = httptest.NewRequest(http.MethodPost, server.RouteAuthLogout, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// And so does a logout with no token at all.
	req = httptest.NewRequest(http.MethodPost, server.RouteAuthLogout, nil)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The refresh token really is dead.
	req = httptest.NewRequest(http.MethodPost, server.RouteAuthRefresh, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_RequiresAuth(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthMe, nil)
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, server.RouteAuthMe, nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "user-1", body["id"])
	require.Equal(t, testViewerEmail, body["email"])
}

func TestAdminUsers_CapabilityGate(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)
	f.createTestUser(t, "user-2", testAdminEmail, permissions.RoleAdmin)

	viewerPair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, server.RouteAdminUsers, nil)
	req.Header.Set("Authorization", "Bearer "+viewerPair.AccessToken)
	rec = f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminPair, rec := f.login(t, testAdminEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, server.RouteAdminUsers, nil)
	req.Header.Set("Authorization", "Bearer "+adminPair.AccessToken)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []*users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
}

func TestBearerToken_HeaderPrecedence(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	// A malformed Authorization header is not recovered from by falling back
	// to the cookie.
	req := httptest.NewRequest(http.MethodGet, server.RouteAuthSession, nil)
	req.Header.Set("Authorization", "Basic something")
	req.AddCookie(&http.Cookie{Name: f.cfg.GetAccessCookieName(), Value: pair.AccessToken})
	rec = f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// With no header at all, the access cookie serves.
	req = httptest.NewRequest(http.MethodGet, server.RouteAuthSession, nil)
	req.AddCookie(&http.Cookie{Name: f.cfg.GetAccessCookieName(), Value: pair.AccessToken})
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_SetsCookies(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	_, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c
	}

	access, ok := byName[f.cfg.GetAccessCookieName()]
	require.True(t, ok)
	require.NotEmpty(t, access.Value)

	refreshCookie, ok := byName[f.cfg.GetRefreshCookieName()]
	require.True(t, ok)
	require.True(t, refreshCookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, refreshCookie.SameSite)
}

func TestLogout_ClearsCookies(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestUser(t, "user-1", testViewerEmail, permissions.RoleViewer)

	pair, rec := f.login(t, testViewerEmail, testUserPassword)
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := json.Marshal(map[string]string{"refreshToken": pair.RefreshToken})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, server.RouteAuthLogout, bytes.NewReader(body))
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		require.Empty(t, c.Value, "cookie %s not cleared", c.Name)
		require.Negative(t, c.MaxAge)
	}
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteHealth, nil)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	f := setupTestFixture(t)

	req := httptest.NewRequest(http.MethodGet, server.RouteAuthLogin, nil)
	rec := f.do(req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
