package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/rs/zerolog/log"
)

// Bootstrap seeds the administrative account when the user store is empty,
// so a fresh deployment is never locked out of the admin surface. Returns
// the generated password on first creation (empty string if users exist).
func (s *Server) Bootstrap(ctx context.Context) (generatedPassword string, err error) {
	existing, err := s.users.List(ctx, 0, 1)
	if err != nil {
		return "", fmt.Errorf("bootstrap: list users: %w", err)
	}
	if len(existing) > 0 {
		return "", nil
	}

	generatedPassword, err = generatePassword(18)
	if err != nil {
		return "", fmt.Errorf("bootstrap: generate password: %w", err)
	}

	passwordHash, err := users.HashPassword(generatedPassword)
	if err != nil {
		return "", fmt.Errorf("bootstrap: hash password: %w", err)
	}

	email := s.config.GetBootstrapAdminEmail()
	admin := &users.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         "Administrator",
		Role:         permissions.RoleAdmin,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Upsert(ctx, admin); err != nil {
		return "", fmt.Errorf("bootstrap: create admin: %w", err)
	}

	log.Info().Str("email", email).Msg("bootstrap: created administrator account")
	log.Info().Msgf("bootstrap: admin password: %s (shown once, change it after first login)", generatedPassword)
	return generatedPassword, nil
}

func generatePassword(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
