package users

import (
	"time"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string           `json:"id,omitempty"`    // Unique identifier for the user
	Email        string           `json:"email,omitempty"` // User's email address
	Name         string           `json:"name,omitempty"`  // Display name
	Role         permissions.Role `json:"role,omitempty"`  // Single role driving permission resolution
	PasswordHash string           `json:"-"`               // Hashed password - never serialize
	Active       bool             `json:"active,omitempty"`
	CreatedAt    time.Time        `json:"created_at,omitempty"`
	LastLogin    time.Time        `json:"last_login,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
