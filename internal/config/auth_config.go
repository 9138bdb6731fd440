package config

import (
	"strconv"
	"time"
)

type AuthConfig interface {
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetBootstrapAdminEmail() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetJWTSecret returns the shared HMAC signing secret. The default is only
// suitable for local development.
func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-insecure-secret")
}

// GetAccessTokenExpiry keeps access tokens short lived: logout does not
// revoke them, so their TTL bounds the exposure window.
func (Auth) GetAccessTokenExpiry() time.Duration {
	return durationEnv("ACCESS_TOKEN_TTL_SECONDS", time.Hour)
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return durationEnv("REFRESH_TOKEN_TTL_SECONDS", 7*24*time.Hour)
}

func (Auth) GetBootstrapAdminEmail() string {
	return GetEnv("BOOTSTRAP_ADMIN_EMAIL", "admin@localhost")
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
