package config

import "time"

type StorageConfig interface {
	GetDatabaseURL() string
	GetQueryTimeout() time.Duration
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetDatabaseURL returns the Postgres connection string. Empty means the
// server runs on in-memory repositories (development mode).
func (Storage) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

func (Storage) GetQueryTimeout() time.Duration {
	return durationEnv("DB_QUERY_TIMEOUT_SECONDS", 5*time.Second)
}
