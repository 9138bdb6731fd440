package config

type Config interface {
	EnvConfig
	AuthConfig
	CookieConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetAllowedOrigins() []string
}

type mainConfig struct {
	EnvVars
	Auth
	Cookies
	Storage
}

func New() Config {
	return mainConfig{}
}
