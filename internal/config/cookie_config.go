package config

type CookieConfig interface {
	GetAccessCookieName() string
	GetRefreshCookieName() string
}

type Cookies struct{}

var _ CookieConfig = Cookies{}

func (Cookies) GetAccessCookieName() string {
	return GetEnv("ACCESS_COOKIE_NAME", "access_token")
}

func (Cookies) GetRefreshCookieName() string {
	return GetEnv("REFRESH_COOKIE_NAME", "refresh_token")
}
