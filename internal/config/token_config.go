package config

import "time"

type TokenConfig interface {
	GetJWTSecret() string
	GetJWTIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type Token struct {
	Secret        string        `env:"JWT_SECRET"`
	Issuer        string        `env:"JWT_ISSUER" envDefault:"ghub-api"`
	AccessExpiry  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshExpiry time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

var _ TokenConfig = Token{}

func (t Token) GetJWTSecret() string {
	return t.Secret
}

func (t Token) GetJWTIssuer() string {
	return t.Issuer
}

func (t Token) GetAccessTokenExpiry() time.Duration {
	if t.AccessExpiry <= 0 {
		return 1 * time.Hour
	}
	return t.AccessExpiry
}

func (t Token) GetRefreshTokenExpiry() time.Duration {
	if t.RefreshExpiry <= 0 {
		return 7 * 24 * time.Hour // 7 days
	}
	return t.RefreshExpiry
}
