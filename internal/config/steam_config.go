package config

import "time"

type SteamConfig interface {
	GetSteamCallbackURL() string
	GetSteamCompleteURL() string
	GetSteamAPIKey() string
	GetSteamOpenIDURL() string
	GetSteamAPIURL() string
	GetHTTPClientTimeout() time.Duration
}

// Steam holds the Steam OpenID and Web API settings.
// CallbackURL and APIKey are optional at startup; the flow fails per request when they are missing.
type Steam struct {
	CallbackURL       string        `env:"STEAM_CALLBACK_URL"`
	CompleteURL       string        `env:"STEAM_COMPLETE_URL"`
	APIKey            string        `env:"STEAM_API_KEY"`
	OpenIDURL         string        `env:"STEAM_OPENID_URL" envDefault:"https://steamcommunity.com/openid/login"`
	APIURL            string        `env:"STEAM_API_URL" envDefault:"https://api.steampowered.com"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
}

var _ SteamConfig = Steam{}

const defaultCompleteURL = "http://localhost:3000/auth/complete"

func (s Steam) GetSteamCallbackURL() string {
	return s.CallbackURL
}

// GetSteamCompleteURL falls back to the local completion page when unset
func (s Steam) GetSteamCompleteURL() string {
	if s.CompleteURL == "" {
		return defaultCompleteURL
	}
	return s.CompleteURL
}

func (s Steam) GetSteamAPIKey() string {
	return s.APIKey
}

func (s Steam) GetSteamOpenIDURL() string {
	return s.OpenIDURL
}

func (s Steam) GetSteamAPIURL() string {
	return s.APIURL
}

func (s Steam) GetHTTPClientTimeout() time.Duration {
	if s.HTTPClientTimeout <= 0 {
		return 10 * time.Second
	}
	return s.HTTPClientTimeout
}
