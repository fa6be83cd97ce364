package platforms

// AuthType is the sign-in protocol a platform uses
type AuthType string

const (
	AuthTypeOpenID AuthType = "openid"
	AuthTypeOAuth2 AuthType = "oauth2"
)

// ColorScheme is the brand palette the client renders a platform with
type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Endpoints lists the upstream APIs of a platform
type Endpoints struct {
	BaseURL      string `json:"baseUrl"`
	Auth         string `json:"auth"`
	UserProfile  string `json:"userProfile"`
	GameLibrary  string `json:"gameLibrary"`
	Achievements string `json:"achievements"`
	FriendsList  string `json:"friendsList,omitempty"`
	GameStats    string `json:"gameStats,omitempty"`
}

// AuthConfig describes what the client needs to start a sign-in
type AuthConfig struct {
	Type             AuthType `json:"type"`
	ClientIDRequired bool     `json:"clientIdRequired"`
	SecretRequired   bool     `json:"secretRequired"`
	RedirectURI      string   `json:"redirectUri"`
	Scopes           []string `json:"scopes"`
}

// Features flags the data a platform integration can provide
type Features struct {
	GameLibrary  bool `json:"gameLibrary"`
	Achievements bool `json:"achievements"`
	FriendsList  bool `json:"friendsList"`
	GameStats    bool `json:"gameStats"`
	Screenshots  bool `json:"screenshots"`
	GameTime     bool `json:"gameTime"`
}

// Platform is one entry of the gaming platform catalog
type Platform struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description"`
	LogoURL     string      `json:"logoUrl"`
	ColorScheme ColorScheme `json:"colorScheme"`
	Endpoints   Endpoints   `json:"endpoints"`
	AuthConfig  AuthConfig  `json:"authConfig"`
	Features    Features    `json:"features"`
	IsEnabled   bool        `json:"isEnabled"`
	ComingSoon  bool        `json:"comingSoon"`
	Priority    int         `json:"priority"`
}

func (p Platform) clone() Platform {
	p.AuthConfig.Scopes = append([]string{}, p.AuthConfig.Scopes...)
	return p
}
