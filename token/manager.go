package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/ghub-api/internal/config"
	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	PlatformSteam = "steam"
)

// Subject is the verified user a credential is issued for
type Subject struct {
	SteamID  string
	Username string
	Avatar   string
}

// Issuer produces the bearer credentials handed to the client after a successful login
type Issuer interface {
	IssueCredential(subject Subject) (*oauth2.Token, error)
}

// Introspection is the result of validating a token
type Introspection struct {
	Active    bool      `json:"valid"`
	SteamID   string    `json:"steamId,omitempty"`
	Username  string    `json:"username,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	TokenType string    `json:"tokenType,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Manager issues and validates HS256 JWT access/refresh pairs
type Manager struct {
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	access        Signer
	refresh       Signer
	nowTime       func() time.Time
}

var _ Issuer = (*Manager)(nil)

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager creates a token manager. An empty JWT secret is replaced by a
// random per-process secret, so issued tokens do not survive a restart.
func NewManager(cfg config.TokenConfig, options ...ManagerOption) (*Manager, error) {
	secret := []byte(cfg.GetJWTSecret())
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("[token NewManager] failed to generate secret: %w", err)
		}
		log.Warn().Msg("JWT_SECRET not set, using a random secret for this process")
	}

	access, err := DeriveHMACSigner(secret, TypeAccess)
	if err != nil {
		return nil, fmt.Errorf("[token NewManager] %w", err)
	}
	refresh, err := DeriveHMACSigner(secret, TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("[token NewManager] %w", err)
	}

	m := &Manager{
		issuer:        cfg.GetJWTIssuer(),
		accessExpiry:  cfg.GetAccessTokenExpiry(),
		refreshExpiry: cfg.GetRefreshTokenExpiry(),
		access:        access,
		refresh:       refresh,
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// IssueCredential signs an access token and a refresh token for subject
func (m *Manager) IssueCredential(subject Subject) (*oauth2.Token, error) {
	if subject.SteamID == "" {
		return nil, fmt.Errorf("%w: empty subject", apperrors.ErrCredentialIssue)
	}

	now := m.nowTime()
	accessToken, err := m.access.Sign(m.claims(subject, TypeAccess, now, m.accessExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCredentialIssue, err)
	}
	refreshToken, err := m.refresh.Sign(m.claims(subject, TypeRefresh, now, m.refreshExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCredentialIssue, err)
	}

	return &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
		Expiry:       now.Add(m.accessExpiry),
		ExpiresIn:    int64(m.accessExpiry.Seconds()),
	}, nil
}

// ValidateAccessToken verifies an access token's signature, issuer, type and expiry
func (m *Manager) ValidateAccessToken(rawToken string) (*Introspection, error) {
	return m.validate(rawToken, TypeAccess, m.access)
}

// ValidateRefreshToken verifies a refresh token
func (m *Manager) ValidateRefreshToken(rawToken string) (*Introspection, error) {
	return m.validate(rawToken, TypeRefresh, m.refresh)
}

func (m *Manager) validate(rawToken, tokenType string, signer Signer) (*Introspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &Introspection{Active: false}, fmt.Errorf("%w: empty token", apperrors.ErrInvalidToken)
	}

	claims := jwtlib.MapClaims{}
	parsed, err := jwtlib.ParseWithClaims(rawToken, claims, signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(m.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(m.nowTime),
	)
	if err != nil || !parsed.Valid {
		return &Introspection{Active: false}, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	if typ, _ := claims["typ"].(string); typ != tokenType {
		return &Introspection{Active: false}, fmt.Errorf("%w: not an %s token", apperrors.ErrInvalidToken, tokenType)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return &Introspection{Active: false}, errors.Join(apperrors.ErrInvalidToken, err)
	}

	out := &Introspection{
		Active:    true,
		SteamID:   sub,
		TokenType: tokenType,
	}
	out.Username, _ = claims["username"].(string)
	out.Avatar, _ = claims["avatar"].(string)
	out.Platform, _ = claims["platform"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func (m *Manager) claims(subject Subject, tokenType string, now time.Time, expiry time.Duration) jwtlib.MapClaims {
	return jwtlib.MapClaims{
		"iss":      m.issuer,               // The issuer of the token
		"sub":      subject.SteamID,        // 64-bit Steam id
		"username": subject.Username,       // Steam persona name
		"avatar":   subject.Avatar,         // Full size avatar URL
		"platform": PlatformSteam,          // Gaming platform the identity belongs to
		"typ":      tokenType,              // access | refresh
		"iat":      now.Unix(),             // Issued At
		"exp":      now.Add(expiry).Unix(), // Expiry
		"jti":      uuid.New().String(),    // Unique token ID
	}
}
