// Package openid implements the relying party side of Steam's OpenID 2.0 login:
// building the checkid_setup redirect, validating the positive assertion sent back
// to the callback, and confirming it with a check_authentication round trip.
package openid

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
)

const (
	Namespace        = "http://specs.openid.net/auth/2.0"
	IdentifierSelect = Namespace + "/identifier_select"

	ModeCheckIDSetup        = "checkid_setup"
	ModeIDRes               = "id_res"
	ModeCheckAuthentication = "check_authentication"

	// DefaultEndpoint is Steam's OpenID provider endpoint for both login and verification
	DefaultEndpoint = "https://steamcommunity.com/openid/login"

	// Query parameters carried inside openid.return_to
	ParamSessionID = "session_id"
	ParamState     = "state"
)

// AuthURL composes the provider redirect for a new login attempt.
// returnTo must already carry the session id and state.
func AuthURL(endpoint, returnTo string) (string, error) {
	realm, err := Realm(returnTo)
	if err != nil {
		return "", err
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	params := url.Values{}
	params.Set("openid.ns", Namespace)
	params.Set("openid.mode", ModeCheckIDSetup)
	params.Set("openid.return_to", returnTo)
	params.Set("openid.realm", realm)
	params.Set("openid.identity", IdentifierSelect)
	params.Set("openid.claimed_id", IdentifierSelect)

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode(), nil
}

// ReturnTo appends the session id and state to the public callback URL
func ReturnTo(callbackURL, sessionID, state string) (string, error) {
	u, err := url.Parse(callbackURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: invalid callback url %q", apperrors.ErrConfiguration, callbackURL)
	}
	q := u.Query()
	q.Set(ParamState, state)
	q.Set(ParamSessionID, sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Realm is the origin (scheme://host[:port]) of the return URL
func Realm(returnTo string) (string, error) {
	u, err := url.Parse(returnTo)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: invalid return url %q", apperrors.ErrConfiguration, returnTo)
	}
	return u.Scheme + "://" + u.Host, nil
}

// SessionParams extracts the session id and state the server embedded in openid.return_to.
func SessionParams(returnTo string) (sessionID, state string, err error) {
	if returnTo == "" {
		return "", "", fmt.Errorf("%w: missing openid.return_to", apperrors.ErrInvalidSession)
	}
	u, err := url.Parse(returnTo)
	if err != nil {
		return "", "", fmt.Errorf("%w: unparseable openid.return_to", apperrors.ErrInvalidSession)
	}
	q := u.Query()
	sessionID = q.Get(ParamSessionID)
	if sessionID == "" {
		return "", "", fmt.Errorf("%w: return_to has no session id", apperrors.ErrInvalidSession)
	}
	return sessionID, q.Get(ParamState), nil
}

// CheckReturnTo rejects an openid.return_to that does not point at callbackURL.
// Scheme and host compare case-insensitively and the path exactly; the query is
// not compared since it carries the per-session parameters.
func CheckReturnTo(returnTo, callbackURL string) error {
	want, err := url.Parse(callbackURL)
	if err != nil || want.Scheme == "" || want.Host == "" {
		return fmt.Errorf("%w: invalid callback url %q", apperrors.ErrConfiguration, callbackURL)
	}
	got, err := url.Parse(returnTo)
	if err != nil {
		return fmt.Errorf("%w: unparseable openid.return_to", apperrors.ErrInvalidCallback)
	}
	if !strings.EqualFold(got.Scheme, want.Scheme) ||
		!strings.EqualFold(got.Host, want.Host) ||
		normalizedPath(got) != normalizedPath(want) {
		return fmt.Errorf("%w: return_to %s://%s%s is not this server's callback",
			apperrors.ErrInvalidCallback, got.Scheme, got.Host, got.EscapedPath())
	}
	return nil
}

func normalizedPath(u *url.URL) string {
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

var steamIDPattern =regexp.MustCompile(`/id/(\d+)$`)

// ExtractSteamID returns the 64-bit Steam id at the end of a claimed identity URL,
// e.g. https://steamcommunity.com/openid/id/76561197960287930
func ExtractSteamID(identity string) (string, error) {
	matches := steamIDPattern.FindStringSubmatch(identity)
	if len(matches) != 2 {
		return "", fmt.Errorf("%w: %q", apperrors.ErrIdentityExtraction, identity)
	}
	return matches[1], nil
}
