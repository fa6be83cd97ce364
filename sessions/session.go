package sessions

import (
	"time"

	"github.com/jrsteele09/ghub-api/steam"
	"golang.org/x/oauth2"
)

// Status is the lifecycle state of a login attempt
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// Session tracks one Steam login attempt between the redirect and the client's status polls.
// SteamID, Profile and Credentials are set only on success; FailureReason only on error.
type Session struct {
	ID            string         // Opaque key, embedded in the OpenID return URL
	State         string         // Anti-forgery token echoed back through return_to
	Status        Status         // pending -> success | error
	SteamID       string         // Verified 64-bit Steam id
	Profile       *steam.Profile // Normalized player summary
	Credentials   *oauth2.Token  // Access/refresh pair issued at success
	FailureReason string         // User facing cause
	CreatedAt     time.Time
	ExpiresAt     time.Time // CreatedAt + TTL, never extended
}

// IsExpired reports whether now is past the session's expiry
func (s Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// clone returns a copy that shares no pointers with the stored session
func (s Session) clone() Session {
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	if s.Credentials != nil {
		c := *s.Credentials
		s.Credentials = &c
	}
	return s
}

// Transition is a single terminal state change applied atomically by Store.Update
type Transition struct {
	status      Status
	steamID     string
	profile     steam.Profile
	credentials *oauth2.Token
	reason      string
}

// Succeed moves a pending session to success with its identity, profile and credentials
func Succeed(steamID string, profile steam.Profile, credentials *oauth2.Token) Transition {
	return Transition{status: StatusSuccess, steamID: steamID, profile: profile, credentials: credentials}
}

// Fail moves a pending session to error with a user facing reason
func Fail(reason string) Transition {
	if reason == "" {
		reason = "authentication failed"
	}
	return Transition{status: StatusError, reason: reason}
}

// Status is the target state of the transition
func (t Transition) Status() Status {
	return t.status
}

func (t Transition) valid() bool {
	switch t.status {
	case StatusSuccess:
		return t.steamID != ""
	case StatusError:
		return t.reason != ""
	default:
		return false
	}
}

func (t Transition) apply(s *Session) {
	s.Status = t.status
	switch t.status {
	case StatusSuccess:
		p := t.profile
		s.SteamID = t.steamID
		s.Profile = &p
		if t.credentials != nil {
			c := *t.credentials
			s.Credentials = &c
		}
		s.FailureReason = ""
	case StatusError:
		s.SteamID = ""
		s.Profile = nil
		s.Credentials = nil
		s.FailureReason = t.reason
	}
}
