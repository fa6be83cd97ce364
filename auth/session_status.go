package auth

import (
	"errors"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/jrsteele09/ghub-api/sessions"
	"github.com/rs/zerolog/log"
)

const reasonNotFound = "session not found or expired"

// UserData is the profile subset returned to the polling client
type UserData struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	ProfileURL string `json:"profileUrl"`
}

// Tokens is the credential pair handed out with a successful status
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SessionStatus is the answer to a client's status poll
type SessionStatus struct {
	Platform string          `json:"platform"`
	Status   sessions.Status `json:"status"`
	SteamID  string          `json:"steamId,omitempty"`
	UserData *UserData       `json:"userData,omitempty"`
	Tokens   *Tokens         `json:"tokens,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// GetStatus reports the state of a login attempt. It never fails: unknown or
// expired sessions are reported with status error. When consume-on-success is
// enabled the first successful read removes the session.
func (as *SteamAuthService) GetStatus(sessionID string) SessionStatus {
	status := as.getStatus(sessionID)
	as.metrics.RecordStatusPoll(string(status.Status))
	return status
}

func (as *SteamAuthService) getStatus(sessionID string) SessionStatus {
	var (
		session sessions.Session
		err     error
	)
	if as.config.GetConsumeOnSuccess() {
		session, err = as.deps.Sessions.Consume(sessionID)
	} else {
		session, err = as.deps.Sessions.Get(sessionID)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) && !errors.Is(err, apperrors.ErrSessionExpired) {
			log.Err(err).Str("session_id", sessionID).Msg("failed to read session status")
		}
		return SessionStatus{Platform: PlatformSteam, Status: sessions.StatusError, Error: reasonNotFound}
	}

	status := SessionStatus{Platform: PlatformSteam, Status: session.Status}
	switch session.Status {
	case sessions.StatusSuccess:
		status.SteamID = session.SteamID
		if session.Profile != nil {
			status.UserData = &UserData{
				Name:       session.Profile.PersonaName,
				Avatar:     session.Profile.AvatarURL,
				ProfileURL: session.Profile.ProfileURL,
			}
		}
		if c := session.Credentials; c != nil {
			status.Tokens = &Tokens{
				AccessToken:  c.AccessToken,
				RefreshToken: c.RefreshToken,
				TokenType:    c.Type(),
				ExpiresIn:    c.ExpiresIn,
			}
		}
	case sessions.StatusError:
		status.Error = session.FailureReason
	}
	return status
}
