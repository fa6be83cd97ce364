package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"

	"github.com/jrsteele09/ghub-api/internal/config"
	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/jrsteele09/ghub-api/metrics"
	"github.com/jrsteele09/ghub-api/openid"
	"github.com/jrsteele09/ghub-api/sessions"
	"github.com/jrsteele09/ghub-api/steam"
	"github.com/jrsteele09/ghub-api/token"
	"github.com/rs/zerolog/log"
)

const (
	PlatformSteam = token.PlatformSteam

	fallbackCompleteURL = "http://localhost:3000/auth/complete"
)

// ProfileFetcher resolves a verified Steam id into profile attributes
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, steamID string) (steam.Profile, error)
}

// Config is the configuration the Steam login flow reads on every request
type Config interface {
	config.SteamConfig
	config.SessionConfig
}

// Dependencies holds the collaborators of the SteamAuthService
type Dependencies struct {
	Sessions sessions.Store  // Login attempt state
	Verifier openid.Verifier // check_authentication round trip
	Profiles ProfileFetcher  // Steam Web API lookups
	Issuer   token.Issuer    // Access/refresh credentials at success
}

// SteamAuthService drives the Steam OpenID login: it issues provider redirects,
// consumes the provider's callback and answers the client's status polls.
type SteamAuthService struct {
	deps    Dependencies
	config  Config
	metrics metrics.Recorder
}

// ServiceOption defines a function type to modify the SteamAuthService instance.
type ServiceOption func(*SteamAuthService)

// WithMetrics sets the recorder login activity is reported to
func WithMetrics(recorder metrics.Recorder) ServiceOption {
	return func(as *SteamAuthService) {
		if recorder != nil {
			as.metrics = recorder
		}
	}
}

// NewSteamAuthService initializes a new SteamAuthService with required dependencies.
func NewSteamAuthService(deps Dependencies, cfg Config, options ...ServiceOption) (*SteamAuthService, error) {
	if deps.Sessions == nil {
		return nil, errors.New("[NewSteamAuthService] Sessions store is required")
	}
	if deps.Verifier == nil {
		return nil, errors.New("[NewSteamAuthService] Verifier is required")
	}
	if deps.Profiles == nil {
		return nil, errors.New("[NewSteamAuthService] Profiles fetcher is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("[NewSteamAuthService] Issuer is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewSteamAuthService] config is required")
	}
	as := &SteamAuthService{deps: deps, config: cfg, metrics: metrics.NewNoopRecorder()}
	for _, opt := range options {
		opt(as)
	}
	return as, nil
}

// LoginStart is returned to the client that asked for a login URL
type LoginStart struct {
	SessionID string `json:"sessionId"`
	AuthURL   string `json:"authUrl"`
}

// StartLogin creates a pending session and the Steam redirect that will complete it.
func (as *SteamAuthService) StartLogin() (LoginStart, error) {
	start, err := as.startLogin()
	as.metrics.RecordLoginStarted(err == nil)
	return start, err
}

func (as *SteamAuthService) startLogin() (LoginStart, error) {
	callbackURL := as.config.GetSteamCallbackURL()
	if callbackURL == "" {
		return LoginStart{}, fmt.Errorf("%w: steam callback url is not configured", apperrors.ErrConfiguration)
	}
	if _, err := openid.Realm(callbackURL); err != nil {
		return LoginStart{}, err
	}

	session, err := as.deps.Sessions.Create()
	if err != nil {
		return LoginStart{}, apperrors.Wrapf(err, "[StartLogin] failed to create session")
	}

	returnTo, err := openid.ReturnTo(callbackURL, session.ID, session.State)
	if err == nil {
		var authURL string
		authURL, err = openid.AuthURL(as.config.GetSteamOpenIDURL(), returnTo)
		if err == nil {
			log.Info().Str("session_id", session.ID).Msg("steam login started")
			return LoginStart{SessionID: session.ID, AuthURL: authURL}, nil
		}
	}

	_ = as.deps.Sessions.Delete(session.ID)
	return LoginStart{}, err
}

// CallbackResult tells the HTTP layer where to send the browser after the callback
type CallbackResult struct {
	SessionID   string
	Status      sessions.Status
	RedirectURL string
}

// HandleCallback completes a login attempt from the provider's assertion. It is a
// single attempt: any failure after the session id is known leaves the session in
// the error state. The result always carries a completion redirect; err reports
// why the attempt failed.
func (as *SteamAuthService) HandleCallback(ctx context.Context, values url.Values) (CallbackResult, error) {
	sessionID, state, err := openid.SessionParams(values.Get("openid.return_to"))
	if err != nil {
		log.Warn().Err(err).Msg("steam callback without a usable return_to")
		as.metrics.RecordCallback(false, apperrors.Reason(err))
		return as.failedCallback("", err), err
	}

	if err := as.completeLogin(ctx, sessionID, state, values); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("steam login failed")
		as.recordFailure(sessionID, err)
		as.metrics.RecordCallback(false, apperrors.Reason(err))
		return as.failedCallback(sessionID, err), err
	}

	log.Info().Str("session_id", sessionID).Msg("steam login succeeded")
	as.metrics.RecordCallback(true, "")
	return CallbackResult{
		SessionID:   sessionID,
		Status:      sessions.StatusSuccess,
		RedirectURL: as.completionURL(sessionID, sessions.StatusSuccess, ""),
	}, nil
}

func (as *SteamAuthService) completeLogin(ctx context.Context, sessionID, state string, values url.Values) error {
	session, err := as.deps.Sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSession, err)
	}
	if session.Status.IsTerminal() {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSession, apperrors.ErrSessionTerminal)
	}

	if subtle.ConstantTimeCompare([]byte(state), []byte(session.State)) != 1 {
		return apperrors.ErrStateMismatch
	}

	assertion, err := openid.ParseAssertion(values)
	if err != nil {
		return err
	}

	if err := openid.CheckReturnTo(assertion.ReturnTo, as.config.GetSteamCallbackURL()); err != nil {
		return err
	}

	if !as.deps.Verifier.Verify(ctx, assertion) {
		return apperrors.ErrSignatureInvalid
	}

	steamID, err := assertion.SteamID()
	if err != nil {
		return err
	}

	profile, err := as.deps.Profiles.FetchProfile(ctx, steamID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUpstream) {
			err = fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}
		return err
	}

	credentials, err := as.deps.Issuer.IssueCredential(token.Subject{
		SteamID:  steamID,
		Username: profile.PersonaName,
		Avatar:   profile.AvatarURL,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrCredentialIssue) {
			err = fmt.Errorf("%w: %v", apperrors.ErrCredentialIssue, err)
		}
		return err
	}

	if err := as.deps.Sessions.Update(sessionID, sessions.Succeed(steamID, profile, credentials)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidSession, err)
	}
	return nil
}

// recordFailure moves the session to error on a best-effort basis. Sessions that
// are gone or already terminal are left alone.
func (as *SteamAuthService) recordFailure(sessionID string, cause error) {
	err := as.deps.Sessions.Update(sessionID, sessions.Fail(apperrors.Reason(cause)))
	if err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) &&
		!errors.Is(err, apperrors.ErrSessionExpired) && !errors.Is(err, apperrors.ErrSessionTerminal) {
		log.Err(err).Str("session_id", sessionID).Msg("failed to record steam login failure")
	}
}

func (as *SteamAuthService) failedCallback(sessionID string, cause error) CallbackResult {
	return CallbackResult{
		SessionID:   sessionID,
		Status:      sessions.StatusError,
		RedirectURL: as.completionURL(sessionID, sessions.StatusError, apperrors.Reason(cause)),
	}
}

// completionURL builds the browser redirect carrying platform, status, session_id and error
func (as *SteamAuthService) completionURL(sessionID string, status sessions.Status, reason string) string {
	u, err := url.Parse(as.config.GetSteamCompleteURL())
	if err != nil || u.Host == "" {
		u, _ = url.Parse(fallbackCompleteURL)
	}

	q := u.Query()
	q.Set("platform", PlatformSteam)
	q.Set("status", string(status))
	if sessionID != "" {
		q.Set("session_id", sessionID)
	}
	if reason != "" {
		q.Set("error", reason)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
