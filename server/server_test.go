package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/ghub-api/auth"
	"github.com/jrsteele09/ghub-api/internal/config"
	"github.com/jrsteele09/ghub-api/metrics"
	"github.com/jrsteele09/ghub-api/openid/openidfakes"
	"github.com/jrsteele09/ghub-api/platforms"
	"github.com/jrsteele09/ghub-api/server"
	"github.com/jrsteele09/ghub-api/sessions"
	"github.com/jrsteele09/ghub-api/steam"
	"github.com/jrsteele09/ghub-api/steam/steamfakes"
	"github.com/jrsteele09/ghub-api/token"
	"github.com/stretchr/testify/require"
)

const (
	testCallbackURL = "https://api.ghub.test/auth/steam/callback"
	testCompleteURL = "https://app.ghub.test/auth/complete"
	testOrigin      = "https://app.ghub.test"
	testSteamID     = "76561197960435530"
)

type testFixture struct {
	verifier *openidfakes.FakeVerifier
	tokens   *token.Manager
	handler  http.Handler
}

// setupTestFixture wires a server from environment config, a real store and token manager,
// and fake Steam collaborators.
func setupTestFixture(t *testing.T, env map[string]string, verifierValid bool) *testFixture {
	t.Helper()

	defaults := map[string]string{
		"ENV":                "TEST",
		"STEAM_CALLBACK_URL": testCallbackURL,
		"STEAM_COMPLETE_URL": testCompleteURL,
		"JWT_SECRET":         "server-test-secret",
		"CORS_ORIGIN":        testOrigin,
	}
	for k, v := range env {
		defaults[k] = v
	}
	for k, v := range defaults {
		t.Setenv(k, v)
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	tokens, err := token.NewManager(cfg)
	require.NoError(t, err)

	f := &testFixture{
		verifier: openidfakes.NewFakeVerifier(verifierValid),
		tokens:   tokens,
	}

	recorder := metrics.NewPrometheusRecorder()
	store := sessions.NewInMemoryStore(sessions.WithTTL(cfg.GetSessionTTL()))
	t.Cleanup(func() { _ = store.Close() })

	service, err := auth.NewSteamAuthService(auth.Dependencies{
		Sessions: store,
		Verifier: f.verifier,
		Profiles: steamfakes.NewFakeProfileFetcher(steam.Profile{
			PersonaName: "Robin",
			AvatarURL:   "https://avatars.steamstatic.com/robin_full.jpg",
			ProfileURL:  "https://steamcommunity.com/id/robin/",
		}, nil),
		Issuer: tokens,
	}, cfg, auth.WithMetrics(recorder))
	require.NoError(t, err)

	f.handler, err = server.New(cfg, server.Dependencies{
		Auth:      service,
		Tokens:    tokens,
		Platforms: platforms.NewDefaultCatalog(),
		Metrics:   recorder.Handler(),
	})
	require.NoError(t, err)
	return f
}

func (f *testFixture) do(t *testing.T, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// startLogin returns the session id and the return_to Steam would echo back
func (f *testFixture) startLogin(t *testing.T) (string, string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, server.RouteSteamAuthURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	start := decode[auth.LoginStart](t, rec)
	authURL, err := url.Parse(start.AuthURL)
	require.NoError(t, err)
	return start.SessionID, authURL.Query().Get("openid.return_to")
}

func callbackTarget(values url.Values) string {
	return server.RouteSteamCallback + "?" + values.Encode()
}

func TestNew_RequiresDependencies(t *testing.T) {
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	_, err = server.New(cfg, server.Dependencies{})
	require.Error(t, err)
}

func TestSteamAuthURL(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	rec := f.do(t, http.MethodPost, server.RouteSteamAuthURL, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	start := decode[auth.LoginStart](t, rec)
	require.NotEmpty(t, start.SessionID)
	require.True(t, strings.HasPrefix(start.AuthURL, "https://steamcommunity.com/openid/login?"))
}

func TestSteamAuthURL_MissingCallbackURL(t *testing.T) {
	f := setupTestFixture(t, map[string]string{"STEAM_CALLBACK_URL": ""}, true)

	rec := f.do(t, http.MethodPost, server.RouteSteamAuthURL, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, map[string]string{"error": "server configuration error"}, decode[map[string]string](t, rec))
}

func TestSteamStart_Redirects(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	rec := f.do(t, http.MethodGet, server.RouteSteamStart, nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "steamcommunity.com", location.Host)
	require.Equal(t, "checkid_setup", location.Query().Get("openid.mode"))
}

func TestLoginFlow(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	sessionID, returnTo := f.startLogin(t)

	pending := decode[auth.SessionStatus](t, f.do(t, http.MethodGet, "/auth/steam/status/"+sessionID, nil))
	require.Equal(t, sessions.StatusPending, pending.Status)

	rec := f.do(t, http.MethodGet, callbackTarget(openidfakes.AssertionValues(returnTo, testSteamID)), nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "app.ghub.test", location.Host)
	require.Equal(t, "success", location.Query().Get("status"))
	require.Equal(t, "steam", location.Query().Get("platform"))
	require.Equal(t, sessionID, location.Query().Get("session_id"))

	statusRec := f.do(t, http.MethodGet, "/auth/steam/status/"+sessionID, nil)
	require.Equal(t, http.StatusOK, statusRec.Code)
	require.Equal(t, "no-store", statusRec.Header().Get("Cache-Control"))

	status := decode[auth.SessionStatus](t, statusRec)
	require.Equal(t, sessions.StatusSuccess, status.Status)
	require.Equal(t, testSteamID, status.SteamID)
	require.Equal(t, "Robin", status.UserData.Name)
	require.NotNil(t, status.Tokens)

	t.Run("access token validates", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteSteamValidate+"?token="+url.QueryEscape(status.Tokens.AccessToken), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		introspection := decode[token.Introspection](t, rec)
		require.True(t, introspection.Active)
		require.Equal(t, testSteamID, introspection.SteamID)
		require.Equal(t, "steam", introspection.Platform)
	})

	t.Run("bearer header validates", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteSteamValidate, map[string]string{
			"Authorization": "Bearer " + status.Tokens.AccessToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteSteamValidate+"?token="+url.QueryEscape(status.Tokens.RefreshToken), nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, decode[token.Introspection](t, rec).Active)
	})

	t.Run("status is consumed", func(t *testing.T) {
		again := decode[auth.SessionStatus](t, f.do(t, http.MethodGet, "/auth/status/"+sessionID, nil))
		require.Equal(t, sessions.StatusError, again.Status)
		require.Equal(t, "session not found or expired", again.Error)
	})
}

func TestCallback_Failures(t *testing.T) {
	t.Run("signature rejected", func(t *testing.T) {
		f := setupTestFixture(t, nil, false)
		sessionID, returnTo := f.startLogin(t)

		rec := f.do(t, http.MethodGet, callbackTarget(openidfakes.AssertionValues(returnTo, testSteamID)), nil)
		require.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "error", location.Query().Get("status"))
		require.Equal(t, "invalid signature", location.Query().Get("error"))

		status := decode[auth.SessionStatus](t, f.do(t, http.MethodGet, "/auth/steam/status/"+sessionID, nil))
		require.Equal(t, sessions.StatusError, status.Status)
		require.Equal(t, "invalid signature", status.Error)
	})

	t.Run("return_to for another site", func(t *testing.T) {
		f := setupTestFixture(t, nil, true)
		sessionID, returnTo := f.startLogin(t)

		own, err := url.Parse(returnTo)
		require.NoError(t, err)
		foreign := "https://evil.example/steam/cb?" + own.RawQuery

		rec := f.do(t, http.MethodGet, callbackTarget(openidfakes.AssertionValues(foreign, testSteamID)), nil)
		require.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "error", location.Query().Get("status"))
		require.Equal(t, "invalid openid callback", location.Query().Get("error"))
		require.Zero(t, f.verifier.Calls())

		status := decode[auth.SessionStatus](t, f.do(t, http.MethodGet, "/auth/steam/status/"+sessionID, nil))
		require.Equal(t, sessions.StatusError, status.Status)
		require.Nil(t, status.Tokens)
	})

	t.Run("missing assertion", func(t *testing.T) {
		f := setupTestFixture(t, nil, true)

		rec := f.do(t, http.MethodGet, server.RouteSteamCallback, nil)
		require.Equal(t, http.StatusFound, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "error", location.Query().Get("status"))
		require.Equal(t, "invalid or expired session", location.Query().Get("error"))
		require.Zero(t, f.verifier.Calls())
	})
}

func TestValidate_Errors(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	rec := f.do(t, http.MethodGet, server.RouteSteamValidate, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteSteamValidate+"?token=not.a.jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, decode[token.Introspection](t, rec).Active)
}

func TestAuthCompletePage(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	t.Run("success", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteAuthComplete+"?platform=steam&status=success&session_id=abc", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))

		body := rec.Body.String()
		require.Contains(t, body, "Steam connected")
		require.Contains(t, body, "Session: abc")
	})

	t.Run("error is escaped", func(t *testing.T) {
		q := url.Values{"platform": {"steam"}, "status": {"error"}, "error": {"<script>alert(1)</script>"}}
		rec := f.do(t, http.MethodGet, server.RouteAuthComplete+"?"+q.Encode(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		require.Contains(t, body, "Steam connection failed")
		require.NotContains(t, body, "<script>alert(1)</script>")
		require.Contains(t, body, "&lt;script&gt;")
	})
}

func TestPlatforms(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	t.Run("all", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RoutePlatforms, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decode[platforms.List](t, rec)
		require.Equal(t, 4, list.TotalCount)
		require.Equal(t, "steam", list.Platforms[0].ID)
		require.WithinDuration(t, time.Now(), list.LastUpdated, time.Minute)
	})

	t.Run("enabled", func(t *testing.T) {
		list := decode[platforms.List](t, f.do(t, http.MethodGet, server.RoutePlatformsEnabled, nil))
		require.Equal(t, 1, list.TotalCount)
	})

	t.Run("available", func(t *testing.T) {
		list := decode[platforms.List](t, f.do(t, http.MethodGet, server.RoutePlatformsAvailable, nil))
		require.Equal(t, 4, list.TotalCount)
	})

	t.Run("by id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/platforms/xbox", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decode[platforms.Platform](t, rec).ComingSoon)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/platforms/origin", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "platform with id 'origin' not found", decode[map[string]string](t, rec)["error"])
	})
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	rec := f.do(t, http.MethodGet, server.RouteHealth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, rec))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCors(t *testing.T) {
	f := setupTestFixture(t, nil, true)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		rec := f.do(t, http.MethodOptions, server.RouteSteamAuthURL, map[string]string{
			"Origin":                        testOrigin,
			"Access-Control-Request-Method": "POST",
		})
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("request from unknown origin", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, server.RouteHealth, map[string]string{"Origin": "https://evil.test"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		f := setupTestFixture(t, map[string]string{"CORS_ORIGIN": "*"}, true)
		rec := f.do(t, http.MethodGet, server.RouteHealth, map[string]string{"Origin": "https://any.test"})
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t, nil, true)
	f.startLogin(t)

	rec := f.do(t, http.MethodGet, server.RouteMetrics, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `ghub_steam_logins_started_total{result="success"} 1`)
}
