// Package steam talks to the Steam Web API to resolve a verified Steam id into
// public profile attributes.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIURL       = "https://api.steampowered.com"
	playerSummariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	maxResponseBody     = 1 << 20
)

// Client fetches player summaries with a pre-shared Web API key.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Steam Web API client. The key is checked per call so a
// missing key only fails the login attempts that need it.
func NewClient(baseURL, apiKey string, client *http.Client, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// FetchProfile resolves exactly one Steam id. Every failure wraps ErrUpstream;
// a missing API key makes no request.
func (c *Client) FetchProfile(ctx context.Context, steamID string) (Profile, error) {
	if c.apiKey == "" {
		return Profile{}, fmt.Errorf("%w: steam api key not configured", apperrors.ErrUpstream)
	}

	summary, err := c.playerSummary(ctx, steamID)
	if err != nil {
		log.Err(err).Str("steam_id", steamID).Msg("steam: failed to fetch player summary")
		return Profile{}, err
	}
	return summary.Profile(), nil
}

func (c *Client) playerSummary(ctx context.Context, steamID string) (PlayerSummary, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamids", steamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+playerSummariesPath+"?"+params.Encode(), nil)
	if err != nil {
		return PlayerSummary{}, fmt.Errorf("%w: build request: %v", apperrors.ErrUpstream, redact(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return PlayerSummary{}, fmt.Errorf("%w: request failed: %v", apperrors.ErrUpstream, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PlayerSummary{}, fmt.Errorf("%w: unexpected status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var decoded playerSummariesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&decoded); err != nil {
		return PlayerSummary{}, fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstream, err)
	}

	players := decoded.Response.Players
	if len(players) == 0 {
		return PlayerSummary{}, fmt.Errorf("%w: steam user %s not found", apperrors.ErrUpstream, steamID)
	}
	// only one id is requested, so the first entry is the answer
	summary := players[0]
	switch summary.SteamID {
	case steamID:
	case "":
		summary.SteamID = steamID
	default:
		return PlayerSummary{}, fmt.Errorf("%w: requested steam user %s, got %s", apperrors.ErrUpstream, steamID, summary.SteamID)
	}
	return summary, nil
}

// redact strips the request URL (which carries the API key) from transport errors
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
