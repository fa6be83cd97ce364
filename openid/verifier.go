package openid

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// affirmativeMarker is the key-value line Steam returns for a genuine assertion
const affirmativeMarker = "is_valid:true"

// maxVerificationBody bounds how much of the provider response is read
const maxVerificationBody = 64 << 10

// Verifier confirms an assertion with the identity provider.
type Verifier interface {
	Verify(ctx context.Context, assertion *Assertion) bool
}

// HTTPVerifier performs the check_authentication round trip against the provider.
// It fails closed and never retries.
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPVerifier creates a verifier for endpoint. A nil client gets a default
// client bounded by timeout.
func NewHTTPVerifier(endpoint string, client *http.Client, timeout time.Duration) *HTTPVerifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPVerifier{endpoint: endpoint, client: client}
}

func (v *HTTPVerifier) Verify(ctx context.Context, assertion *Assertion) bool {
	if assertion == nil {
		return false
	}

	body := assertion.VerificationValues().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(body))
	if err != nil {
		log.Err(err).Msg("openid: failed to build verification request")
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Err(err).Msg("openid: verification request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Msg("openid: verification rejected by provider")
		return false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVerificationBody))
	if err != nil {
		log.Err(err).Msg("openid: failed to read verification response")
		return false
	}
	return strings.Contains(string(data), affirmativeMarker)
}
