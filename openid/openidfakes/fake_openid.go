// Package openidfakes provides assertion fixtures and a scripted verifier for tests.
package openidfakes

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/ghub-api/openid"
)

// AssertionValues builds a well-formed positive assertion query for steamID
// returning to returnTo.
func AssertionValues(returnTo, steamID string) url.Values {
	claimed := "https://steamcommunity.com/openid/id/" + steamID
	values := url.Values{}
	values.Set("openid.ns", openid.Namespace)
	values.Set("openid.mode", openid.ModeIDRes)
	values.Set("openid.op_endpoint", openid.DefaultEndpoint)
	values.Set("openid.claimed_id", claimed)
	values.Set("openid.identity", claimed)
	values.Set("openid.return_to", returnTo)
	values.Set("openid.response_nonce", "2026-10-17T10:00:00Zabcdef")
	values.Set("openid.assoc_handle", "1234567890")
	values.Set("openid.signed", "signed,op_endpoint,claimed_id,identity,return_to,response_nonce,assoc_handle")
	values.Set("openid.sig", "c2lnbmF0dXJl")
	return values
}

// FakeVerifier answers Verify with a fixed result and records the calls.
type FakeVerifier struct {
	mu    sync.Mutex
	valid bool
	calls []*openid.Assertion
}

var _ openid.Verifier = (*FakeVerifier)(nil)

func NewFakeVerifier(valid bool) *FakeVerifier {
	return &FakeVerifier{valid: valid}
}

func (f *FakeVerifier) Verify(_ context.Context, assertion *openid.Assertion) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, assertion)
	return f.valid
}

// Calls returns how many times Verify ran
func (f *FakeVerifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
