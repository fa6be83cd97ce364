package openid

import (
	"fmt"
	"net/url"

	apperrors "github.com/jrsteele09/ghub-api/internal/errors"
)

// Assertion is the positive assertion Steam appends to the return URL.
// Only the fields listed here are accepted and forwarded for verification.
type Assertion struct {
	NS            string
	Mode          string
	OPEndpoint    string
	ClaimedID     string
	Identity      string
	ReturnTo      string
	ResponseNonce string
	AssocHandle   string
	Signed        string
	Sig           string
}

// ParseAssertion validates the callback query and rejects any payload missing a
// required field or carrying a mode other than id_res.
func ParseAssertion(values url.Values) (*Assertion, error) {
	a := &Assertion{
		NS:            values.Get("openid.ns"),
		Mode:          values.Get("openid.mode"),
		OPEndpoint:    values.Get("openid.op_endpoint"),
		ClaimedID:     values.Get("openid.claimed_id"),
		Identity:      values.Get("openid.identity"),
		ReturnTo:      values.Get("openid.return_to"),
		ResponseNonce: values.Get("openid.response_nonce"),
		AssocHandle:   values.Get("openid.assoc_handle"),
		Signed:        values.Get("openid.signed"),
		Sig:           values.Get("openid.sig"),
	}

	for _, f := range a.fields() {
		if f.value == "" {
			return nil, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidCallback, f.key)
		}
	}
	if a.NS != Namespace {
		return nil, fmt.Errorf("%w: unexpected namespace %q", apperrors.ErrInvalidCallback, a.NS)
	}
	if a.Mode != ModeIDRes {
		return nil, fmt.Errorf("%w: unexpected mode %q", apperrors.ErrInvalidCallback, a.Mode)
	}
	return a, nil
}

// VerificationValues is the check_authentication body: every assertion field with
// the mode replaced.
func (a *Assertion) VerificationValues() url.Values {
	values := url.Values{}
	for _, f := range a.fields() {
		values.Set(f.key, f.value)
	}
	values.Set("openid.mode", ModeCheckAuthentication)
	return values
}

// SteamID extracts the numeric id, preferring claimed_id over identity
func (a *Assertion) SteamID() (string, error) {
	if id, err := ExtractSteamID(a.ClaimedID); err == nil {
		return id, nil
	}
	return ExtractSteamID(a.Identity)
}

type field struct {
	key   string
	value string
}

func (a *Assertion) fields() []field {
	return []field{
		{"openid.ns", a.NS},
		{"openid.mode", a.Mode},
		{"openid.op_endpoint", a.OPEndpoint},
		{"openid.claimed_id", a.ClaimedID},
		{"openid.identity", a.Identity},
		{"openid.return_to", a.ReturnTo},
		{"openid.response_nonce", a.ResponseNonce},
		{"openid.assoc_handle", a.AssocHandle},
		{"openid.signed", a.Signed},
		{"openid.sig", a.Sig},
	}
}
