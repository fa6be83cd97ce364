package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the Steam authentication flow
var (
	// Configuration errors
	ErrConfiguration = errors.New("server configuration error")

	// Callback errors (client facing, also recorded on the session)
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrStateMismatch      = errors.New("invalid state parameter")
	ErrInvalidCallback    = errors.New("invalid openid callback")
	ErrSignatureInvalid   = errors.New("invalid signature")
	ErrIdentityExtraction = errors.New("unable to extract steam id")

	// Upstream errors
	ErrUpstream        = errors.New("failed to fetch steam user data")
	ErrCredentialIssue = errors.New("failed to issue credentials")

	// Session store errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionTerminal = errors.New("session already completed")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
)

// reasonOrder is the precedence used when an error chain matches more than one sentinel.
var reasonOrder = []error{
	ErrConfiguration,
	ErrInvalidSession,
	ErrStateMismatch,
	ErrInvalidCallback,
	ErrSignatureInvalid,
	ErrIdentityExtraction,
	ErrUpstream,
	ErrCredentialIssue,
	ErrSessionNotFound,
	ErrSessionExpired,
	ErrSessionTerminal,
	ErrInvalidToken,
}

const genericReason = "authentication failed"

// Reason returns the user facing message for err. Only sentinel messages are exposed,
// wrapped detail stays in the logs.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, target := range reasonOrder {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return genericReason
}

// HTTPStatus maps an error chain to the status code returned by the API
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrConfiguration):
		return http.StatusInternalServerError
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidSession),
		errors.Is(err, ErrStateMismatch),
		errors.Is(err, ErrInvalidCallback),
		errors.Is(err, ErrSignatureInvalid),
		errors.Is(err, ErrIdentityExtraction),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionExpired),
		errors.Is(err, ErrSessionTerminal):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
