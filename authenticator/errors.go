package authenticator

import (
	"errors"
	"fmt"
)

var (
	// ErrStateMismatch is reported when the callback state does not match the one issued
	ErrStateMismatch = errors.New("unable to verify authorization request state")
	// ErrNoSession is returned by SessionStateStore when no session middleware ran
	ErrNoSession = errors.New("no session in request")
)

// InternalOAuthError wraps a failure talking to the provider
type InternalOAuthError struct {
	Message string
	Err     error
}

func (e *InternalOAuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalOAuthError) Unwrap() error {
	return e.Err
}

// AuthorizationError is an error the provider reported on the callback query string
type AuthorizationError struct {
	Code        string
	Description string
	URI         string
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s: %s", e.Code, e.Description)
	}
	return "authorization failed: " + e.Code
}

// TokenError is an error the token endpoint reported in its response body
type TokenError struct {
	Code        string
	Description string
	Err         error
}

func (e *TokenError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token exchange failed: %s: %s", e.Code, e.Description)
	}
	return "token exchange failed: " + e.Code
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from an authenticated request. Data holds the body.
type HTTPError struct {
	StatusCode int
	Data       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}
