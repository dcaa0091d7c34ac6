package authenticator

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// Config holds OAuth provider configuration
type Config struct {
	ClientID         string
	ClientSecret     string
	CallbackURL      string
	AuthorizationURL string
	TokenURL         string
	// ScopeSeparator joins requested scopes into the single scope parameter.
	// Defaults to a space.
	ScopeSeparator string
	// Scopes are requested when the per-call options do not name any.
	Scopes    []string
	AuthStyle oauth2.AuthStyle
}

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Options are the per-route settings passed to a strategy on every request
type Options struct {
	Scope           []string
	State           string
	CallbackURL     string
	ClientID        string
	FailureRedirect string
	SuccessRedirect string
}

// AuthorizationOptions are the values a strategy may turn into extra
// authorization request parameters.
type AuthorizationOptions struct {
	ClientID    string
	Scope       string
	State       string
	CallbackURL string
}

// User is an authenticated local account. SessionID is what gets stored in
// the session after a successful login.
type User interface {
	SessionID() string
}

// VerifyFunc resolves a provider profile to a local user. Returning a nil
// user without an error fails the authentication.
type VerifyFunc[P any] func(ctx context.Context, accessToken, refreshToken string, profile P) (User, error)

// Strategy is a pluggable authentication method
type Strategy interface {
	Name() string
	Authenticate(r *http.Request, opts Options) Result
}

// ResultKind identifies the outcome of a single Authenticate call
type ResultKind int

const (
	ResultRedirect ResultKind = iota + 1
	ResultSuccess
	ResultFail
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultRedirect:
		return "redirect"
	case ResultSuccess:
		return "success"
	case ResultFail:
		return "fail"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the single outcome of a strategy run
type Result struct {
	Kind     ResultKind
	Location string
	User     User
	Message  string
	Err      error
}

// Redirect sends the browser to location, usually the provider's authorization endpoint
func Redirect(location string) Result {
	return Result{Kind: ResultRedirect, Location: location}
}

// Success completes authentication for user
func Success(user User) Result {
	return Result{Kind: ResultSuccess, User: user}
}

// Fail rejects the request without treating it as an error
func Fail(message string) Result {
	return Result{Kind: ResultFail, Message: message}
}

// Errored aborts authentication with err
func Errored(err error) Result {
	return Result{Kind: ResultError, Err: err}
}
