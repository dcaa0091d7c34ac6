package authenticator

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// OAuth2Params configures an OAuth2Strategy. AuthorizationParams, UserProfile
// and Verify are the provider-specific hooks.
type OAuth2Params[P any] struct {
	Name   string
	Config Config
	// Client defaults to NewOAuth2Client(Config, nil).
	Client OAuth2Client
	// States defaults to SessionStateStore.
	States StateStore

	AuthorizationParams func(opts AuthorizationOptions) url.Values
	UserProfile         func(ctx context.Context, token *Token) (P, error)
	Verify              VerifyFunc[P]
}

// OAuth2Strategy authenticates requests with the OAuth 2.0 authorization code flow
type OAuth2Strategy[P any] struct {
	name   string
	config Config
	client OAuth2Client
	states StateStore

	authorizationParams func(opts AuthorizationOptions) url.Values
	userProfile         func(ctx context.Context, token *Token) (P, error)
	verify              VerifyFunc[P]
}

// NewOAuth2Strategy creates a new OAuth2 strategy with the given parameters
func NewOAuth2Strategy[P any](p OAuth2Params[P]) (*OAuth2Strategy[P], error) {
	// Validate required configuration
	if p.Name == "" {
		return nil, errors.New("strategy name is required")
	}
	if p.Config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if p.Config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if p.Config.CallbackURL == "" {
		return nil, errors.New("callback URL is required")
	}
	if p.Config.AuthorizationURL == "" {
		return nil, errors.New("authorization URL is required")
	}
	if p.Config.TokenURL == "" {
		return nil, errors.New("token URL is required")
	}
	if p.UserProfile == nil {
		return nil, errors.New("user profile function is required")
	}
	if p.Verify == nil {
		return nil, errors.New("verify function is required")
	}

	cfg := p.Config
	if cfg.ScopeSeparator == "" {
		cfg.ScopeSeparator = " "
	}

	client := p.Client
	if client == nil {
		client = NewOAuth2Client(cfg, nil)
	}
	states := p.States
	if states == nil {
		states = SessionStateStore{}
	}

	return &OAuth2Strategy[P]{
		name:                p.Name,
		config:              cfg,
		client:              client,
		states:              states,
		authorizationParams: p.AuthorizationParams,
		userProfile:         p.UserProfile,
		verify:              p.Verify,
	}, nil
}

// Name returns the strategy name used by the Authenticator
func (s *OAuth2Strategy[P]) Name() string {
	return s.name
}

// Authenticate redirects to the provider, or completes the flow when the
// request is the provider's callback
func (s *OAuth2Strategy[P]) Authenticate(r *http.Request, opts Options) Result {
	query := r.URL.Query()

	if code := query.Get("error"); code != "" {
		if code == "access_denied" {
			return Fail(query.Get("error_description"))
		}
		return Errored(&AuthorizationError{
			Code:        code,
			Description: query.Get("error_description"),
			URI:         query.Get("error_uri"),
		})
	}

	callbackURL := s.callbackURL(r, opts)

	if code := query.Get("code"); code != "" {
		return s.handleCallback(r, code, query.Get("state"), callbackURL)
	}

	return s.redirect(r, opts, callbackURL)
}

func (s *OAuth2Strategy[P]) redirect(r *http.Request, opts Options, callbackURL string) Result {
	state := opts.State
	if state == "" {
		var err error
		if state, err = generateRandomState(); err != nil {
			return Errored(err)
		}
	}
	if err := s.states.Store(r, s.stateKey(), state); err != nil {
		return Errored(err)
	}

	scopes := opts.Scope
	if len(scopes) == 0 {
		scopes = s.config.Scopes
	}
	scope := strings.Join(scopes, s.config.ScopeSeparator)

	authzOpts := AuthorizationOptions{
		ClientID:    opts.ClientID,
		Scope:       scope,
		State:       state,
		CallbackURL: opts.CallbackURL,
	}

	params := url.Values{}
	if s.authorizationParams != nil {
		if extra := s.authorizationParams(authzOpts); extra != nil {
			params = extra
		}
	}
	params.Set("redirect_uri", callbackURL)
	if scope != "" {
		params.Set("scope", scope)
	}

	return Redirect(s.client.AuthCodeURL(state, params))
}

func (s *OAuth2Strategy[P]) handleCallback(r *http.Request, code, state, callbackURL string) Result {
	ctx := r.Context()

	ok, err := s.states.Verify(r, s.stateKey(), state)
	if err != nil {
		return Errored(err)
	}
	if !ok {
		return Fail(ErrStateMismatch.Error())
	}

	token, err := s.client.Exchange(ctx, code, callbackURL)
	if err != nil {
		return Errored(err)
	}

	profile, err := s.userProfile(ctx, token)
	if err != nil {
		return Errored(err)
	}

	user, err := s.verify(ctx, token.AccessToken, token.RefreshToken, profile)
	if err != nil {
		return Errored(err)
	}
	if user == nil {
		return Fail("")
	}

	return Success(user)
}

func (s *OAuth2Strategy[P]) stateKey() string {
	return "oauth2:" + s.name + ":state"
}

// callbackURL resolves a relative callback URL against the incoming request
func (s *OAuth2Strategy[P]) callbackURL(r *http.Request, opts Options) string {
	callback := s.config.CallbackURL
	if opts.CallbackURL != "" {
		callback = opts.CallbackURL
	}

	parsed, err := url.Parse(callback)
	if err != nil || parsed.IsAbs() {
		return callback
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	base := &url.URL{Scheme: scheme, Host: r.Host}
	return base.ResolveReference(parsed).String()
}
