// Package venmo authenticates users with Venmo using OAuth 2.0.
//
// The strategy plugs into authenticator.Authenticator. Applications supply a
// verify function receiving the access token, refresh token and a normalized
// Profile, and return the local user for it:
//
//	strategy, err := venmo.New(venmo.Config{
//		ClientID:     "123-456-789",
//		ClientSecret: "shhh-its-a-secret",
//		CallbackURL:  "https://www.example.net/auth/venmo/callback",
//	}, func(ctx context.Context, accessToken, refreshToken string, profile *venmo.Profile) (authenticator.User, error) {
//		return users.FindOrCreate(ctx, profile)
//	})
//
// Keep the access token around: payments and friend lists need it, and the
// refresh token lets the application renew it without another login.
package venmo

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/blogem/venmo-login/authenticator"
)

const (
	ProviderName            = "venmo"
	DefaultAuthorizationURL = "https://api.venmo.com/v1/oauth/authorize"
	DefaultTokenURL         = "https://api.venmo.com/v1/oauth/access_token"
	DefaultProfileURL       = "https://api.venmo.com/v1/me"
	DefaultScopeSeparator   = ","
)

// Config holds Venmo application settings. ClientID, ClientSecret and
// CallbackURL come from the developer tab of the Venmo account; the callback
// must match the registered Web Redirect URL.
type Config struct {
	ClientID         string
	ClientSecret     string
	CallbackURL      string
	AuthorizationURL string
	TokenURL         string
	ScopeSeparator   string
	ProfileURL       string
	FieldPolicy      FieldPolicy
	HTTPClient       *http.Client
	StateStore       authenticator.StateStore
}

func (c *Config) applyDefaults() {
	if c.AuthorizationURL == "" {
		c.AuthorizationURL = DefaultAuthorizationURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.ScopeSeparator == "" {
		c.ScopeSeparator = DefaultScopeSeparator
	}
	if c.ProfileURL == "" {
		c.ProfileURL = DefaultProfileURL
	}
}

// Strategy is the Venmo authentication strategy
type Strategy struct {
	oauth2      *authenticator.OAuth2Strategy[*Profile]
	client      authenticator.OAuth2Client
	profileURL  string
	fieldPolicy FieldPolicy
}

// New creates a Venmo strategy
func New(cfg Config, verify authenticator.VerifyFunc[*Profile]) (*Strategy, error) {
	cfg.applyDefaults()

	authCfg := authenticator.Config{
		ClientID:         cfg.ClientID,
		ClientSecret:     cfg.ClientSecret,
		CallbackURL:      cfg.CallbackURL,
		AuthorizationURL: cfg.AuthorizationURL,
		TokenURL:         cfg.TokenURL,
		ScopeSeparator:   cfg.ScopeSeparator,
		AuthStyle:        oauth2.AuthStyleInParams,
	}

	s := &Strategy{
		client:      authenticator.NewOAuth2Client(authCfg, cfg.HTTPClient),
		profileURL:  cfg.ProfileURL,
		fieldPolicy: cfg.FieldPolicy,
	}

	base, err := authenticator.NewOAuth2Strategy(authenticator.OAuth2Params[*Profile]{
		Name:                ProviderName,
		Config:              authCfg,
		Client:              s.client,
		States:              cfg.StateStore,
		AuthorizationParams: s.AuthorizationParams,
		UserProfile: func(ctx context.Context, token *authenticator.Token) (*Profile, error) {
			return s.UserProfile(ctx, token.AccessToken)
		},
		Verify: verify,
	})
	if err != nil {
		return nil, err
	}
	s.oauth2 = base

	return s, nil
}

// Name returns "venmo"
func (s *Strategy) Name() string {
	return ProviderName
}

// Authenticate runs the OAuth 2.0 flow. Venmo redirects back with an "error"
// query parameter when the user denies access; that fails the request without
// contacting the token endpoint.
func (s *Strategy) Authenticate(r *http.Request, opts authenticator.Options) authenticator.Result {
	if r.URL.Query().Get("error") != "" {
		return authenticator.Fail(r.URL.Query().Get("error"))
	}

	return s.oauth2.Authenticate(r, opts)
}

// AuthorizationParams returns the Venmo-specific authorization request parameters
func (s *Strategy) AuthorizationParams(opts authenticator.AuthorizationOptions) url.Values {
	params := url.Values{}
	if opts.ClientID != "" {
		params.Set("client_id", opts.ClientID)
	}
	if opts.Scope != "" {
		params.Set("scope", opts.Scope)
	}
	if opts.State != "" {
		params.Set("state", opts.State)
	}
	if opts.CallbackURL != "" {
		params.Set("callbackURL", opts.CallbackURL)
	}
	return params
}

// UserProfile fetches and normalizes the profile of the access token's owner
func (s *Strategy) UserProfile(ctx context.Context, accessToken string) (*Profile, error) {
	body, err := s.client.Get(ctx, s.profileURL, accessToken)
	if err != nil {
		var httpErr *authenticator.HTTPError
		if errors.As(err, &httpErr) {
			if apiErr := APIErrorFromBody(httpErr.Data); apiErr != nil {
				return nil, apiErr
			}
		}
		return nil, &authenticator.InternalOAuthError{Message: "failed to fetch user profile", Err: err}
	}

	if !gjson.ValidBytes(body) {
		return nil, ErrParseProfile
	}

	profile, err := ParseWithPolicy(body, s.fieldPolicy)
	if err != nil {
		return nil, err
	}
	profile.Provider = ProviderName
	profile.Raw = body
	profile.RawJSON = []byte(gjson.GetBytes(body, "data.user").Raw)

	return profile, nil
}
