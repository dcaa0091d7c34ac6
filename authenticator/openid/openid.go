package openid

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/blogem/venmo-login/authenticator"
)

// ProviderName is the name the strategy is registered under
const ProviderName = "openid"

// Config holds OpenID Connect configuration
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string
	HTTPClient   *http.Client
	StateStore   authenticator.StateStore
}

// Profile holds the identity claims of a verified ID token
type Profile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
	Username string
	Claims   map[string]interface{}
}

// Strategy implements OpenID Connect login on top of the generic OAuth2 strategy
type Strategy struct {
	*authenticator.OAuth2Strategy[*Profile]
	verifier *oidc.IDTokenVerifier
}

// New discovers the issuer and creates an OpenID Connect strategy
func New(ctx context.Context, cfg Config, verify authenticator.VerifyFunc[*Profile]) (*Strategy, error) {
	// Validate required configuration
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}

	if cfg.HTTPClient != nil {
		ctx = oidc.ClientContext(ctx, cfg.HTTPClient)
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	endpoint := provider.Endpoint()
	authCfg := authenticator.Config{
		ClientID:         cfg.ClientID,
		ClientSecret:     cfg.ClientSecret,
		CallbackURL:      cfg.CallbackURL,
		AuthorizationURL: endpoint.AuthURL,
		TokenURL:         endpoint.TokenURL,
		Scopes:           scopes,
		AuthStyle:        endpoint.AuthStyle,
	}

	s := &Strategy{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}

	base, err := authenticator.NewOAuth2Strategy(authenticator.OAuth2Params[*Profile]{
		Name:        ProviderName,
		Config:      authCfg,
		Client:      authenticator.NewOAuth2Client(authCfg, cfg.HTTPClient),
		States:      cfg.StateStore,
		UserProfile: s.userProfile,
		Verify:      verify,
	})
	if err != nil {
		return nil, err
	}
	s.OAuth2Strategy = base

	return s, nil
}

// userProfile extracts user claims from the ID token
func (s *Strategy) userProfile(ctx context.Context, token *authenticator.Token) (*Profile, error) {
	if token.IDToken == "" {
		return nil, errors.New("no id_token in token")
	}

	idToken, err := s.verifier.Verify(ctx, token.IDToken)
	if err != nil {
		return nil, fmt.Errorf("id_token verification failed: %w", err)
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("id_token claims parse failed: %w", err)
	}

	profile := &Profile{
		Provider: ProviderName,
		Subject:  idToken.Subject,
		Claims:   claims,
	}
	if email, ok := claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		profile.Name = name
	}
	if username, ok := claims["preferred_username"].(string); ok {
		profile.Username = username
	}

	return profile, nil
}
