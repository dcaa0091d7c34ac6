package authenticator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// OAuth2Client abstracts the OAuth2 operations a strategy needs
type OAuth2Client interface {
	AuthCodeURL(state string, params url.Values) string
	Exchange(ctx context.Context, code, redirectURL string) (*Token, error)
	Get(ctx context.Context, url, accessToken string) ([]byte, error)
}

type oauth2Client struct {
	config     oauth2.Config
	httpClient *http.Client
}

// NewOAuth2Client creates an OAuth2Client on top of golang.org/x/oauth2.
// Scopes are never set on the underlying config; strategies send a pre-joined
// scope parameter so the separator stays provider-defined.
func NewOAuth2Client(cfg Config, httpClient *http.Client) OAuth2Client {
	return &oauth2Client{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizationURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: cfg.AuthStyle,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the authorization URL with params added to the query
func (c *oauth2Client) AuthCodeURL(state string, params url.Values) string {
	opts := make([]oauth2.AuthCodeOption, 0, len(params))
	for key := range params {
		opts = append(opts, oauth2.SetAuthURLParam(key, params.Get(key)))
	}
	return c.config.AuthCodeURL(state, opts...)
}

// Exchange exchanges an authorization code for tokens
func (c *oauth2Client) Exchange(ctx context.Context, code, redirectURL string) (*Token, error) {
	var opts []oauth2.AuthCodeOption
	if redirectURL != "" && redirectURL != c.config.RedirectURL {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURL))
	}

	oauth2Token, err := c.config.Exchange(c.context(ctx), code, opts...)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return nil, &TokenError{
				Code:        retrieveErr.ErrorCode,
				Description: retrieveErr.ErrorDescription,
				Err:         err,
			}
		}
		return nil, &InternalOAuthError{Message: "failed to obtain access token", Err: err}
	}

	// Convert oauth2.Token to our Token type
	token := &Token{
		AccessToken:  oauth2Token.AccessToken,
		RefreshToken: oauth2Token.RefreshToken,
	}
	if !oauth2Token.Expiry.IsZero() {
		token.Expiry = oauth2Token.Expiry.Unix()
	}

	// Extract ID token if present
	if idToken, ok := oauth2Token.Extra("id_token").(string); ok {
		token.IDToken = idToken
	}

	return token, nil
}

// Get issues an authenticated GET and returns the response body. Non-2xx
// responses are returned as *HTTPError carrying the body.
func (c *oauth2Client) Get(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	client := oauth2.NewClient(c.context(ctx), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Data: body}
	}

	return body, nil
}

// context makes the configured HTTP client visible to golang.org/x/oauth2
func (c *oauth2Client) context(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
