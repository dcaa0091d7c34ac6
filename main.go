package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blogem/venmo-login/authenticator"
	"github.com/blogem/venmo-login/authenticator/openid"
	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/config"
	"github.com/blogem/venmo-login/controllers"
	"github.com/blogem/venmo-login/database"
	authmiddleware "github.com/blogem/venmo-login/middleware"
	"github.com/blogem/venmo-login/repositories"
	"github.com/blogem/venmo-login/services"
)

func initLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	if err := run(); err != nil {
		slog.Error("venmo-login stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load environment variables from .env file and the environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := database.InitializeDatabase(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseDB()

	repos := repositories.NewRepositories(database.GetDB())
	srvs := services.NewServices(repos, services.Options{PaymentsURL: cfg.Venmo.PaymentsURL})

	auth, err := setupAuthenticator(ctx, cfg, srvs)
	if err != nil {
		return err
	}

	ctrl := controllers.NewControllers(srvs, controllers.Options{OpenIDEnabled: cfg.OIDC.Enabled()})

	r, err := setupRouter(cfg, ctrl, srvs, repos, auth)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("venmo-login starting", "address", cfg.Addr(), "database", cfg.DatabasePath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setupAuthenticator registers the Venmo strategy and, when configured, OpenID Connect
func setupAuthenticator(ctx context.Context, cfg *config.Config, srvs *services.Services) (*authenticator.Authenticator, error) {
	auth := authenticator.New()

	venmoStrategy, err := venmo.New(venmo.Config{
		ClientID:         cfg.Venmo.ClientID,
		ClientSecret:     cfg.Venmo.ClientSecret,
		CallbackURL:      cfg.Venmo.CallbackURL,
		AuthorizationURL: cfg.Venmo.AuthorizationURL,
		TokenURL:         cfg.Venmo.TokenURL,
		ProfileURL:       cfg.Venmo.ProfileURL,
		FieldPolicy:      cfg.Venmo.FieldPolicy,
	}, srvs.User.VerifyVenmo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize venmo strategy: %w", err)
	}
	auth.Use(venmoStrategy)

	if cfg.OIDC.Enabled() {
		oidcStrategy, err := openid.New(ctx, openid.Config{
			Issuer:       cfg.OIDC.Issuer,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			CallbackURL:  cfg.OIDC.CallbackURL,
			Scopes:       cfg.OIDC.Scopes,
		}, srvs.User.VerifyOpenID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize openid strategy: %w", err)
		}
		auth.Use(oidcStrategy)
	}

	return auth, nil
}

// setupRouter configures all routes
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, srvs *services.Services, repos *repositories.Repositories, auth *authenticator.Authenticator) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks

	lifetime := int64(cfg.SessionLifetime.Seconds())
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "venmo_session",
		Secure:         cfg.UseHTTPS, // Set to true when USE_HTTPS=true (production)
		Gclifetime:     lifetime,
		Maxlifetime:    lifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(authmiddleware.LoadUser(srvs.User))

	r.Get("/", ctrl.Users.Index)
	r.Get("/logout", ctrl.Auth.Logout)
	r.Get("/health", ctrl.Activity.Health)

	r.Route("/auth/venmo", func(r chi.Router) {
		r.With(auth.Handler(venmo.ProviderName, authenticator.Options{
			Scope:           cfg.Venmo.Scopes,
			FailureRedirect: "/",
		})).Get("/", http.NotFound)

		r.With(auth.Handler(venmo.ProviderName, authenticator.Options{
			FailureRedirect: "/",
		})).Get("/callback", ctrl.Users.AuthCallback)

		r.With(authmiddleware.RequireAuth, authmiddleware.AuditLogger(repos.Audit)).
			Post("/payment", ctrl.Payment.Create)
	})

	if _, ok := auth.Strategy(openid.ProviderName); ok {
		r.Route("/auth/openid", func(r chi.Router) {
			r.With(auth.Handler(openid.ProviderName, authenticator.Options{
				FailureRedirect: "/",
			})).Get("/", http.NotFound)

			r.With(auth.Handler(openid.ProviderName, authenticator.Options{
				FailureRedirect: "/",
				SuccessRedirect: "/",
			})).Get("/callback", http.NotFound)
		})
	}

	// PROTECTED ROUTES (authentication required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)
		r.Get("/payment", ctrl.Users.PaymentForm)
		r.Get("/activity", ctrl.Activity.Index)
	})

	return r, nil
}
