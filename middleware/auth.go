package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/blogem/venmo-login/authenticator"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/services"
	"github.com/blogem/venmo-login/userctx"
)

// LoadUser resolves the session's user and adds it to the request context.
// Stale sessions pointing at unknown users are logged out.
func LoadUser(users services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := authenticator.SessionUserID(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), id)
			if err != nil {
				slog.WarnContext(r.Context(), "dropping session for unknown user", "user_id", id, "error", err)
				if err := authenticator.Logout(r); err != nil {
					slog.ErrorContext(r.Context(), "failed to clear session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := userctx.WithIdentity(r.Context(), userctx.Identity{
				Username: user.Username,
				Provider: user.Provider,
			})
			ctx = authenticator.WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated.
// If not authenticated, redirects to the home page where the login link lives.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the user loaded by LoadUser, or nil
func CurrentUser(ctx context.Context) *models.User {
	user, ok := authenticator.UserFromContext(ctx)
	if !ok {
		return nil
	}
	u, _ := user.(*models.User)
	return u
}
