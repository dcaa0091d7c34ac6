package authenticator

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"gitea.com/go-chi/session"

	"github.com/blogem/venmo-login/userctx"
)

// SessionUserKey is the session key holding the logged in user's SessionID
const SessionUserKey = "user_id"

type contextKey struct{}

// Authenticator dispatches requests to registered strategies and turns their
// results into HTTP responses
type Authenticator struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// New creates an Authenticator with no strategies
func New() *Authenticator {
	return &Authenticator{strategies: make(map[string]Strategy)}
}

// Use registers a strategy under its name, replacing any previous one
func (a *Authenticator) Use(s Strategy) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.strategies[s.Name()] = s
}

// Strategy returns the strategy registered under name
func (a *Authenticator) Strategy(name string) (Strategy, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.strategies[name]
	return s, ok
}

// Handler returns middleware running the named strategy. next is only called
// on success when opts.SuccessRedirect is empty; the user is then available
// through UserFromContext.
func (a *Authenticator) Handler(name string, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			strategy, ok := a.Strategy(name)
			if !ok {
				slog.ErrorContext(r.Context(), "unknown authentication strategy", "strategy", name)
				http.Error(w, "Unknown authentication strategy", http.StatusInternalServerError)
				return
			}

			result := strategy.Authenticate(r, opts)
			slog.DebugContext(r.Context(), "authentication result", "strategy", name, "result", result.Kind.String())

			switch result.Kind {
			case ResultRedirect:
				http.Redirect(w, r, result.Location, http.StatusTemporaryRedirect)
			case ResultFail:
				if opts.FailureRedirect != "" {
					http.Redirect(w, r, opts.FailureRedirect, http.StatusSeeOther)
					return
				}
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
			case ResultSuccess:
				if err := Login(r, result.User); err != nil {
					slog.ErrorContext(r.Context(), "failed to store login in session", "strategy", name, "error", err)
					http.Error(w, "Failed to log in", http.StatusInternalServerError)
					return
				}
				if opts.SuccessRedirect != "" {
					http.Redirect(w, r, opts.SuccessRedirect, http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), result.User)))
			default:
				slog.ErrorContext(r.Context(), "authentication error", "strategy", name, "error", result.Err)
				http.Error(w, "Authentication failed", http.StatusInternalServerError)
			}
		})
	}
}

// Login stores user in the request session
func Login(r *http.Request, user User) error {
	sess := session.GetSession(r)
	if sess == nil {
		return ErrNoSession
	}
	return sess.Set(SessionUserKey, user.SessionID())
}

// Logout removes the logged in user from the request session
func Logout(r *http.Request) error {
	sess := session.GetSession(r)
	if sess == nil {
		return ErrNoSession
	}
	return sess.Delete(SessionUserKey)
}

// SessionUserID returns the SessionID stored by Login, or "" when logged out
func SessionUserID(r *http.Request) string {
	sess := session.GetSession(r)
	if sess == nil {
		return ""
	}
	id, _ := sess.Get(SessionUserKey).(string)
	return id
}

// WithUser adds user to ctx
func WithUser(ctx context.Context, user User) context.Context {
	identity, _ := userctx.FromContext(ctx)
	identity.ID = user.SessionID()
	ctx = userctx.WithIdentity(ctx, identity)
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user added by WithUser
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(contextKey{}).(User)
	return user, ok
}
