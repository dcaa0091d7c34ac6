package controllers

import (
	"log/slog"
	"net/http"

	"github.com/blogem/venmo-login/authenticator"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

// Logout clears the logged in user and returns to the home page
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := authenticator.Logout(r); err != nil {
		slog.ErrorContext(r.Context(), "failed to log out", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
