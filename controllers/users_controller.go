package controllers

import (
	"net/http"

	"github.com/blogem/venmo-login/middleware"
	"github.com/blogem/venmo-login/models"
)

// UsersController handles the home page and post-login pages
type UsersController struct {
	opts Options
}

// NewUsersController creates a new users controller
func NewUsersController(opts Options) *UsersController {
	return &UsersController{opts: opts}
}

// IndexData is passed to the home page
type IndexData struct {
	OpenIDEnabled bool
}

// Index handles GET /
func (c *UsersController) Index(w http.ResponseWriter, r *http.Request) {
	data := models.PageData{
		Title:       "Venmo Login Example",
		CurrentPage: "index",
		User:        middleware.CurrentUser(r.Context()),
		Data:        IndexData{OpenIDEnabled: c.opts.OpenIDEnabled},
	}

	renderTemplate(w, "index", "index.html", data)
}

// AuthCallback handles a successful GET /auth/venmo/callback by showing the payment form
func (c *UsersController) AuthCallback(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := models.PageData{
		Title:        "Send a payment",
		CurrentPage:  "payment",
		User:         user,
		FlashMessage: &models.FlashMessage{Type: "success", Message: "Logged in as " + user.DisplayName()},
	}

	renderTemplate(w, "payment", "payment.html", data)
}

// PaymentForm handles GET /payment
func (c *UsersController) PaymentForm(w http.ResponseWriter, r *http.Request) {
	data := models.PageData{
		Title:       "Send a payment",
		CurrentPage: "payment",
		User:        middleware.CurrentUser(r.Context()),
	}

	renderTemplate(w, "payment", "payment.html", data)
}
