package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/middleware"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/services"
)

// PaymentController handles Venmo payment requests
type PaymentController struct {
	services *services.Services
}

// NewPaymentController creates a new payment controller
func NewPaymentController(services *services.Services) *PaymentController {
	return &PaymentController{
		services: services,
	}
}

// Create handles POST /auth/venmo/payment
func (c *PaymentController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	user := middleware.CurrentUser(r.Context())
	form := models.PaymentFormFromValues(r.PostForm)

	// Reload page with form data and errors
	if errs := form.Validate(); len(errs) > 0 {
		c.renderForm(w, http.StatusBadRequest, user, form, errs)
		return
	}

	receipt, err := c.services.Payment.Pay(r.Context(), user, form)
	if err != nil {
		var apiErr *venmo.APIError
		switch {
		case errors.Is(err, services.ErrNotLinked):
			c.renderForm(w, http.StatusForbidden, user, form, []string{"Log in with Venmo to send payments"})
		case errors.As(err, &apiErr):
			c.renderForm(w, http.StatusBadGateway, user, form, []string{"Venmo rejected the payment: " + apiErr.Message})
		default:
			slog.ErrorContext(r.Context(), "payment failed", "error", err)
			c.renderForm(w, http.StatusBadGateway, user, form, []string{"Payment failed, please try again"})
		}
		return
	}

	slog.InfoContext(r.Context(), "payment sent", "payment_id", receipt.ID, "status", receipt.Status)

	data := models.PageData{
		Title:       "Payment receipt",
		CurrentPage: "success",
		User:        user,
		Data:        receipt,
	}

	renderTemplate(w, "success", "success.html", data)
}

func (c *PaymentController) renderForm(w http.ResponseWriter, status int, user *models.User, form *models.PaymentForm, errs []string) {
	data := models.PageData{
		Title:       "Send a payment",
		CurrentPage: "payment",
		User:        user,
		Errors:      errs,
		Data:        form,
	}

	renderTemplateWithStatus(w, status, "payment", "payment.html", data)
}
