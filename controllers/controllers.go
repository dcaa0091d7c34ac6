package controllers

import (
	"html/template"
	"net/http"

	"github.com/blogem/venmo-login/services"
	"github.com/blogem/venmo-login/templates"
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus creates a template set and renders it with the provided data and status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	// Create a new template set with only the templates we need
	tmpl := template.New(templateName)

	// Parse layout and page template
	_, err := tmpl.ParseFS(templates.FS, "layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Set status code if not OK
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// Options holds feature switches that change what pages offer
type Options struct {
	OpenIDEnabled bool
}

// Controllers holds all controller instances
type Controllers struct {
	Auth     *AuthController
	Users    *UsersController
	Payment  *PaymentController
	Activity *ActivityController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services, opts Options) *Controllers {
	return &Controllers{
		Auth:     NewAuthController(),
		Users:    NewUsersController(opts),
		Payment:  NewPaymentController(services),
		Activity: NewActivityController(services),
	}
}
