package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/blogem/venmo-login/middleware"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/services"
)

// ActivityController serves the audit log page and the health check
type ActivityController struct {
	activity services.ActivityService
}

// NewActivityController creates a new activity controller
func NewActivityController(services *services.Services) *ActivityController {
	return &ActivityController{activity: services.Activity}
}

// Index handles GET /activity
func (c *ActivityController) Index(w http.ResponseWriter, r *http.Request) {
	data := models.PageData{
		Title:       "Recent activity",
		CurrentPage: "activity",
		User:        middleware.CurrentUser(r.Context()),
	}

	entries, err := c.activity.Recent(r.Context(), services.DefaultActivityLimit)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load activity", "error", err)
		data.Errors = []string{"Could not load recent activity"}
		renderTemplateWithStatus(w, http.StatusInternalServerError, "activity", "activity.html", data)
		return
	}

	data.Data = entries
	renderTemplate(w, "activity", "activity.html", data)
}

// Health handles GET /health
func (c *ActivityController) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	users, err := c.activity.UserCount(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status": "unhealthy", "service": "venmo-login"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status": "healthy", "service": "venmo-login", "users": %d}`, users)
}
