package services

import (
	"net/http"

	"github.com/blogem/venmo-login/repositories"
)

// Options configures outbound calls made by services
type Options struct {
	PaymentsURL string
	HTTPClient  *http.Client
}

// Services holds all service instances
type Services struct {
	User     UserService
	Payment  PaymentService
	Activity ActivityService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, opts Options) *Services {
	return &Services{
		User:     NewUserService(repos.User),
		Payment:  NewPaymentService(repos.User, opts.PaymentsURL, opts.HTTPClient),
		Activity: NewActivityService(repos.User, repos.Audit),
	}
}
