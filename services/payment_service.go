package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/blogem/venmo-login/authenticator/venmo"
	"github.com/blogem/venmo-login/models"
	"github.com/blogem/venmo-login/repositories"
)

// DefaultPaymentsURL is the Venmo endpoint that creates payments and charges
const DefaultPaymentsURL = "https://api.venmo.com/v1/payments"

// ErrNotLinked is returned when the user has no Venmo access token
var ErrNotLinked = errors.New("user has no linked venmo account")

// PaymentService interface defines payment business logic
type PaymentService interface {
	Pay(ctx context.Context, user *models.User, form *models.PaymentForm) (*models.PaymentReceipt, error)
}

// paymentService implements PaymentService interface
type paymentService struct {
	userRepo    repositories.UserRepository
	paymentsURL string
	httpClient  *http.Client
}

// NewPaymentService creates a new payment service. An empty URL selects the
// Venmo production endpoint and a nil client selects http.DefaultClient.
func NewPaymentService(userRepo repositories.UserRepository, paymentsURL string, httpClient *http.Client) PaymentService {
	if paymentsURL == "" {
		paymentsURL = DefaultPaymentsURL
	}
	return &paymentService{
		userRepo:    userRepo,
		paymentsURL: paymentsURL,
		httpClient:  httpClient,
	}
}

// Pay submits the form to Venmo on behalf of the user and returns the receipt
func (s *paymentService) Pay(ctx context.Context, user *models.User, form *models.PaymentForm) (*models.PaymentReceipt, error) {
	if user == nil || user.AccessToken == "" {
		return nil, ErrNotLinked
	}

	// Validate form
	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	clientCtx := ctx
	if s.httpClient != nil {
		clientCtx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	client := oauth2.NewClient(clientCtx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: user.AccessToken,
		TokenType:   "Bearer",
	}))

	body := form.Values(user.AccessToken).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.paymentsURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send payment: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid payment response (status %d)", resp.StatusCode)
	}

	if apiErr := venmo.ResponseError(data); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment failed with status %d", resp.StatusCode)
	}

	receipt := parseReceipt(data)

	if receipt.Balance != "" && receipt.Balance != user.Balance {
		user.Balance = receipt.Balance
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update balance: %w", err)
		}
	}

	return receipt, nil
}

func parseReceipt(data []byte) *models.PaymentReceipt {
	payment := gjson.GetBytes(data, "data.payment")
	target := payment.Get("target")

	recipient := target.Get("user.display_name").String()
	if recipient == "" {
		recipient = target.Get(target.Get("type").String()).String()
	}

	return &models.PaymentReceipt{
		ID:        payment.Get("id").String(),
		Status:    payment.Get("status").String(),
		Action:    payment.Get("action").String(),
		Amount:    payment.Get("amount").String(),
		Note:      payment.Get("note").String(),
		Recipient: recipient,
		Balance:   gjson.GetBytes(data, "data.balance").String(),
		Raw:       string(data),
	}
}
