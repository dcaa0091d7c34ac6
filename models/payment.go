package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Payment audiences accepted by Venmo
const (
	AudiencePublic  = "public"
	AudienceFriends = "friends"
	AudiencePrivate = "private"
)

// PaymentForm represents form data for sending a Venmo payment or charge.
// Exactly one of UserID, Phone or Email names the recipient.
type PaymentForm struct {
	UserID   string `json:"user_id"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Note     string `json:"note"`
	Amount   string `json:"amount"`
	Audience string `json:"audience"`
}

// PaymentFormFromValues reads a PaymentForm from submitted form values
func PaymentFormFromValues(values url.Values) *PaymentForm {
	return &PaymentForm{
		UserID:   strings.TrimSpace(values.Get("user_id")),
		Phone:    strings.TrimSpace(values.Get("phone")),
		Email:    strings.TrimSpace(values.Get("email")),
		Note:     strings.TrimSpace(values.Get("note")),
		Amount:   strings.TrimSpace(values.Get("amount")),
		Audience: strings.TrimSpace(values.Get("audience")),
	}
}

// Validate validates the payment form data
func (f *PaymentForm) Validate() []string {
	var errors []string

	recipients := 0
	for _, r := range []string{f.UserID, f.Phone, f.Email} {
		if r != "" {
			recipients++
		}
	}
	if recipients != 1 {
		errors = append(errors, "Exactly one of user ID, phone or email is required")
	}

	if f.Email != "" && !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}

	if f.Note == "" {
		errors = append(errors, "Note is required")
	}

	// Negative amounts are charges
	amount, err := strconv.ParseFloat(f.Amount, 64)
	if err != nil || amount == 0 {
		errors = append(errors, "Amount must be a non-zero number")
	}

	switch f.Audience {
	case "", AudiencePublic, AudienceFriends, AudiencePrivate:
	default:
		errors = append(errors, "Audience must be public, friends or private")
	}

	return errors
}

// Values encodes the form for the Venmo payments endpoint
func (f *PaymentForm) Values(accessToken string) url.Values {
	values := url.Values{}
	values.Set("access_token", accessToken)
	switch {
	case f.UserID != "":
		values.Set("user_id", f.UserID)
	case f.Phone != "":
		values.Set("phone", f.Phone)
	case f.Email != "":
		values.Set("email", f.Email)
	}
	values.Set("note", f.Note)
	values.Set("amount", f.Amount)
	if f.Audience != "" {
		values.Set("audience", f.Audience)
	}
	return values
}

// PaymentReceipt is the summary of a completed Venmo payment
type PaymentReceipt struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Action    string `json:"action"`
	Amount    string `json:"amount"`
	Note      string `json:"note"`
	Recipient string `json:"recipient"`
	Balance   string `json:"balance,omitempty"`
	Raw       string `json:"-"`
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	// Simple validation: must contain @ and at least one dot after @
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			if atIndex != -1 {
				return false // Multiple @ symbols
			}
			atIndex = i
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false // No @, or @ at start/end
	}

	// Check for dot after @
	for i := atIndex + 1; i < len(email); i++ {
		if email[i] == '.' && i < len(email)-1 {
			return true
		}
	}

	return false
}
