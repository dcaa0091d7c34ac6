package models

import (
	"net/url"
	"testing"
)

// Test PaymentForm validation
func TestPaymentFormValidation(t *testing.T) {
	// Test valid form
	validForm := PaymentForm{
		Email:    "friend@example.com",
		Note:     "Pizza",
		Amount:   "12.50",
		Audience: AudienceFriends,
	}
	errors := validForm.Validate()
	if len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Negative amounts are charges and remain valid
	charge := PaymentForm{UserID: "123", Note: "Rent", Amount: "-500"}
	errors = charge.Validate()
	if len(errors) != 0 {
		t.Errorf("Expected no errors for charge, got: %v", errors)
	}

	// Test invalid form
	invalidForm := PaymentForm{
		Email:    "invalid-email",
		Phone:    "15555555555",
		Note:     "",
		Amount:   "lots",
		Audience: "everyone",
	}
	errors = invalidForm.Validate()
	if len(errors) != 5 {
		t.Errorf("Expected 5 errors for invalid form, got: %v", errors)
	}

	// Test missing recipient
	noRecipient := PaymentForm{Note: "Pizza", Amount: "1"}
	errors = noRecipient.Validate()
	if len(errors) != 1 {
		t.Errorf("Expected 1 error for missing recipient, got: %v", errors)
	}
}

// Test PaymentForm encoding
func TestPaymentFormValues(t *testing.T) {
	form := PaymentFormFromValues(url.Values{
		"phone":  {" 15555555555 "},
		"note":   {"Tacos"},
		"amount": {"7"},
	})

	values := form.Values("token-123")

	if values.Get("access_token") != "token-123" {
		t.Errorf("Expected access token, got %q", values.Get("access_token"))
	}
	if values.Get("phone") != "15555555555" {
		t.Errorf("Expected trimmed phone, got %q", values.Get("phone"))
	}
	if values.Has("user_id") || values.Has("email") || values.Has("audience") {
		t.Errorf("Expected only the provided fields, got %v", values)
	}
	if values.Get("note") != "Tacos" || values.Get("amount") != "7" {
		t.Errorf("Unexpected note or amount: %v", values)
	}
}

// Test email validation
func TestEmailValidation(t *testing.T) {
	validEmails := []string{"a@b.co", "first.last@example.com"}
	for _, email := range validEmails {
		if !isValidEmail(email) {
			t.Errorf("Expected %s to be valid", email)
		}
	}

	invalidEmails := []string{"", "@example.com", "bob@", "bob@example", "a@@b.com", "bob@example."}
	for _, email := range invalidEmails {
		if isValidEmail(email) {
			t.Errorf("Expected %s to be invalid", email)
		}
	}
}

// Test User helpers
func TestUserSessionID(t *testing.T) {
	user := &User{ID: 42, Username: "bob"}

	if user.SessionID() != "42" {
		t.Errorf("Expected session ID 42, got %s", user.SessionID())
	}

	id, err := ParseSessionID(user.SessionID())
	if err != nil || id != 42 {
		t.Errorf("Expected to parse 42, got %d (%v)", id, err)
	}

	if _, err := ParseSessionID("not-a-number"); err == nil {
		t.Error("Expected error for invalid session ID")
	}

	if user.DisplayName() != "bob" {
		t.Errorf("Expected username fallback, got %s", user.DisplayName())
	}

	user.Name = "Bob Builder"
	if user.DisplayName() != "Bob Builder" {
		t.Errorf("Expected name, got %s", user.DisplayName())
	}
}
