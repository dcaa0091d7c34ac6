package models

import (
	"strconv"
	"time"
)

// User represents a local account linked to an identity provider
type User struct {
	ID           int64     `json:"id" db:"id"`
	Provider     string    `json:"provider" db:"provider"`
	ProviderID   string    `json:"provider_id" db:"provider_id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email,omitempty" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Balance      string    `json:"balance,omitempty" db:"balance"`
	ProfileJSON  string    `json:"profile,omitempty" db:"profile_json"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SessionID returns the value stored in the session for this user
func (u *User) SessionID() string {
	return strconv.FormatInt(u.ID, 10)
}

// DisplayName returns the best available name for templates
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// ParseSessionID converts a stored session value back into a user ID
func ParseSessionID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
