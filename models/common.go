package models

// FlashMessage represents a flash message for user feedback
type FlashMessage struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// PageData represents common data passed to templates
type PageData struct {
	Title        string        `json:"title"`
	CurrentPage  string        `json:"current_page"`
	User         *User         `json:"user,omitempty"`
	FlashMessage *FlashMessage `json:"flash_message,omitempty"`
	Errors       []string      `json:"errors,omitempty"`
	Data         interface{}   `json:"data,omitempty"`
}

// IsLoggedIn reports whether the page is rendered for a signed-in user
func (p PageData) IsLoggedIn() bool {
	return p.User != nil
}
