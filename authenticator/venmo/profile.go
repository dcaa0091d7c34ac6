package venmo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FieldPolicy decides when an optional profile field is kept
type FieldPolicy int

const (
	// IncludeTruthy drops optional fields that are false, null, 0 or "".
	IncludeTruthy FieldPolicy = iota
	// IncludePresent keeps every optional field that is present and not null.
	IncludePresent
)

// String returns the policy's configuration name
func (p FieldPolicy) String() string {
	switch p {
	case IncludeTruthy:
		return "truthy"
	case IncludePresent:
		return "present"
	default:
		return fmt.Sprintf("FieldPolicy(%d)", int(p))
	}
}

// UnmarshalText parses "truthy" or "present", ignoring case
func (p *FieldPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "truthy":
		*p = IncludeTruthy
	case "present":
		*p = IncludePresent
	default:
		return fmt.Errorf("unknown field policy %q, want truthy or present", text)
	}
	return nil
}

// Profile is a Venmo user normalized for the verify callback.
// Email, Phone and Balance are nil when the payload does not carry them.
type Profile struct {
	Provider    string          `json:"provider"`
	ID          string          `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"displayName"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Balance     *string         `json:"balance,omitempty"`
	Raw         []byte          `json:"-"`
	RawJSON     json.RawMessage `json:"-"`
}

// Parse normalizes a /me payload using the IncludeTruthy policy.
// input may be a JSON string or []byte, or an already decoded value.
func Parse(input any) (*Profile, error) {
	return ParseWithPolicy(input, IncludeTruthy)
}

// ParseWithPolicy normalizes a /me payload, keeping optional fields
// according to policy
func ParseWithPolicy(input any, policy FieldPolicy) (*Profile, error) {
	raw, err := payloadBytes(input)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedProfile)
	}

	data := gjson.GetBytes(raw, "data")
	user := data.Get("user")
	if !user.IsObject() {
		return nil, fmt.Errorf("%w: data.user is missing or not an object", ErrMalformedProfile)
	}

	profile := &Profile{}
	if profile.ID, err = requiredString(user, "id"); err != nil {
		return nil, err
	}
	if profile.Username, err = requiredString(user, "username"); err != nil {
		return nil, err
	}
	if profile.DisplayName, err = requiredString(user, "display_name"); err != nil {
		return nil, err
	}

	profile.Balance = optionalString(data.Get("balance"), policy)
	profile.Email = optionalString(user.Get("email"), policy)
	profile.Phone = optionalString(user.Get("phone"), policy)

	return profile, nil
}

func payloadBytes(input any) ([]byte, error) {
	switch v := input.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedProfile)
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
		}
		return b, nil
	}
}

func requiredString(user gjson.Result, key string) (string, error) {
	value := user.Get(key)
	if value.Type != gjson.String {
		return "", fmt.Errorf("%w: data.user.%s is missing or not a string", ErrMalformedProfile, key)
	}
	return value.Str, nil
}

func optionalString(value gjson.Result, policy FieldPolicy) *string {
	if !value.Exists() || value.Type == gjson.Null {
		return nil
	}
	if policy == IncludeTruthy && !truthy(value) {
		return nil
	}

	s := value.Raw
	if value.Type == gjson.String {
		s = value.Str
	}
	return &s
}

func truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.False, gjson.Null:
		return false
	case gjson.Number:
		return value.Num != 0
	case gjson.String:
		return value.Str != ""
	default:
		return true
	}
}
