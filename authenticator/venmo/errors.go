package venmo

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedProfile is returned when a required profile field is missing
	ErrMalformedProfile = errors.New("malformed user profile")
	// ErrParseProfile is returned when the profile response is not JSON
	ErrParseProfile = errors.New("failed to parse user profile")
)

// APIError is an error reported by the Venmo API in an "errors" array
type APIError struct {
	Message string
	Code    int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("venmo: %s (code %d)", e.Message, e.Code)
}

// APIErrorFromBody returns the first entry of a non-empty "errors" array in
// body, or nil when body carries no such array
func APIErrorFromBody(body []byte) *APIError {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}

	errs := gjson.GetBytes(body, "errors")
	if !errs.IsArray() {
		return nil
	}
	entries := errs.Array()
	if len(entries) == 0 {
		return nil
	}

	return apiErrorFrom(entries[0])
}

// ResponseError reads an error from any Venmo API response body. The
// "errors" array takes precedence; the single {"error":{...}} object returned
// by the payments endpoint is used only when no array entry exists.
func ResponseError(body []byte) *APIError {
	if apiErr := APIErrorFromBody(body); apiErr != nil {
		return apiErr
	}
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}

	single := gjson.GetBytes(body, "error")
	if !single.IsObject() {
		return nil
	}
	return apiErrorFrom(single)
}

func apiErrorFrom(entry gjson.Result) *APIError {
	return &APIError{
		Message: entry.Get("message").String(),
		Code:    int(entry.Get("code").Int()),
	}
}
