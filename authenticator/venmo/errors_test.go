package venmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorFromBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
		message string
		code    int
	}{
		{name: "errors array", body: `{"errors":[{"message":"bad token","code":261},{"message":"other"}]}`, message: "bad token", code: 261},
		{name: "errors array with error object", body: `{"error":{"message":"single","code":2},"errors":[{"message":"bad token","code":1}]}`, message: "bad token", code: 1},
		{name: "single error object", body: `{"error":{"message":"insufficient funds","code":13006}}`, wantNil: true},
		{name: "empty errors array", body: `{"errors":[]}`, wantNil: true},
		{name: "no errors", body: `{"data":{}}`, wantNil: true},
		{name: "not json", body: `<html>`, wantNil: true},
		{name: "empty body", body: ``, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := APIErrorFromBody([]byte(tt.body))
			if tt.wantNil {
				assert.Nil(t, apiErr)
				return
			}
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Contains(t, apiErr.Error(), tt.message)
		})
	}
}

func TestResponseError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
		message string
		code    int
	}{
		{name: "errors array", body: `{"errors":[{"message":"bad token","code":1}]}`, message: "bad token", code: 1},
		{name: "array takes precedence", body: `{"error":{"message":"single","code":2},"errors":[{"message":"bad token","code":1}]}`, message: "bad token", code: 1},
		{name: "single error object", body: `{"error":{"message":"insufficient funds","code":13006}}`, message: "insufficient funds", code: 13006},
		{name: "empty array falls back to object", body: `{"errors":[],"error":{"message":"single","code":2}}`, message: "single", code: 2},
		{name: "error string is ignored", body: `{"error":"invalid_grant"}`, wantNil: true},
		{name: "success body", body: `{"data":{"payment":{}}}`, wantNil: true},
		{name: "not json", body: `oops`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ResponseError([]byte(tt.body))
			if tt.wantNil {
				assert.Nil(t, apiErr)
				return
			}
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}
