package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Grade int    `json:"grade" validate:"gte=0,lte=5"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid", body: `{"name":"desk","grade":3}`},
		{name: "empty body", body: ``, wantErr: ErrEmptyBody},
		{name: "unknown field", body: `{"name":"desk","extra":1}`, errText: "unknown field"},
		{name: "malformed", body: `{"name":`, errText: "unexpected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var p testPayload
			err := DecodeJSON(r, &p)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, testPayload{Name: "desk", Grade: 3}, p)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&testPayload{Name: "desk", Grade: 5}))
	assert.Error(t, ValidateRequest(&testPayload{Grade: 5}))
	assert.Error(t, ValidateRequest(&testPayload{Name: "desk", Grade: 6}))
}
