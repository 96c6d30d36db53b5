package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSignUp struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,password"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

type testClaim struct {
	Label string `json:"label" validate:"required,subdomain_label"`
}

func TestNew(t *testing.T) {
	v := New()
	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     interface{}
		wantError bool
	}{
		{
			name: "valid sign up",
			input: testSignUp{
				Email:       "test@example.com",
				Password:    "SecurePass123!",
				DisplayName: "Test Caller",
			},
			wantError: false,
		},
		{
			name: "invalid email",
			input: testSignUp{
				Email:       "invalid-email",
				Password:    "SecurePass123!",
				DisplayName: "Test Caller",
			},
			wantError: true,
		},
		{
			name: "weak password",
			input: testSignUp{
				Email:       "test@example.com",
				Password:    "weak",
				DisplayName: "Test Caller",
			},
			wantError: true,
		},
		{
			name: "password missing special character",
			input: testSignUp{
				Email:       "test@example.com",
				Password:    "NoSpecial123",
				DisplayName: "Test Caller",
			},
			wantError: true,
		},
		{
			name:      "missing display name",
			input:     testSignUp{Email: "test@example.com", Password: "SecurePass123!"},
			wantError: true,
		},
		{
			name:      "valid label",
			input:     testClaim{Label: "acme-pizza"},
			wantError: false,
		},
		{
			name:      "label with uppercase",
			input:     testClaim{Label: "Acme"},
			wantError: true,
		},
		{
			name:      "label with dot",
			input:     testClaim{Label: "acme.pizza"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantError {
				require.Error(t, err)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.NotEmpty(t, vErr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{
		"email": "email must be a valid email address",
	}}
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "email")
}

func TestHelperValidators(t *testing.T) {
	assert.True(t, IsValidEmail("caller@example.com"))
	assert.False(t, IsValidEmail("not-an-email"))

	assert.True(t, IsValidPassword("SecurePass123!"))
	assert.False(t, IsValidPassword("short"))
	assert.False(t, IsValidPassword("alllowercase123!"))
}
