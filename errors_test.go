package auth_test

import (
	"fmt"
	"testing"

	auth "github.com/eshopkit/go-auth"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.Error
		category errors.Category
		textCode string
	}{
		{
			name:     "invalid credentials",
			err:      auth.ErrMismatchedHashAndPassword,
			category: errors.CategoryAuth,
			textCode: auth.TextCodeInvalidCreds,
		},
		{
			name:     "identity not found",
			err:      auth.ErrIdentityNotFound,
			category: errors.CategoryNotFound,
			textCode: auth.TextCodeIdentityNotFound,
		},
		{
			name:     "token expired",
			err:      auth.ErrTokenExpired,
			category: errors.CategoryAuth,
			textCode: auth.TextCodeTokenExpired,
		},
		{
			name:     "token malformed",
			err:      auth.ErrTokenMalformed,
			category: errors.CategoryAuth,
			textCode: auth.TextCodeTokenMalformed,
		},
		{
			name:     "session not found",
			err:      auth.ErrUnableToFindSession,
			category: errors.CategoryAuth,
			textCode: auth.TextCodeSessionNotFound,
		},
		{
			name:     "email taken",
			err:      auth.ErrEmailTaken,
			category: errors.CategoryConflict,
			textCode: auth.TextCodeEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.textCode, tt.err.TextCode)
		})
	}
}

func TestWrapStorageError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := auth.WrapStorageError(cause)

	var rich *errors.Error
	require.True(t, errors.As(err, &rich))
	assert.Equal(t, errors.CategoryInternal, rich.Category)
	assert.Equal(t, auth.TextCodeStorageError, rich.TextCode)

	// the cause stays reachable for logs but not for the response message
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, rich.Message, "connection refused")
}

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"sentinel", auth.ErrTokenExpired, true},
		{"wrapped sentinel", errors.Wrap(auth.ErrTokenExpired, errors.CategoryAuth, "validation failed"), true},
		{"jwt message", fmt.Errorf("token has invalid claims: token is expired"), true},
		{"unrelated", fmt.Errorf("boom"), false},
		{"malformed is not expired", auth.ErrTokenMalformed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"sentinel", auth.ErrTokenMalformed, true},
		{"jwt message", fmt.Errorf("token is malformed: could not base64 decode"), true},
		{"middleware message", fmt.Errorf("missing or malformed JWT"), true},
		{"expired is not malformed", auth.ErrTokenExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsMalformedError(tt.err))
		})
	}
}

func TestIsAuthenticationError(t *testing.T) {
	assert.True(t, auth.IsAuthenticationError(auth.ErrMismatchedHashAndPassword))
	assert.True(t, auth.IsAuthenticationError(auth.ErrUnableToFindSession))
	assert.False(t, auth.IsAuthenticationError(auth.ErrIdentityNotFound))
	assert.False(t, auth.IsAuthenticationError(fmt.Errorf("plain")))
	assert.False(t, auth.IsAuthenticationError(nil))
}
