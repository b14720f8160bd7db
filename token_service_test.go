package auth_test

import (
	"strings"
	"testing"
	"time"

	auth "github.com/eshopkit/go-auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *auth.TokenServiceImpl {
	t.Helper()
	ts, err := auth.NewTokenServiceFromConfig(newTestConfig(), nil)
	require.NoError(t, err)
	return ts
}

func TestNewTokenServiceFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*auth.ConfigValues)
		wantErr bool
	}{
		{
			name:    "complete config",
			mutate:  func(c *auth.ConfigValues) {},
			wantErr: false,
		},
		{
			name:    "missing signing key",
			mutate:  func(c *auth.ConfigValues) { c.SigningKey = "" },
			wantErr: true,
		},
		{
			name:    "missing issuer",
			mutate:  func(c *auth.ConfigValues) { c.Issuer = "" },
			wantErr: true,
		},
		{
			name:    "missing audience",
			mutate:  func(c *auth.ConfigValues) { c.Audience = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			tt.mutate(&cfg)

			ts, err := auth.NewTokenServiceFromConfig(cfg, nil)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, ts)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, ts)
		})
	}
}

func TestTokenServiceGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	identity := TestIdentity{
		id:        42,
		email:     "jane@example.com",
		firstName: "Jane",
		lastName:  "Doe",
	}

	tokenString, err := ts.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ts.Validate(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject())
	assert.Equal(t, "42", claims.UserID())
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.DisplayName())
	assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"test-audience"}, claims.RegisteredClaims.Audience)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)

	expiresIn := time.Until(claims.Expires())
	assert.Greater(t, expiresIn, 23*time.Hour)
	assert.LessOrEqual(t, expiresIn, 24*time.Hour)
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	ts := newTestTokenService(t)

	claims := auth.BuildClaims(TestIdentity{id: 1, email: "old@example.com"})
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(time.Now().Add(-25 * time.Hour))
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Second))

	tokenString, err := ts.SignClaims(claims)
	require.NoError(t, err)

	// signature is valid, expiry alone must reject it
	_, err = ts.Validate(tokenString)
	require.Error(t, err)
	assert.True(t, auth.IsTokenExpiredError(err))
}

func TestTokenServiceRejectsTamperedSignature(t *testing.T) {
	ts := newTestTokenService(t)

	tokenString, err := ts.Generate(TestIdentity{id: 9, email: "t@example.com"})
	require.NoError(t, err)

	// flip the first byte of the signature segment
	tampered := []byte(tokenString)
	sigStart := strings.LastIndexByte(tokenString, '.') + 1
	if tampered[sigStart] == 'A' {
		tampered[sigStart] = 'B'
	} else {
		tampered[sigStart] = 'A'
	}

	_, err = ts.Validate(string(tampered))
	require.Error(t, err)
	assert.False(t, auth.IsTokenExpiredError(err))
}

func TestTokenServiceRejectsWrongKey(t *testing.T) {
	ts := newTestTokenService(t)

	cfg := newTestConfig()
	cfg.SigningKey = "a completely different key"
	other, err := auth.NewTokenServiceFromConfig(cfg, nil)
	require.NoError(t, err)

	tokenString, err := other.Generate(TestIdentity{id: 3, email: "x@example.com"})
	require.NoError(t, err)

	_, err = ts.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokenServiceRejectsUnsignedToken(t *testing.T) {
	ts := newTestTokenService(t)

	claims := auth.BuildClaims(TestIdentity{id: 5, email: "none@example.com"})
	claims.RegisteredClaims.Issuer = "test-issuer"
	claims.RegisteredClaims.Audience = jwt.ClaimStrings{"test-audience"}
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokenServiceRejectsWrongIssuer(t *testing.T) {
	cfg := newTestConfig()
	cfg.Issuer = "someone-else"
	other, err := auth.NewTokenServiceFromConfig(cfg, nil)
	require.NoError(t, err)

	tokenString, err := other.Generate(TestIdentity{id: 4, email: "i@example.com"})
	require.NoError(t, err)

	ts := newTestTokenService(t)
	_, err = ts.Validate(tokenString)
	assert.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := ts.Validate(tokenString)
		assert.Error(t, err, "token %q", tokenString)
	}
}
