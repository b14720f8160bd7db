package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the canonical claim set carried by both session
// artifacts: the stateful cookie session stores a snapshot of it, the
// stateless token signs it directly.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// BuildClaims maps an identity record to its claim set. Pure and
// deterministic: the same identity always yields the same identity-derived
// values. Issuance metadata (iss, aud, iat, exp, jti) is stamped later by
// the issuer.
func BuildClaims(identity Identity) *SessionClaims {
	sub := strconv.FormatInt(identity.ID(), 10)

	return &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: sub,
		},
		UID:       sub,
		Email:     identity.Email(),
		FirstName: identity.FirstName(),
		LastName:  identity.LastName(),
	}
}

// Subject returns the subject claim
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the raw id alias, falling back to the subject
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// UserIDInt returns the identity id as the store's integer key
func (c *SessionClaims) UserIDInt() (int64, error) {
	return strconv.ParseInt(c.UserID(), 10, 64)
}

// DisplayName joins the name claims into a single display string
func (c *SessionClaims) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
