package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. These are system-wide constants: verification
// re-derives with the same values, so changing them invalidates every
// previously stored secret. A migration path would need the parameters
// stored alongside each blob.
const (
	// SaltSize is the per-secret random salt length in bytes
	SaltSize = 16
	// KeySize is the derived key length in bytes
	KeySize = 32
	// Iterations is the PBKDF2 round count
	Iterations = 10000
)

// HashPassword derives a storable secret from a plaintext password.
// The result is base64(salt || derivedKey): a fresh 16 byte salt followed by
// a 32 byte PBKDF2-HMAC-SHA256 key. Two calls on the same password yield
// different blobs.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate salt")
	}

	key := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)

	blob := make([]byte, 0, SaltSize+KeySize)
	blob = append(blob, salt...)
	blob = append(blob, key...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// VerifyPassword checks a plaintext password against a stored secret blob.
// It fails closed: undecodable blobs and blobs of the wrong length return
// false rather than an error, so a corrupt record can never authenticate.
// The comparison runs in constant time.
func VerifyPassword(password, encoded string) bool {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	if len(blob) != SaltSize+KeySize {
		return false
	}

	salt := blob[:SaltSize]
	stored := blob[SaltSize:]

	derived := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)

	return subtle.ConstantTimeCompare(stored, derived) == 1
}

// PBKDF2Hasher adapts the package-level derivation functions to the
// PasswordAuthenticator interface.
type PBKDF2Hasher struct{}

var _ PasswordAuthenticator = PBKDF2Hasher{}

func (PBKDF2Hasher) HashPassword(password string) (string, error) {
	return HashPassword(password)
}

func (PBKDF2Hasher) VerifyPassword(password, encoded string) bool {
	return VerifyPassword(password, encoded)
}
