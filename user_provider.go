package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the slice of the identity store the provider needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserProvider resolves and verifies identities against the user store
type UserProvider struct {
	store  UserStore
	hasher PasswordAuthenticator
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		hasher: PBKDF2Hasher{},
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

func (u *UserProvider) WithHasher(h PasswordAuthenticator) *UserProvider {
	if h != nil {
		u.hasher = h
	}
	return u
}

// VerifyIdentity will find the user, verify the password, and return the
// identity. Unknown email, wrong password, and a corrupt stored hash all
// collapse into ErrMismatchedHashAndPassword so the response never reveals
// whether the account exists. Store outages surface as internal errors with
// a generic message.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, WrapStorageError(err)
	}

	if user == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	// VerifyPassword fails closed on malformed blobs, no special casing here
	if !u.hasher.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrMismatchedHashAndPassword
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByID resolves an already authenticated subject, e.g. when a
// session or token claim needs re-hydrating into a full record.
func (u UserProvider) FindIdentityByID(ctx context.Context, id int64) (Identity, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, WrapStorageError(err)
	}

	if user == nil {
		return nil, ErrIdentityNotFound
	}

	return NewIdentityFromUser(user), nil
}
