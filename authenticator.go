package auth

import (
	"context"
	"strconv"

	"github.com/goliatone/go-errors"
)

// Registrar is the slice of the identity store registration needs
type Registrar interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, record *User) (*User, error)
}

// Auther wires the identity provider, the credential hasher, and the token
// service into the login and registration flows.
type Auther struct {
	provider     IdentityProvider
	registrar    Registrar
	hasher       PasswordAuthenticator
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		hasher:       PBKDF2Hasher{},
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithRegistrar enables Register by providing the identity store's create
// side.
func (s *Auther) WithRegistrar(registrar Registrar) *Auther {
	s.registrar = registrar
	return s
}

func (s *Auther) WithHasher(hasher PasswordAuthenticator) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and issues the stateless artifact. The
// identity store lookup happens before the CPU-bound derivation, and nothing
// here holds shared mutable state, so calls are safe to run fully in
// parallel.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return "", err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return "", ErrIdentityNotFound
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", err
	}

	return token, nil
}

// Register creates a new identity record. The password minimum length is the
// HTTP payload's concern; by the time we are here the plaintext only needs
// to be non-empty for the hasher.
func (s *Auther) Register(ctx context.Context, email, firstName, lastName, password string) (*User, error) {
	if s.registrar == nil {
		return nil, errors.New("authenticator has no registrar configured", errors.CategoryInternal)
	}

	exists, err := s.registrar.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, WrapStorageError(err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.registrar.Create(ctx, &User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, WrapStorageError(err)
	}

	return user, nil
}

// SessionFromToken validates a stateless artifact and projects its claims
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Error("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	session, err := sessionFromClaims(claims)
	if err != nil {
		s.logger.Error("SessionFromToken failed to create session from claims", "error", err)
		return nil, err
	}

	return session, nil
}

// IdentityFromSession re-hydrates the identity record behind a session
func (s *Auther) IdentityFromSession(ctx context.Context, session Session) (Identity, error) {
	if session == nil {
		return nil, ErrUnableToFindSession
	}

	id, err := strconv.ParseInt(session.GetUserID(), 10, 64)
	if err != nil {
		return nil, ErrUnableToDecodeSession
	}

	identity, err := s.provider.FindIdentityByID(ctx, id)
	if err != nil {
		s.logger.Error("IdentityFromSession find identity by id", "error", err)
		return nil, err
	}

	return identity, nil
}
