package auth_test

import (
	"context"

	auth "github.com/eshopkit/go-auth"
	"github.com/stretchr/testify/mock"
)

// TestIdentity is a plain Identity value for tests
type TestIdentity struct {
	id        int64
	email     string
	firstName string
	lastName  string
}

func (t TestIdentity) ID() int64         { return t.id }
func (t TestIdentity) Email() string     { return t.email }
func (t TestIdentity) FirstName() string { return t.firstName }
func (t TestIdentity) LastName() string  { return t.lastName }

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	if id, ok := args.Get(0).(auth.Identity); ok {
		return id, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id int64) (auth.Identity, error) {
	args := m.Called(ctx, id)
	if identity, ok := args.Get(0).(auth.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRegistrar implements auth.Registrar
type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRegistrar) Create(ctx context.Context, record *auth.User) (*auth.User, error) {
	args := m.Called(ctx, record)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestConfig() auth.ConfigValues {
	return auth.ConfigValues{
		SigningKey:      "test-signing-key",
		TokenExpiration: 24,
		Issuer:          "test-issuer",
		Audience:        []string{"test-audience"},
		CookieName:      "test.auth",
	}
}
