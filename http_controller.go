package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// MinPasswordLength is enforced at the HTTP boundary, before any plaintext
// reaches the hasher.
const MinPasswordLength = 6

// GetRouterClaims extracts the SessionClaims stashed by ProtectedRoute
func GetRouterClaims(c router.Context, key string) (*SessionClaims, bool) {
	if key == "" {
		key = "claims"
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*SessionClaims)
	return claims, ok
}

// RegisterAuthRoutes wires the JSON auth API onto the router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("auth.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Get(controller.Routes.Profile, controller.Protected(controller.Profile)).
		SetName("auth.profile")

	app.Post(controller.Routes.Logout, controller.Protected(controller.LogOut)).
		SetName("auth.logout")
}

type AuthControllerRoutes struct {
	Login    string
	Logout   string
	Register string
	Profile  string
}

type AuthController struct {
	Logger       Logger
	Repo         RepositoryManager
	Routes       *AuthControllerRoutes
	Auther       Authenticator
	HTTP         *RouteAuthenticator
	ErrorHandler func(c router.Context, err error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Logout:   "/auth/logout",
			Register: "/auth/register",
			Profile:  "/auth/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.HTTP == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.HTTP.ErrorHandler
	}

	return c
}

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerHTTP(http *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.HTTP = http
		return c
	}
}

// Protected wraps a handler with the session middleware
func (a *AuthController) Protected(h router.HandlerFunc) router.HandlerFunc {
	return a.HTTP.ProtectedRoute()(h)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Email
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegisterRequest payload
type RegisterRequest struct {
	Email     string `form:"email" json:"email"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Password  string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 0),
		),
	)
}

// UserDTO is the public projection of an identity record
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at,omitempty"`
}

func userDTO(u *User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

// RegistrationCreate creates the account and signs it in with a cookie
// session, mirroring login.
func (a *AuthController) RegistrationCreate(c router.Context) error {
	payload := new(RegisterRequest)

	if err := c.Bind(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse registration payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, router.ViewContext{
			"error":      "validation failed",
			"validation": err.Error(),
		})
	}

	user, err := a.Auther.Register(c.Context(), payload.Email, payload.FirstName, payload.LastName, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	if _, err := a.HTTP.Establish(c, NewIdentityFromUser(user)); err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(http.StatusOK, router.ViewContext{
		"message": "account created and signed in",
		"user":    userDTO(user),
	})
}

// LoginPost verifies credentials and establishes the cookie session
func (a *AuthController) LoginPost(c router.Context) error {
	payload := new(LoginRequest)

	if err := c.Bind(payload); err != nil {
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "unable to parse login payload").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, router.ViewContext{
			"error":      "validation failed",
			"validation": err.Error(),
		})
	}

	claims, err := a.HTTP.Login(c, payload)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(http.StatusOK, router.ViewContext{
		"message": "signed in",
		"user": router.ViewContext{
			"id":         claims.UserID(),
			"email":      claims.Email,
			"first_name": claims.FirstName,
			"last_name":  claims.LastName,
		},
	})
}

// Profile returns the record behind the authenticated session
func (a *AuthController) Profile(c router.Context) error {
	claims, ok := GetRouterClaims(c, "")
	if !ok {
		return a.ErrorHandler(c, ErrUnableToFindSession)
	}

	id, err := claims.UserIDInt()
	if err != nil {
		return a.ErrorHandler(c, ErrUnableToDecodeSession)
	}

	user, err := a.Repo.Users().GetByID(c.Context(), id)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, router.ViewContext{
				"error": "user not found",
			})
		}
		return a.ErrorHandler(c, WrapStorageError(err))
	}

	return c.JSON(http.StatusOK, userDTO(user))
}

// LogOut revokes the session and clears the cookie
func (a *AuthController) LogOut(c router.Context) error {
	a.HTTP.Logout(c)
	return c.JSON(http.StatusOK, router.ViewContext{
		"message": "signed out",
	})
}
