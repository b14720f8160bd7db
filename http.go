package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// DefaultCookieName names the session cookie when the Config leaves it empty
const DefaultCookieName = "eshop.auth"

// RouteAuthenticator binds the stateful session issuer to HTTP transport:
// it verifies credentials, materializes the session, and carries its opaque
// id in an HttpOnly, Secure, SameSite=Strict cookie. This is an API surface;
// failures answer 401 JSON, never a login redirect.
type RouteAuthenticator struct {
	provider     IdentityProvider
	sessions     *SessionManager
	cookieName   string
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

func NewHTTPAuthenticator(provider IdentityProvider, sessions *SessionManager, cfg Config) (*RouteAuthenticator, error) {
	cookieName := DefaultCookieName
	if cfg != nil && cfg.GetCookieName() != "" {
		cookieName = cfg.GetCookieName()
	}

	a := &RouteAuthenticator{
		provider:   provider,
		sessions:   sessions,
		cookieName: cookieName,
		Logger:     defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

// CookieName returns the session cookie name
func (a *RouteAuthenticator) CookieName() string {
	return a.cookieName
}

// Login verifies the payload credentials and establishes a cookie session
func (a *RouteAuthenticator) Login(c router.Context, payload LoginPayload) (*SessionClaims, error) {
	identity, err := a.provider.VerifyIdentity(c.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error: %s", err)
		return nil, err
	}

	return a.Establish(c, identity)
}

// Establish issues a session for an already verified identity. Registration
// uses it to sign the new account in without a second credential check.
func (a *RouteAuthenticator) Establish(c router.Context, identity Identity) (*SessionClaims, error) {
	claims := BuildClaims(identity)

	id, err := a.sessions.Issue(c.Context(), claims)
	if err != nil {
		a.Logger.Error("Establish session issue error", "error", err)
		return nil, err
	}

	a.setSessionCookie(c, id, a.sessions.Duration())
	return claims, nil
}

// Authenticate resolves the request's session cookie into claims, refreshing
// the cookie expiry alongside the sliding server-side renewal.
func (a *RouteAuthenticator) Authenticate(c router.Context) (*SessionClaims, error) {
	id := c.Cookies(a.cookieName)
	if id == "" {
		return nil, ErrUnableToFindSession
	}

	claims, err := a.sessions.Authenticate(c.Context(), id)
	if err != nil {
		return nil, err
	}

	a.setSessionCookie(c, id, a.sessions.Duration())
	return claims, nil
}

// Logout revokes the session server-side and instructs the client to drop
// the cookie immediately.
func (a *RouteAuthenticator) Logout(c router.Context) {
	if id := c.Cookies(a.cookieName); id != "" {
		if err := a.sessions.Revoke(c.Context(), id); err != nil {
			a.Logger.Error("Logout revoke error", "error", err)
		}
	}
	a.cookieDel(c, a.cookieName)
}

// ProtectedRoute guards a route: valid session claims land in the request
// context, anything else is answered by the error handler as a 401.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			claims, err := a.Authenticate(c)
			if err != nil {
				return a.ErrorHandler(c, err)
			}

			c.Locals("claims", claims)
			c.SetContext(WithClaimsContext(c.Context(), claims))

			return hf(c)
		}
	}
}

// TokenProtectedRoute guards a route with the stateless artifact instead of
// the cookie session: it expects "Authorization: Bearer <token>" and,
// unlike the cookie path, performs no renewal. The token is valid until
// its expiry, full stop.
func TokenProtectedRoute(tokens TokenService, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw := c.Header("Authorization")
			scheme := "Bearer "
			if len(raw) <= len(scheme) || !strings.EqualFold(raw[:len(scheme)], scheme) {
				return errorHandler(c, ErrUnableToFindSession)
			}

			claims, err := tokens.Validate(raw[len(scheme):])
			if err != nil {
				return errorHandler(c, err)
			}

			c.Locals("claims", claims)
			c.SetContext(WithClaimsContext(c.Context(), claims))

			return hf(c)
		}
	}
}

func (a *RouteAuthenticator) setSessionCookie(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cookieName,
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Strict",
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Request error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return c.JSON(http.StatusUnauthorized, router.ViewContext{
			"error": richErr.Message,
			"code":  richErr.TextCode,
		})
	default:
		status := richErr.Code
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, router.ViewContext{
			"error": richErr.Message,
			"code":  richErr.TextCode,
		})
	}
}
