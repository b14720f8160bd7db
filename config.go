package auth

// ConfigValues is a plain-struct Config implementation for wiring the
// library without a configuration framework.
type ConfigValues struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
	CookieName      string
}

var _ Config = ConfigValues{}

func (c ConfigValues) GetSigningKey() string { return c.SigningKey }

func (c ConfigValues) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c ConfigValues) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c ConfigValues) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return 24
	}
	return c.TokenExpiration
}

func (c ConfigValues) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c ConfigValues) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c ConfigValues) GetIssuer() string { return c.Issuer }

func (c ConfigValues) GetAudience() []string { return c.Audience }

func (c ConfigValues) GetCookieName() string {
	if c.CookieName == "" {
		return DefaultCookieName
	}
	return c.CookieName
}
