package session

// Default configuration values.
const (
	DefaultContextKey = "session"
	DefaultAuthScheme = "Bearer"
)

// BaseConfig is a plain-struct Config implementation with sane defaults.
type BaseConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	ContextKey      string
	AuthScheme      string
}

var _ Config = (*BaseConfig)(nil)

// NewConfig returns a BaseConfig for the given signing key with defaults
// applied (30 day tokens, Bearer scheme).
func NewConfig(signingKey string) *BaseConfig {
	return &BaseConfig{
		SigningKey:      signingKey,
		TokenExpiration: DefaultTokenExpiration,
		ContextKey:      DefaultContextKey,
		AuthScheme:      DefaultAuthScheme,
	}
}

func (c *BaseConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *BaseConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c *BaseConfig) GetIssuer() string {
	return c.Issuer
}

func (c *BaseConfig) GetAudience() []string {
	return c.Audience
}

func (c *BaseConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

func (c *BaseConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}
