package config

type SecurityConfig interface {
	GetJWKSURL() string
	GetLandingRoute() string
}

type Security struct {
	JWKSURL string `env:"JWKS_URL"`
}

var _ SecurityConfig = Security{}

// GetJWKSURL returns the key set used to verify token signatures.
// Empty means tokens are decoded without verification.
func (s Security) GetJWKSURL() string {
	return s.JWKSURL
}

func (Security) GetLandingRoute() string {
	return "/"
}
