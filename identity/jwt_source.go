package identity

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod names a supported JWT signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	ES256 SigningMethod = "ES256"
)

const defaultTokenTTL = 5 * time.Minute

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// Secret is the HMAC signing key (HS* methods).
	Secret string `yaml:"secret" mapstructure:"secret"`
	// PrivateKey is the *rsa.PrivateKey or *ecdsa.PrivateKey (RS256/ES256).
	PrivateKey any `yaml:"-" mapstructure:"-"`
	// Method is the signing algorithm. Defaults to HS256.
	Method SigningMethod `yaml:"method" mapstructure:"method"`
	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL <= 0 {
		c.TTL = defaultTokenTTL
	}
}

// Validate checks the key material against the signing method.
func (c *JWTConfig) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("secret is required for HMAC signing methods")
		}
	case RS256:
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.New("private key must be *rsa.PrivateKey for RS256")
		}
	case ES256:
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.New("private key must be *ecdsa.PrivateKey for ES256")
		}
	default:
		return fmt.Errorf("unsupported signing method: %s", c.Method)
	}
	return nil
}

func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	case RS256:
		return gojwt.SigningMethodRS256
	case ES256:
		return gojwt.SigningMethodES256
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *JWTConfig) signKey() any {
	switch c.Method {
	case HS256, HS384, HS512:
		return []byte(c.Secret)
	default:
		return c.PrivateKey
	}
}

func (c *JWTConfig) verifyKey() any {
	switch k := c.PrivateKey.(type) {
	case *rsa.PrivateKey:
		return &k.PublicKey
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	default:
		return []byte(c.Secret)
	}
}

// Claims are the claims carried by tokens minted by JWTSource.
type Claims struct {
	gojwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// JWTSource mints a new signed token on every call. It never caches.
type JWTSource struct {
	cfg JWTConfig
	now func() time.Time
}

// compile-time assertion
var _ CredentialSource = (*JWTSource)(nil)

// NewJWTSource creates a JWTSource.
func NewJWTSource(cfg JWTConfig) (*JWTSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("identity/jwt: %w", err)
	}
	return &JWTSource{cfg: cfg, now: time.Now}, nil
}

// Token implements CredentialSource.
func (s *JWTSource) Token(ctx context.Context, id Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id.ID == "" {
		return "", ErrEmptyID
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audience,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Email: id.Email,
		Name:  id.DisplayName,
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", fmt.Errorf("identity/jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token minted by this source and returns its claims.
func (s *JWTSource) Parse(token string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}

	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.cfg.verifyKey(), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity/jwt: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("identity/jwt: invalid token")
	}
	return claims, nil
}
