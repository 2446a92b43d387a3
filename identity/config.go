package identity

import (
	"context"
	"errors"
	"fmt"
)

// Credential modes accepted by Config.Mode.
const (
	ModeNone   = "none"
	ModeStatic = "static"
	ModeJWT    = "jwt"
	ModeOAuth2 = "oauth2"
)

// Config describes how the CLI builds its identity session.
type Config struct {
	// Mode selects the credential source: none, static, jwt or oauth2.
	Mode string `yaml:"mode" mapstructure:"mode" validate:"omitempty,oneof=none static jwt oauth2"`
	// User is signed in at startup when Mode is not none.
	User Identity `yaml:"user" mapstructure:"user"`
	// Token is the fixed credential for static mode.
	Token string `yaml:"token" mapstructure:"token"`
	// JWT configures jwt mode.
	JWT JWTConfig `yaml:"jwt" mapstructure:"jwt"`
	// OAuth2 configures oauth2 mode.
	OAuth2 OAuth2Config `yaml:"oauth2" mapstructure:"oauth2"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeNone
	}
}

// Validate checks that the selected mode has what it needs.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeNone:
		return nil
	case ModeStatic:
		if c.Token == "" {
			return errors.New("token is required for static mode")
		}
	case ModeJWT:
		jwt := c.JWT
		jwt.ApplyDefaults()
		return jwt.Validate()
	case ModeOAuth2:
		if c.OAuth2.TokenURL == "" {
			return errors.New("oauth2.token_url is required for oauth2 mode")
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	return nil
}

// NewSessionFromConfig builds a Session and signs in cfg.User unless the
// mode is none or no user id is configured.
func NewSessionFromConfig(_ context.Context, cfg Config) (*Session, error) {
	cfg.ApplyDefaults()

	var source CredentialSource
	switch cfg.Mode {
	case ModeNone:
		return NewSession(nil), nil
	case ModeStatic:
		source = Static(cfg.Token)
	case ModeJWT:
		js, err := NewJWTSource(cfg.JWT)
		if err != nil {
			return nil, err
		}
		source = js
	case ModeOAuth2:
		source = NewClientCredentialsSource(cfg.OAuth2)
	default:
		return nil, fmt.Errorf("identity: unknown mode %q", cfg.Mode)
	}

	s := NewSession(source)
	if cfg.User.ID != "" {
		if err := s.SignIn(cfg.User); err != nil {
			return nil, err
		}
	}
	return s, nil
}
