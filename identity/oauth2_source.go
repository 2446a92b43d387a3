package identity

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2Source takes bearer credentials from an oauth2.TokenSource. Any
// caching is the token source's own; OAuth2Source asks it on every call.
type OAuth2Source struct {
	ts oauth2.TokenSource

	// client credentials grant; tokens are fetched with the caller's ctx
	cc  *clientcredentials.Config
	mu  sync.Mutex
	tok *oauth2.Token
}

// compile-time assertion
var _ CredentialSource = (*OAuth2Source)(nil)

// NewOAuth2Source wraps ts. ts fetches with whatever context it was built
// with; the per-request context is not passed through.
func NewOAuth2Source(ts oauth2.TokenSource) *OAuth2Source {
	return &OAuth2Source{ts: ts}
}

// OAuth2Config configures a client-credentials token source.
type OAuth2Config struct {
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url" validate:"omitempty,url"`
	ClientID     string   `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string   `yaml:"client_secret" mapstructure:"client_secret"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`
}

// NewClientCredentialsSource builds an OAuth2Source for the client
// credentials grant. A valid token is reused until it expires; a refresh
// runs under the context of the request that needs it.
func NewClientCredentialsSource(cfg OAuth2Config) *OAuth2Source {
	return &OAuth2Source{
		cc: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		},
	}
}

// Token implements CredentialSource.
func (s *OAuth2Source) Token(ctx context.Context, _ Identity) (string, error) {
	tok, err := s.token(ctx)
	if err != nil {
		return "", fmt.Errorf("identity/oauth2: %w", err)
	}
	if !tok.Valid() {
		return "", fmt.Errorf("identity/oauth2: token source returned an invalid token")
	}
	return tok.AccessToken, nil
}

func (s *OAuth2Source) token(ctx context.Context) (*oauth2.Token, error) {
	if s.cc == nil {
		return s.ts.Token()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := oauth2.ReuseTokenSource(s.tok, s.cc.TokenSource(ctx)).Token()
	if err != nil {
		return nil, err
	}
	s.tok = tok
	return tok, nil
}
