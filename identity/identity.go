package identity

import (
	"context"
	"errors"
)

// Identity is the currently signed-in user as seen by the client.
type Identity struct {
	// ID is the opaque unique identifier of the user.
	ID string `json:"id" mapstructure:"id"`
	// Email is informational and never sent by the client.
	Email string `json:"email,omitempty" mapstructure:"email"`
	// DisplayName is informational and never sent by the client.
	DisplayName string `json:"display_name,omitempty" mapstructure:"display_name"`
}

// Provider exposes the active identity and issues bearer credentials for it.
// Implementations are owned outside the client; the client only reads them.
type Provider interface {
	// CurrentIdentity returns the signed-in identity, or nil when nobody is
	// signed in.
	CurrentIdentity(ctx context.Context) *Identity
	// FetchCredential returns a fresh bearer credential for id.
	FetchCredential(ctx context.Context, id Identity) (string, error)
}

// CredentialSource produces bearer credentials for an identity.
type CredentialSource interface {
	Token(ctx context.Context, id Identity) (string, error)
}

// CredentialSourceFunc adapts an ordinary function to CredentialSource.
type CredentialSourceFunc func(ctx context.Context, id Identity) (string, error)

// Token implements CredentialSource.
func (f CredentialSourceFunc) Token(ctx context.Context, id Identity) (string, error) {
	return f(ctx, id)
}

// Static returns a CredentialSource that always yields token.
func Static(token string) CredentialSource {
	return CredentialSourceFunc(func(context.Context, Identity) (string, error) {
		return token, nil
	})
}

var (
	// ErrNoCredentialSource is returned when a provider has nothing to mint
	// credentials with.
	ErrNoCredentialSource = errors.New("identity: no credential source configured")
	// ErrEmptyID is returned when signing in an identity without an ID.
	ErrEmptyID = errors.New("identity: identity id is required")
	// ErrEmptyCredential is returned when a source yields an empty token.
	ErrEmptyCredential = errors.New("identity: credential source returned an empty token")
)

func fetch(ctx context.Context, source CredentialSource, id Identity) (string, error) {
	if source == nil {
		return "", ErrNoCredentialSource
	}
	token, err := source.Token(ctx, id)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrEmptyCredential
	}
	return token, nil
}
