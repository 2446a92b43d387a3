package identity

import "context"

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var identityKey = contextKey{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// ContextProvider reads the current identity from the request context, for
// callers that resolve the user per call instead of per process.
type ContextProvider struct {
	source CredentialSource
}

// compile-time assertion
var _ Provider = (*ContextProvider)(nil)

// NewContextProvider creates a ContextProvider minting credentials with source.
func NewContextProvider(source CredentialSource) *ContextProvider {
	return &ContextProvider{source: source}
}

// CurrentIdentity implements Provider.
func (p *ContextProvider) CurrentIdentity(ctx context.Context) *Identity {
	id, ok := FromContext(ctx)
	if !ok || id.ID == "" {
		return nil
	}
	return &id
}

// FetchCredential implements Provider.
func (p *ContextProvider) FetchCredential(ctx context.Context, id Identity) (string, error) {
	return fetch(ctx, p.source, id)
}
