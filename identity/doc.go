// Package identity models the externally owned "who is signed in" state that
// the HTTP client reads on every request.
//
// The client depends only on the Provider capability:
//
//	type Provider interface {
//	    CurrentIdentity(ctx context.Context) *Identity
//	    FetchCredential(ctx context.Context, id Identity) (string, error)
//	}
//
// Session and ContextProvider are the two ready-made providers. Both obtain
// bearer credentials from a CredentialSource: JWTSource mints a fresh signed
// token per call, OAuth2Source delegates to an oauth2.TokenSource, and Static
// returns a fixed value.
package identity
