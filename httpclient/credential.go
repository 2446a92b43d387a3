package httpclient

import (
	"context"

	"github.com/kbukum/backendclient/identity"
)

// CredentialAttacher returns the request interceptor that stamps the current
// identity onto every request.
//
// With nobody signed in the envelope passes through untouched. Otherwise one
// fresh credential is fetched from provider and two headers are set:
// Authorization: Bearer <credential> and headerName: <identity id>. A fetch
// failure becomes a credential *Error and the request is not sent. Nothing is
// cached and nothing is retried.
func CredentialAttacher(provider identity.Provider, headerName string) RequestInterceptor {
	if headerName == "" {
		headerName = DefaultIdentityHeader
	}
	return func(ctx context.Context, req *Request) (*Request, error) {
		id := provider.CurrentIdentity(ctx)
		if id == nil {
			return req, nil
		}

		token, err := provider.FetchCredential(ctx, *id)
		if err != nil {
			return nil, NewCredentialError(err)
		}

		req.SetHeader("Authorization", "Bearer "+token)
		req.SetHeader(headerName, id.ID)
		return req, nil
	}
}
