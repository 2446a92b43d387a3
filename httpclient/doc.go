// Package httpclient is the client-side access layer for the backend.
//
// Every request runs through one pipeline: the client copies the request
// into a private envelope seeded with the default headers, runs the request
// interceptors, sends it, and on any failure runs the response
// interceptors. Two interceptors are built in:
//
//   - CredentialAttacher stamps a fresh bearer credential and the user id
//     onto the request when someone is signed in. When the credential
//     cannot be obtained the request is not sent.
//   - ResponseClassifier reports each failure to a diagnostic.Sink as an
//     authentication, authorization, server or generic error and returns
//     the failure unchanged.
//
// # Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: os.Getenv("API_BASE_URL"),
//	},
//	    httpclient.WithIdentity(session),
//	    httpclient.WithDiagnostics(diagnostic.NewLogSink(log)),
//	)
//
//	status, err := client.TestConnection(ctx)
//	health, err := client.HealthCheck(ctx)
//
//	user, err := httpclient.Get[User](ctx, client, "/users/me")
package httpclient
