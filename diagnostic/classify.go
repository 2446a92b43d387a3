package diagnostic

import "net/http"

// Class labels a failed call.
type Class string

const (
	// ClassAuthentication means the credential was rejected (HTTP 401).
	ClassAuthentication Class = "authentication error"
	// ClassAuthorization means the identity lacks permission (HTTP 403).
	ClassAuthorization Class = "authorization error"
	// ClassServer means the backend failed (HTTP 5xx).
	ClassServer Class = "server error"
	// ClassGeneric covers every other failure, including calls that never
	// produced a response.
	ClassGeneric Class = "generic error"
)

// String returns the class label.
func (c Class) String() string { return string(c) }

// Classify maps a status code to a Class. A zero status means there was no
// response. Rules are checked in order and the first match wins.
func Classify(statusCode int) Class {
	switch {
	case statusCode == http.StatusUnauthorized:
		return ClassAuthentication
	case statusCode == http.StatusForbidden:
		return ClassAuthorization
	case statusCode >= http.StatusInternalServerError:
		return ClassServer
	default:
		return ClassGeneric
	}
}
