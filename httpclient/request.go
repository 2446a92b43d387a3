package httpclient

import (
	"maps"
	"net/http"
)

// Request describes an outbound HTTP request. The client works on a private
// copy, so the maps a caller passes in are never modified.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged over the client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts io.Reader, []byte, string, or any value
	// that will be JSON-encoded.
	Body any
}

// Header returns the value of a header on the envelope.
func (r *Request) Header(name string) string {
	return r.Headers[http.CanonicalHeaderKey(name)]
}

// SetHeader sets a header on the envelope.
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[http.CanonicalHeaderKey(name)] = value
}

// envelope builds the private copy of req that flows through the pipeline,
// seeded with the default headers. Header keys are canonicalized.
func envelope(req Request, defaults map[string]string) *Request {
	headers := canonicalHeaders(defaults, len(req.Headers))
	for k, v := range req.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	env := req
	env.Headers = headers
	env.Query = maps.Clone(req.Query)
	return &env
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

func canonicalHeaders(h map[string]string, extra int) map[string]string {
	out := make(map[string]string, len(h)+extra)
	for k, v := range h {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}
