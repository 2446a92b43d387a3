package httpclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeCredential, "credential"},
		{ErrCodeUnauthorized, "unauthorized"},
		{ErrCodeForbidden, "forbidden"},
		{ErrCodeNotFound, "not_found"},
		{ErrCodeRateLimit, "rate_limit"},
		{ErrCodeValidation, "validation"},
		{ErrCodeServer, "server"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := ClassifyStatusCode(503, nil)
	want := "httpclient: server (HTTP 503): request failed with status code 503"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	want2 := "httpclient: connection: connection refused"
	if got := e2.Error(); got != want2 {
		t.Errorf("got %q, want %q", got, want2)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("provider unavailable")
	e := NewCredentialError(inner)
	if !errors.Is(e, inner) {
		t.Error("credential error should wrap the provider error")
	}
	if e.HasResponse() {
		t.Error("credential error has no response")
	}
}

func TestError_Payload(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want any
	}{
		{"empty", nil, nil},
		{"json object", []byte(`{"error":"expired"}`), map[string]any{"error": "expired"}},
		{"plain text", []byte("upstream timeout"), "upstream timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := (&Error{Body: tc.body}).Payload()
			if fmt.Sprint(got) != fmt.Sprint(tc.want) {
				t.Errorf("Payload() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
	}{
		{200, true, 0},
		{204, true, 0},
		{304, true, 0},
		{400, false, ErrCodeValidation},
		{401, false, ErrCodeUnauthorized},
		{403, false, ErrCodeForbidden},
		{404, false, ErrCodeNotFound},
		{409, false, ErrCodeValidation},
		{429, false, ErrCodeRateLimit},
		{500, false, ErrCodeServer},
		{503, false, ErrCodeServer},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("HTTP_%d", tt.code), func(t *testing.T) {
			body := []byte(`{"error":"test"}`)
			err := ClassifyStatusCode(tt.code, body)
			if tt.wantNil {
				if err != nil {
					t.Errorf("expected nil error for %d, got %v", tt.code, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error for %d", tt.code)
			}
			if err.Code != tt.errCode {
				t.Errorf("code = %s, want %s", err.Code, tt.errCode)
			}
			if err.StatusCode != tt.code {
				t.Errorf("status = %d, want %d", err.StatusCode, tt.code)
			}
			if string(err.Body) != string(body) {
				t.Errorf("body = %q", err.Body)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	wrapped := func(e error) error { return fmt.Errorf("outer: %w", e) }

	checks := []struct {
		name string
		fn   func(error) bool
		err  error
	}{
		{"IsTimeout", IsTimeout, NewTimeoutError(errors.New("deadline"))},
		{"IsConnection", IsConnection, NewConnectionError(errors.New("refused"))},
		{"IsCredential", IsCredential, NewCredentialError(errors.New("no token"))},
		{"IsUnauthorized", IsUnauthorized, ClassifyStatusCode(401, nil)},
		{"IsForbidden", IsForbidden, ClassifyStatusCode(403, nil)},
		{"IsNotFound", IsNotFound, ClassifyStatusCode(404, nil)},
		{"IsRateLimit", IsRateLimit, ClassifyStatusCode(429, nil)},
		{"IsServerError", IsServerError, ClassifyStatusCode(502, nil)},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !c.fn(c.err) {
				t.Errorf("%s should match direct error", c.name)
			}
			if !c.fn(wrapped(c.err)) {
				t.Errorf("%s should match wrapped error", c.name)
			}
			if c.fn(errors.New("plain")) {
				t.Errorf("%s should not match plain error", c.name)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	if got := StatusCode(ClassifyStatusCode(403, nil)); got != 403 {
		t.Errorf("got %d", got)
	}
	if got := StatusCode(errors.New("x")); got != 0 {
		t.Errorf("got %d", got)
	}
}
