// Package httpclienttest provides a fake backend for exercising the HTTP
// client end to end.
package httpclienttest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// Received is one request seen by the Backend.
type Received struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Reply is the canned answer for a path. Body is written as is when it is
// a []byte or string, otherwise JSON-encoded.
type Reply struct {
	Status int
	Body   any
}

// Backend is a gin-based fake backend. It answers /status and /health with
// 200 by default and records every request it receives.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	received []Received
}

// DefaultStatusBody and DefaultHealthBody are the payloads served until
// overridden with Reply.
var (
	DefaultStatusBody = []byte(`{"status":"ok","version":"test"}`)
	DefaultHealthBody = []byte(`{"status":"healthy"}`)
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewBackend starts a Backend. The caller closes it.
func NewBackend() *Backend {
	b := &Backend{replies: defaultReplies()}

	engine := gin.New()
	engine.Use(b.record)
	engine.Any("/*path", b.serve)

	b.Server = httptest.NewServer(engine)
	return b
}

func defaultReplies() map[string]Reply {
	return map[string]Reply{
		"/status": {Status: http.StatusOK, Body: DefaultStatusBody},
		"/health": {Status: http.StatusOK, Body: DefaultHealthBody},
	}
}

// Reset forgets recorded requests and restores the default replies.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies = defaultReplies()
	b.received = nil
}

// Reply sets the answer for path.
func (b *Backend) Reply(path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[path] = Reply{Status: status, Body: body}
}

// Requests returns a copy of every request received so far.
func (b *Backend) Requests() []Received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Received(nil), b.received...)
}

// Count returns the number of requests received.
func (b *Backend) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.received)
}

// Last returns the most recent request.
func (b *Backend) Last() (Received, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.received) == 0 {
		return Received{}, false
	}
	return b.received[len(b.received)-1], true
}

func (b *Backend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	rec := Received{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   body,
	}

	b.mu.Lock()
	b.received = append(b.received, rec)
	b.mu.Unlock()

	c.Next()
}

func (b *Backend) serve(c *gin.Context) {
	b.mu.Lock()
	reply, ok := b.replies[c.Request.URL.Path]
	b.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	switch body := reply.Body.(type) {
	case nil:
		c.Status(reply.Status)
	case []byte:
		c.Data(reply.Status, "application/json", body)
	case string:
		c.Data(reply.Status, "text/plain; charset=utf-8", []byte(body))
	default:
		c.JSON(reply.Status, body)
	}
}
