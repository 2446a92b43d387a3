package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/backendclient/diagnostic"
	"github.com/kbukum/backendclient/identity"
	"github.com/kbukum/backendclient/observability"
)

// Client talks to one backend. Every request runs through the same
// pipeline: request interceptors, send, then response interceptors on
// failure. A Client holds no per-request state and is safe for concurrent
// use.
type Client struct {
	httpClient           *http.Client
	config               Config
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	metrics              *observability.ClientMetrics
	tracer               trace.Tracer
}

type options struct {
	provider             identity.Provider
	sinks                []diagnostic.Sink
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	transport            http.RoundTripper
	metrics              *observability.ClientMetrics
	tracer               trace.Tracer
}

// Option configures a Client.
type Option func(*options)

// WithIdentity installs the credential attacher backed by provider.
func WithIdentity(provider identity.Provider) Option {
	return func(o *options) { o.provider = provider }
}

// WithDiagnostics installs the response classifier. Records fan out to
// every sink given across calls.
func WithDiagnostics(sinks ...diagnostic.Sink) Option {
	return func(o *options) { o.sinks = append(o.sinks, sinks...) }
}

// WithRequestInterceptor appends a request interceptor after the built-in
// ones.
func WithRequestInterceptor(i RequestInterceptor) Option {
	return func(o *options) { o.requestInterceptors = append(o.requestInterceptors, i) }
}

// WithResponseInterceptor appends a response interceptor after the
// built-in ones.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(o *options) { o.responseInterceptors = append(o.responseInterceptors, i) }
}

// WithTransport replaces the underlying round tripper. TLS settings from
// Config are ignored when a transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer overrides the tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New creates a client. The configuration is copied; later changes to cfg
// or its maps do not affect the client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	transport := o.transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			t.TLSClientConfig = tlsCfg
		}
		transport = t
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		config:  cfg,
		metrics: o.metrics,
		tracer:  o.tracer,
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer()
	}

	if o.provider != nil {
		c.requestInterceptors = append(c.requestInterceptors, CredentialAttacher(o.provider, cfg.IdentityHeader))
	}
	c.requestInterceptors = append(c.requestInterceptors, o.requestInterceptors...)

	if len(o.sinks) > 0 {
		c.responseInterceptors = append(c.responseInterceptors, ResponseClassifier(diagnostic.Multi(o.sinks...)))
	}
	c.responseInterceptors = append(c.responseInterceptors, o.responseInterceptors...)

	return c, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Do sends req through the pipeline. On an HTTP error status both the
// response and the error are returned. Errors are whatever the response
// interceptors hand back; with only the classifier installed that is the
// original *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, observability.SpanHTTPRequest, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrClientName, c.config.Name)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)
	observability.SetSpanAttribute(ctx, observability.AttrURLPath, req.Path)

	start := time.Now()
	c.metrics.RecordRequestStart(ctx)

	resp, err := c.do(ctx, req)

	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
		observability.SetSpanAttribute(ctx, observability.AttrHTTPStatusCode, resp.StatusCode)
	}
	if err != nil {
		if code, ok := errorCode(err); ok {
			observability.SetSpanAttribute(ctx, observability.AttrErrorCode, code.String())
		}
		observability.SetSpanError(ctx, err)
	}
	c.metrics.RecordRequestEnd(ctx, c.config.Name, req.Method, status, time.Since(start))

	return resp, err
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	env, err := c.interceptRequest(ctx, envelope(req, c.config.Headers))
	if err != nil {
		return nil, c.interceptError(ctx, env, err)
	}

	resp, err := c.executeRequest(ctx, env)
	if err != nil {
		return resp, c.interceptError(ctx, env, err)
	}
	return resp, nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// Close releases idle connections.
func (c *Client) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// executeRequest builds and sends the HTTP request.
func (c *Client) executeRequest(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}

	return result, nil
}

// buildRequest constructs an *http.Request from the envelope. The envelope
// already carries the default headers.
func (c *Client) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), ContentTypeJSON, nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func errorCode(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
