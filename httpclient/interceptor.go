package httpclient

import "context"

// RequestInterceptor runs before a request is sent. It receives the
// client's private envelope and returns the envelope to send, which may be
// the same value modified in place. A non-nil error aborts the request: it
// is never sent and the error goes through the response interceptors like
// any other failure.
type RequestInterceptor func(ctx context.Context, req *Request) (*Request, error)

// ResponseInterceptor runs on every failed request, including requests that
// never reached the backend. It returns the error to hand to the caller.
// Successful responses bypass response interceptors.
type ResponseInterceptor func(ctx context.Context, req *Request, err error) error

// interceptRequest applies the request interceptors in registration order.
func (c *Client) interceptRequest(ctx context.Context, req *Request) (*Request, error) {
	for _, intercept := range c.requestInterceptors {
		next, err := intercept(ctx, req)
		if err != nil {
			return req, err
		}
		if next != nil {
			req = next
		}
	}
	return req, nil
}

// interceptError applies the response interceptors in registration order.
func (c *Client) interceptError(ctx context.Context, req *Request, err error) error {
	for _, intercept := range c.responseInterceptors {
		err = intercept(ctx, req, err)
	}
	return err
}
