package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

const (
	// StatusPath is probed by TestConnection.
	StatusPath = "/status"
	// HealthPath is probed by HealthCheck.
	HealthPath = "/health"

	connectionFailedPrefix = "Backend connection failed: "
)

// TestConnection asks the backend for its status. On failure the returned
// error only carries the original message; the status code and payload of
// the original failure are not reachable from it.
func (c *Client) TestConnection(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: StatusPath})
	if err != nil {
		return nil, errors.New(connectionFailedPrefix + err.Error())
	}
	return json.RawMessage(resp.Body), nil
}

// HealthCheck asks the backend for its health. Failures are returned as
// produced by the pipeline.
func (c *Client) HealthCheck(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: HealthPath})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body), nil
}
