package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RequestOptions describes one call made through Request.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Body is JSON encoded when non-nil.
	Body interface{}
	// Headers are added after Content-Type and before Authorization.
	Headers map[string]string
}

// APIError is a non-2xx response from the API. Error returns the server's
// message, or "HTTP error! status: <code>" when the body carried none.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// Request performs a JSON call against endpoint (a path relative to the base
// URL) and decodes a successful response body into T. An empty body yields the
// zero T. Transport failures are returned as they come from the HTTP client.
func Request[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var out T

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return out, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, opts.Method, endpoint, body)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	data, err := c.send(req)
	if err != nil {
		return out, err
	}
	if err := decodeJSON(data, &out); err != nil {
		return out, fmt.Errorf("decode %s %s response: %w", req.Method, endpoint, err)
	}
	return out, nil
}

// decodeJSON leaves dst untouched when data is empty.
func decodeJSON(data []byte, dst interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

// send is the single place a request reaches the network.
func (c *Client) send(req *http.Request) ([]byte, error) {
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("api request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("HTTP error! status: %d", status),
		Body:    body,
	}

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Message) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(payload.Message, &msg); err == nil {
		if msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	}
	// validation pipes answer with a list of messages
	var list []string
	if err := json.Unmarshal(payload.Message, &list); err == nil && len(list) > 0 {
		apiErr.Message = strings.Join(list, ", ")
	}
	return apiErr
}
