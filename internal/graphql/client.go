// Package graphql is a minimal client for the catalog service's GraphQL
// endpoint: one POST of {query, variables}, answered with {data, errors}.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CodeUnauthenticated is the extensions.code the catalog uses for a rejected credential.
const CodeUnauthenticated = "UNAUTHENTICATED"

// Request is the POST body.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Error is one entry of the errors array.
type Error struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// Response is the decoded reply body.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Unauthenticated reports whether any error carries CodeUnauthenticated.
func (r *Response) Unauthenticated() bool {
	for _, e := range r.Errors {
		if e.Extensions.Code == CodeUnauthenticated {
			return true
		}
	}
	return false
}

// Err returns the first remote error, or nil.
func (r *Response) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &RemoteError{Message: r.Errors[0].Message, Code: r.Errors[0].Extensions.Code}
}

// Decode unmarshals data into v. Missing data is an error.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 || bytes.Equal(r.Data, []byte("null")) {
		return ErrNoData
	}
	return json.Unmarshal(r.Data, v)
}

// ErrNoData is returned by Decode when the reply has no data.
var ErrNoData = errors.New("graphql: response has no data")

// HTTPError is a non-2xx reply. The body is not inspected.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// RemoteError is the first entry of a reply's errors array.
type RemoteError struct {
	Message string
	Code    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsUnauthenticated reports whether err is a RemoteError with CodeUnauthenticated.
func IsUnauthenticated(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Code == CodeUnauthenticated
}

// Client posts operations to a single endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	header   http.Header
}

// NewClient returns a client for endpoint. A nil hc means http.DefaultClient.
func NewClient(endpoint string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: hc, header: http.Header{}}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SetHeader adds a header sent with every request. Not safe to call concurrently with Do.
func (c *Client) SetHeader(key, value string) {
	c.header.Set(key, value)
}

// Do sends one operation. token, when non-empty, is sent as a bearer
// credential. Transport failures and non-2xx replies are returned as errors;
// remote errors are left in the Response for the caller to interpret.
func (c *Client) Do(ctx context.Context, token, query string, vars map[string]any) (*Response, error) {
	b, err := json.Marshal(Request{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
