// Package restclient provides a minimal JSON client for the source query
// API.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIPath = "/api/v1/"
	defaultTimeout = 30 * time.Second
)

// RequestError is returned for any non-2xx response. Message holds the
// "message" field of the JSON error body when the server provides one,
// otherwise the raw body text.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client issues JSON requests against a fixed API root. One underlying
// http.Client is shared across all calls.
type Client struct {
	apiRoot    string
	httpClient *http.Client
}

func New(rootURL string) *Client {
	return NewWithClient(rootURL, &http.Client{Timeout: defaultTimeout})
}

func NewWithClient(rootURL string, httpClient *http.Client) *Client {
	return &Client{
		apiRoot:    strings.TrimRight(rootURL, "/") + defaultAPIPath,
		httpClient: httpClient,
	}
}

// Get issues a GET request to the given API path and decodes the JSON
// response into out.
func (c *Client) Get(ctx context.Context, api string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, api, params, nil, out)
}

// Post issues a POST request with the given body serialized to JSON.
func (c *Client) Post(ctx context.Context, api string, body interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, api, nil, body, out)
}

// Put issues a PUT request with the given body serialized to JSON.
func (c *Client) Put(ctx context.Context, api string, body interface{}, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPut, api, params, body, out)
}

// Delete issues a DELETE request to the given API path.
func (c *Client) Delete(ctx context.Context, api string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, api, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, api string, params url.Values, body interface{}, out interface{}) error {
	u := c.apiRoot + api
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	// 204 carries no body, treat it as an empty result
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
