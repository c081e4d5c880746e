// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bookingclient provides a typed HTTP client for the remote
// event-booking service. It is the only component that speaks HTTP to
// the service: the catalog controller, the CLI, and the interactive
// viewer all go through it.
//
// The four verbs (Fetch, Create, Replace, Remove) carry an optional
// bearer token and decode JSON responses. Every failure is one of two
// types: *APIError when the service answered with a non-2xx status, or
// *TransportError when no usable answer arrived at all.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/bureau-foundation/eventdesk/lib/netutil"
)

// RequestIDHeader carries a per-request UUID so that client and
// service logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// Client is a typed HTTP client for the booking service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default client
// applies no timeout; callers bound requests through the context.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// New creates a Client for the service at baseURL (for example
// "http://localhost:8080"). A trailing slash is ignored.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing service URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("service URL %q: scheme must be http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("service URL %q has no host", baseURL)
	}

	client := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// BaseURL returns the service URL this client was configured with.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Fetch performs GET path and decodes the response into out.
func (client *Client) Fetch(ctx context.Context, path, token string, out any) error {
	return client.do(ctx, http.MethodGet, path, token, nil, out)
}

// Create performs POST path with body encoded as JSON.
func (client *Client) Create(ctx context.Context, path, token string, body, out any) error {
	return client.do(ctx, http.MethodPost, path, token, body, out)
}

// Replace performs PUT path with body encoded as JSON.
func (client *Client) Replace(ctx context.Context, path, token string, body, out any) error {
	return client.do(ctx, http.MethodPut, path, token, body, out)
}

// Remove performs DELETE path.
func (client *Client) Remove(ctx context.Context, path, token string, out any) error {
	return client.do(ctx, http.MethodDelete, path, token, nil, out)
}

// do issues one request. A nil out discards the response body. A
// non-empty token is sent as "Authorization: Bearer <token>".
func (client *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	if reader != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set(RequestIDHeader, uuid.NewString())
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		data, _ := netutil.ReadResponse(response.Body)
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: response.StatusCode,
			Message:    netutil.ErrorMessage(data, response.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := netutil.DecodeResponse(response.Body, out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
