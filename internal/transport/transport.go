// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport issues the HTTPS form posts of the login protocol.
//
// One deliberate difference from a generic API client: requests carry no
// client-side timeout. An out-of-band login is a long poll the server
// may hold open for as long as the user takes to approve it; the
// context, not a timer, ends a request early.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	// MaxResponseSize caps the response body. Login responses are a few
	// KB; the cap prevents memory exhaustion from a misbehaving server.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "passkeep-cli/0.1.0"
)

// Shared HTTP client with connection pooling for all login requests.
// No Timeout: out-of-band polls are context-controlled long polls.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// Client posts form-encoded requests to a login server. It implements
// login.Transport.
type Client struct {
	httpClient *http.Client

	// Verbose enables request/response logging. Bodies and headers are
	// never logged; they carry credentials.
	Verbose bool
}

// New returns a Client using the shared pooled HTTP client.
func New() *Client {
	return &Client{httpClient: sharedHTTPClient}
}

// PostForm posts an application/x-www-form-urlencoded body to
// https://{server}/{page} and returns the raw response body. A nil error
// guarantees a complete 200 response; anything else is a transport
// failure for the protocol layer to report.
func (c *Client) PostForm(ctx context.Context, server, page, form string) ([]byte, error) {
	requestURL := server
	if !strings.Contains(requestURL, "://") {
		requestURL = "https://" + requestURL
	}
	requestURL = strings.TrimSuffix(requestURL, "/") + "/" + page

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	c.logRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return body, nil
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// logRequest logs a request without exposing sensitive data.
// The form body carries the login hash; only method and path are safe.
func (c *Client) logRequest(req *http.Request) {
	if !c.Verbose {
		return
	}
	log.Printf("login request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs a response status and duration, never the body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	if !c.Verbose {
		return
	}
	log.Printf("login response: %d (%v)", resp.StatusCode, duration)
}
