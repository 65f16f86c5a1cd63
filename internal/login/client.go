// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Transport posts a form-encoded body to a server endpoint and returns
// the raw response body. All protocol failures are reported through the
// response content, not the error; the error means no response at all.
type Transport interface {
	PostForm(ctx context.Context, server, page, form string) ([]byte, error)
}

// Parser extracts typed results from raw server responses.
type Parser interface {
	// ParseSession returns the session carried by reply, validated
	// against the derived key, or nil when reply is not a valid
	// session response.
	ParseSession(reply []byte, key []byte) *Session

	// ExtractField returns the named optional field of an error
	// response, with ok=false when absent.
	ExtractField(reply []byte, name string) (value string, ok bool)
}

// Prompter reads a one-time code from the user. ok=false means the user
// aborted input. annotation, when non-empty, is an error line shown
// above the prompt (e.g. after a rejected code).
type Prompter interface {
	ReadSecret(label, annotation, format string, args ...any) (value string, ok bool)
}

// StatusLine is the single-line progress display bracketing the
// out-of-band wait. Clear must be safe to call on every exit path.
type StatusLine interface {
	Show(text string)
	Progress()
	Clear()
}

// TrustStore hands out the persisted device trust identifier and the
// ephemeral device label.
type TrustStore interface {
	TrustID(forceCreate bool) (string, error)
	DeviceLabel() (string, error)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client runs the login handshake. Zero-value collaborators are not
// usable; construct with New and override fields as needed.
type Client struct {
	Transport Transport
	Parser    Parser
	Prompt    Prompter
	Status    StatusLine
	Trust     TrustStore

	// Server is the primary login server host.
	Server string

	// MaxRedirects bounds regional-redirection hops in one attempt.
	MaxRedirects int

	// PollLimiter, when non-nil, paces the out-of-band poll loop. Nil
	// polls as fast as the server responds.
	PollLimiter *rate.Limiter

	// PollMaxWait, when positive, caps the total out-of-band wait.
	// Zero never times out client-side; approval can take as long as
	// the user takes to reach their phone.
	PollMaxWait time.Duration
}

// New returns a Client with the given collaborators and defaults.
func New(transport Transport, parser Parser, prompt Prompter, status StatusLine, trust TrustStore) *Client {
	return &Client{
		Transport:    transport,
		Parser:       parser,
		Prompt:       prompt,
		Status:       status,
		Trust:        trust,
		Server:       "lastpass.com",
		MaxRedirects: 3,
	}
}

func (c *Client) maxRedirects() int {
	if c.MaxRedirects < 1 {
		return 3
	}
	return c.MaxRedirects
}

// serverFailure builds the terminal failure for an error response,
// surfacing the server's own message when one can be extracted.
func (c *Client) serverFailure(reply []byte) Outcome {
	if message, ok := c.Parser.ExtractField(reply, "message"); ok {
		return failure(filterMessage(message))
	}
	return failure(msgUnparseableError)
}
