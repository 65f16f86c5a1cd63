// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import "strings"

// =============================================================================
// PROTOCOL CONSTANTS
// =============================================================================

const (
	// loginPage is the login endpoint path.
	loginPage = "login.php"

	// trustPage is the trust-enrollment endpoint path.
	trustPage = "trust.php"

	// altServer is the only regional host the server may redirect to.
	altServer = "lastpass.eu"

	// causeOutOfBand marks a login held for out-of-band approval.
	causeOutOfBand = "outofbandrequired"
)

// Final failure messages. These are the strings callers display; existing
// clients emit the same text.
const (
	msgUnableToPost     = "Unable to post login request."
	msgUnknownCause     = "Unable to determine login failure cause."
	msgUnparseableError = "Could not parse error message to login request."
	msgUnknownOutOfBand = "Could not determine out-of-band type."
	msgAbortedChallenge = "Aborted multifactor authentication."
	msgAbortedOutOfBand = "Aborted out-of-band authentication."
	msgTooManyRedirects = "Too many server redirections."
	msgUnspecified      = "An unspecified error occurred."
	msgInvalidCodeRetry = "Invalid multifactor code; please try again."
)

// noiseSuffix is browser-extension boilerplate the server appends to some
// error messages; it is meaningless in a CLI and gets stripped.
const noiseSuffix = " Upgrade your browser extension so you can enter it."

// =============================================================================
// LOGIN OUTCOME
// =============================================================================

// OutcomeKind enumerates the result of one request/response cycle.
// Redirection is resolved inside the attempt and never escapes as a kind.
type OutcomeKind int

const (
	// OutcomeSuccess carries an authenticated session.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeMultifactor means the server wants a one-time code; Cause
	// selects the challenge.
	OutcomeMultifactor

	// OutcomeOutOfBand means the server is holding the login for
	// out-of-band approval.
	OutcomeOutOfBand

	// OutcomeFailure ends the flow with Message.
	OutcomeFailure
)

// Outcome is the tagged result of a request/response cycle. Exactly the
// fields implied by Kind are set; it is never persisted.
type Outcome struct {
	Kind    OutcomeKind
	Session *Session
	Cause   string
	Message string
}

func failure(message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Message: message}
}

// Error is a terminal, human-readable login failure. It is recoverable
// in the sense that the user may simply try again; contrast
// trust.EnvironmentError, which must halt the flow.
type Error struct {
	// Message is the display text.
	Message string

	// Cause is the server-reported failure cause, when one was present.
	Cause string
}

func (e *Error) Error() string {
	return e.Message
}

// filterMessage strips server boilerplate from a display message.
func filterMessage(message string) string {
	if i := strings.Index(message, noiseSuffix); i >= 0 {
		return message[:i]
	}
	return message
}
