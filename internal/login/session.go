// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Session is the authenticated context returned by a successful
// handshake. It is created once per handshake and owned by the caller.
type Session struct {
	// UID is the account identifier reported by the server.
	UID string

	// ID is the server session identifier.
	ID string

	// Token authenticates follow-up requests.
	Token string

	// PrivateKey is the RSA private-key material recovered from the
	// login response, already validated against the derived key.
	PrivateKey []byte

	// Server is the host that actually authenticated the session. After
	// regional redirection this differs from the configured server, and
	// all follow-up requests must go here.
	Server string
}

// Credential is the locally derived login material for one attempt.
// The Key never goes on the wire; it only validates the session response.
type Credential struct {
	// Username is the case-folded account identifier.
	Username string

	// Hash is the hex authentication hash posted to the server.
	Hash string

	// Iterations is the KDF iteration count.
	Iterations int

	// Key is the derived decryption key.
	Key []byte
}

var usernameLower = cases.Lower(language.Und)

// CaseFoldUsername normalizes an account identifier the way the server
// expects it: NFC-normalized, Unicode-lowercased, trimmed.
func CaseFoldUsername(username string) string {
	return usernameLower.String(norm.NFC.String(strings.TrimSpace(username)))
}
