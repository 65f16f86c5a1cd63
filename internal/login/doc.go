// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login implements the client-side login handshake against a
// LastPass-compatible secret-storage server.
//
// The handshake is a single-threaded protocol state machine: an initial
// form post, then branching on the server-reported failure cause into
// regional redirection, interactive multifactor challenges, or an
// out-of-band (push) approval poll, ending in either an authenticated
// Session or a terminal failure message.
//
// Transport, wire parsing, prompting, status display, and trust storage
// are collaborators injected into Client; this package owns only the
// protocol sequencing.
package login
