// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kdf derives the login credentials from the master password.
//
// Two values come out of the master password and never meet on the wire
// at the same time:
//
//   - the decryption key, kept local and used to validate the encrypted
//     private-key material in the login response
//   - the login hash, a hex digest posted to the server as the "hash"
//     form field
//
// Both follow the LastPass-compatible scheme: PBKDF2-SHA256 over the
// lowercased username as salt, with one extra round binding the derived
// key back to the password for the login hash. Accounts created before
// iterated KDFs exist use the iterations<=1 plain SHA-256 form.
package kdf

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyLen is the length of the derived decryption key in bytes.
	KeyLen = 32

	// HashHexLen is the length of the hex login hash.
	HashHexLen = 64
)

// DeriveKey computes the local decryption key for a username and master
// password. The username must already be case-folded; the key never
// leaves the process.
func DeriveKey(username, password string, iterations int) []byte {
	if iterations <= 1 {
		sum := sha256.Sum256([]byte(username + password))
		return sum[:]
	}
	return pbkdf2.Key([]byte(password), []byte(username), iterations, KeyLen, sha256.New)
}

// LoginHash computes the hex authentication hash posted to the server.
// It is derived from the decryption key, not the raw password, so the
// server never learns enough to reconstruct the key.
func LoginHash(key []byte, password string, iterations int) string {
	if iterations <= 1 {
		sum := sha256.Sum256([]byte(hex.EncodeToString(key) + password))
		return hex.EncodeToString(sum[:])
	}
	return hex.EncodeToString(pbkdf2.Key(key, []byte(password), 1, KeyLen, sha256.New))
}
