// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package trust manages the device trust identifier and label used for
// trusted-device enrollment.
//
// The identifier is generated once, persisted, and reused for every
// later login so the server can recognize the device. The label is a
// human-readable "hostname - OS release" string recomputed at each
// enrollment and never persisted.
package trust

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// idLength is the length of a generated trust identifier.
	idLength = 32

	// idAlphabet is the identifier alphabet. The server treats the id
	// as an opaque token; the set matches what existing clients emit.
	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890!@#$"

	// storeKey is the key the identifier persists under.
	storeKey = "trusted_id"
)

// Store is the persistence passkeep keeps the identifier in.
type Store interface {
	ReadString(key string) (value string, ok bool)
	WriteString(key, value string) error
}

// Manager hands out the persisted trust identifier and the device label.
type Manager struct {
	store Store
}

// NewManager returns a Manager backed by store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// TrustID returns the persisted trust identifier. When none exists and
// forceCreate is set, a fresh identifier is generated, persisted, and
// returned; otherwise the empty string means "no trusted device".
func (m *Manager) TrustID(forceCreate bool) (string, error) {
	if id, ok := m.store.ReadString(storeKey); ok {
		return id, nil
	}
	if !forceCreate {
		return "", nil
	}

	id, err := generateID()
	if err != nil {
		return "", err
	}
	if err := m.store.WriteString(storeKey, id); err != nil {
		return "", fmt.Errorf("failed to persist trust id: %w", err)
	}
	return id, nil
}

// DeviceLabel returns the human-readable device label for enrollment.
// Failure is an *EnvironmentError: the host cannot describe itself, and
// no retry of the login flow will change that.
func (m *Manager) DeviceLabel() (string, error) {
	return deviceLabel()
}

// generateID draws idLength characters uniformly from idAlphabet.
func generateID() (string, error) {
	max := big.NewInt(int64(len(idAlphabet)))
	buf := make([]byte, idLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate trust id: %w", err)
		}
		buf[i] = idAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// =============================================================================
// ENVIRONMENT ERRORS
// =============================================================================

// EnvironmentError reports that required host information could not be
// obtained. It is non-retryable: callers must halt the flow rather than
// surface it as an ordinary login failure.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("failed to determine %s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
