// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt reads secrets interactively without echoing them.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/term"
)

// Terminal prompts on a TTY using non-echoing input. It implements
// login.Prompter.
type Terminal struct {
	In  *os.File
	Out io.Writer
}

// NewTerminal prompts on stdin, writing prompt text to stderr so stdout
// stays clean for scripting.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

// ReadSecret displays the prompt described by format/args, preceded by
// annotation when non-empty, then reads a line without echo. ok=false
// means the user aborted (interrupt, EOF, or empty input).
func (t *Terminal) ReadSecret(label, annotation, format string, args ...any) (string, bool) {
	if annotation != "" {
		fmt.Fprintln(t.Out, annotation)
	}
	fmt.Fprintf(t.Out, format+"\n", args...)
	fmt.Fprintf(t.Out, "%s: ", label)

	value, err := term.ReadPassword(int(t.In.Fd()))
	fmt.Fprintln(t.Out)
	secret := strings.TrimSpace(string(value))
	if err != nil || secret == "" {
		return "", false
	}
	return secret, true
}

// =============================================================================
// TOTP AUTOFILL
// =============================================================================

// SecretReader is the prompting contract TOTPAutofill wraps.
type SecretReader interface {
	ReadSecret(label, annotation, format string, args ...any) (string, bool)
}

// TOTPAutofill answers the first one-time-code prompt with a code
// generated from a configured TOTP secret, falling through to the
// wrapped prompter afterwards. If the challenge was not TOTP-based the
// server rejects the generated code and the retry (which carries an
// error annotation) reaches the user as usual.
type TOTPAutofill struct {
	Secret   string
	Fallback SecretReader

	used bool
}

func (a *TOTPAutofill) ReadSecret(label, annotation, format string, args ...any) (string, bool) {
	if !a.used && annotation == "" {
		a.used = true
		if code, err := totp.GenerateCode(a.Secret, time.Now()); err == nil {
			return code, true
		}
	}
	return a.Fallback.ReadSecret(label, annotation, format, args...)
}
