// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status renders the single-line progress display used while a
// login waits on out-of-band approval. Show/Progress/Clear bracket the
// wait; Clear is safe on every exit path and restores the terminal.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal writes the status line to a terminal (stderr by default),
// falling back to plain lines when the writer is not a TTY. It
// implements login.StatusLine.
type Terminal struct {
	w     io.Writer
	out   *termenv.Output
	tty   bool
	width int
	shown bool
}

// NewTerminal returns a status line on stderr.
func NewTerminal() *Terminal {
	return NewTerminalWriter(os.Stderr)
}

// NewTerminalWriter returns a status line on w.
func NewTerminalWriter(w io.Writer) *Terminal {
	t := &Terminal{w: w, out: termenv.NewOutput(w), width: 80}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tty = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			t.width = width
		}
	}
	return t
}

// Show displays text as the current status line, without a newline so
// Progress can extend it.
func (t *Terminal) Show(text string) {
	if t.shown {
		t.Clear()
	}
	if t.tty {
		text = runewidth.Truncate(text, t.width-1, "…")
		styled := t.out.String(text).Foreground(termenv.ANSIYellow).Bold()
		fmt.Fprint(t.w, styled.String())
	} else {
		fmt.Fprint(t.w, text)
	}
	t.shown = true
}

// Progress appends one pending-poll indicator to the status line.
func (t *Terminal) Progress() {
	if !t.shown {
		return
	}
	fmt.Fprint(t.w, ".")
}

// Clear removes the status line. Idempotent; callers defer it so every
// exit path restores the terminal.
func (t *Terminal) Clear() {
	if !t.shown {
		return
	}
	if t.tty {
		fmt.Fprint(t.w, "\r")
		t.out.ClearLine()
	} else {
		fmt.Fprintln(t.w)
	}
	t.shown = false
}
