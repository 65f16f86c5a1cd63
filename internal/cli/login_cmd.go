// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login_cmd.go - The login command: derive credentials, run the
// handshake, cache the session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/passkeep/internal/config"
	"github.com/jeranaias/passkeep/internal/kdf"
	"github.com/jeranaias/passkeep/internal/login"
	"github.com/jeranaias/passkeep/internal/prompt"
	"github.com/jeranaias/passkeep/internal/protocol"
	"github.com/jeranaias/passkeep/internal/status"
	"github.com/jeranaias/passkeep/internal/transport"
	"github.com/jeranaias/passkeep/internal/trust"
)

// HandleLogin runs the login command and returns the process exit code.
func HandleLogin(args Args) int {
	if args.Username == "" {
		fmt.Fprintln(os.Stderr, errorStyle.Render("login requires a username"))
		Usage()
		return 1
	}
	if err := RequiresTTY("log in"); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	cfg := config.Global()

	store, err := config.NewStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 2
	}

	username := login.CaseFoldUsername(args.Username)
	iterations := cfg.Login.Iterations
	if args.Iterations > 0 {
		iterations = args.Iterations
	}

	terminal := prompt.NewTerminal()
	password, ok := terminal.ReadSecret("Master Password", "",
		"Please enter the master password for <%s>.", username)
	if !ok {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Aborted."))
		return 1
	}

	key := kdf.DeriveKey(username, password, iterations)
	cred := &login.Credential{
		Username:   username,
		Hash:       kdf.LoginHash(key, password, iterations),
		Iterations: iterations,
		Key:        key,
	}

	var prompter login.Prompter = terminal
	if cfg.Login.TOTPSecret != "" {
		prompter = &prompt.TOTPAutofill{Secret: cfg.Login.TOTPSecret, Fallback: terminal}
	}

	httpTransport := transport.New()
	httpTransport.Verbose = args.Verbose

	client := login.New(
		httpTransport,
		&protocol.Parser{},
		prompter,
		status.NewTerminal(),
		trust.NewManager(store),
	)
	client.Server = cfg.Login.Server
	client.MaxRedirects = cfg.Login.MaxRedirects
	if cfg.Login.PollIntervalMS > 0 {
		interval := time.Duration(cfg.Login.PollIntervalMS) * time.Millisecond
		client.PollLimiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	if cfg.Login.PollMaxWaitSecs > 0 {
		client.PollMaxWait = time.Duration(cfg.Login.PollMaxWaitSecs) * time.Second
	}

	fragmentID := args.Fragment
	if fragmentID == "" && args.GenFragment {
		fragmentID = uuid.NewString()
	}

	// Ctrl+C during the out-of-band wait cancels the poll and falls back
	// to a passcode prompt when the factor supports one.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session, err := client.Login(ctx, cred, fragmentID, args.Trust)
	if err != nil {
		var envErr *trust.EnvironmentError
		if errors.As(err, &envErr) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("fatal: "+envErr.Error()))
			return 2
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}

	cacheSession(store, session)

	message := "Logged in as " + username + "."
	if IsStdoutTTY() {
		message = successStyle.Render(message)
	}
	fmt.Println(message)
	if args.Verbose {
		fmt.Println(dimStyle.Render("session id: " + session.ID))
	}
	return 0
}

// cacheSession persists the session identifiers so later commands can
// reuse them. Best effort; the login already succeeded.
func cacheSession(store *config.Store, session *login.Session) {
	for key, value := range map[string]string{
		"session_server": session.Server,
		"session_uid":    session.UID,
		"session_token":  session.Token,
	} {
		if err := store.WriteString(key, value); err != nil {
			fmt.Fprintln(os.Stderr, dimStyle.Render("warning: could not cache "+key))
		}
	}
}
