// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for passkeep.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdLogin Command = iota
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Username is the account to log in as.
	Username string

	// Trust requests trusted-device enrollment for this login.
	Trust bool

	// Fragment is the fragment correlation id; GenFragment asks for a
	// generated one instead.
	Fragment    string
	GenFragment bool

	// Iterations overrides the configured KDF iteration count (0 = use config).
	Iterations int

	// Verbose enables request/response logging.
	Verbose bool
}

const usageText = `passkeep - command-line client for LastPass-compatible vaults

Usage:
  passkeep login USERNAME       Log in and cache a session
  passkeep version              Show version information
  passkeep help                 Show this help

Login flags:
  --trust                       Enroll this device as trusted
  --fragment[=ID]               Send a fragment correlation id
                                (generated when ID is omitted)
  --iterations=N                Override the KDF iteration count
  -v, --verbose                 Log requests and responses

Configuration:
  ~/.passkeep/config.toml       login.server, login.iterations,
                                login.poll_interval_ms,
                                login.poll_max_wait_secs,
                                login.totp_secret
  PASSKEEP_LOGIN_SERVER         Override the login server
  PASSKEEP_ITERATIONS           Override the iteration count
  PASSKEEP_TOTP_SECRET          TOTP secret for code autofill
`

// Usage prints the CLI usage text.
func Usage() {
	fmt.Fprint(os.Stderr, usageText)
}

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	args := Args{}
	argv := os.Args[1:]
	if len(argv) == 0 {
		return CmdHelp, args
	}

	cmd := CmdHelp
	switch argv[0] {
	case "login":
		cmd = CmdLogin
	case "version", "--version":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", argv[0])
		return CmdHelp, args
	}

	for _, arg := range argv[1:] {
		switch {
		case arg == "--trust":
			args.Trust = true
		case arg == "--fragment":
			args.GenFragment = true
		case strings.HasPrefix(arg, "--fragment="):
			args.Fragment = strings.TrimPrefix(arg, "--fragment=")
		case strings.HasPrefix(arg, "--iterations="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--iterations=")); err == nil && n > 0 {
				args.Iterations = n
			}
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
		case args.Username == "":
			args.Username = arg
		}
	}

	return cmd, args
}
