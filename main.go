// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// passkeep - command-line client for LastPass-compatible password vaults.
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/passkeep/internal/cli"
)

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdLogin:
		os.Exit(cli.HandleLogin(args))
	case cli.CmdVersion:
		fmt.Printf("passkeep %s (commit %s, built %s)\n", cli.Version, cli.GitCommit, cli.BuildDate)
	case cli.CmdHelp:
		cli.Usage()
	}
}
