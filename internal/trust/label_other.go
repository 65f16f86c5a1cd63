// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !unix

package trust

import (
	"fmt"
	"os"
	"runtime"
)

// deviceLabel approximates the unix uname label on platforms without it.
func deviceLabel() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", &EnvironmentError{Op: "hostname", Err: err}
	}
	return fmt.Sprintf("%s - %s %s", host, runtime.GOOS, runtime.GOARCH), nil
}
