// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build unix

package trust

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

// deviceLabel builds the label from uname(2): "nodename - sysname release".
func deviceLabel() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", &EnvironmentError{Op: "uname", Err: err}
	}
	return fmt.Sprintf("%s - %s %s",
		utsString(uts.Nodename[:]),
		utsString(uts.Sysname[:]),
		utsString(uts.Release[:])), nil
}

// utsString converts a NUL-terminated utsname field to a Go string.
func utsString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
