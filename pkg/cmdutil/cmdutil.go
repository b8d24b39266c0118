// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yeetrun/argrouter/pkg/argrouter"
)

// Exit codes returned by ExitCode.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Confirm asks msg on w and reports whether the answer read from r was
// "y". An empty answer means no.
func Confirm(r io.Reader, w io.Writer, msg string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", msg)

	var confirm string
	_, err := fmt.Fscanln(r, &confirm)
	if err != nil && err.Error() != "unexpected newline" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if strings.ToLower(confirm) != "y" {
		return false, nil
	}
	return true, nil
}

// ExitCode maps the error returned by argrouter.Root.Parse to a process
// exit status: 0 for success or a help request, 2 for bad usage and 1
// for anything a router returned.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, argrouter.ErrHelp) {
		return ExitOK
	}
	var pe *argrouter.ParseError
	if errors.As(err, &pe) {
		return ExitUsage
	}
	return ExitError
}
