// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helpfmt

import (
	"os"

	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Options controls Text rendering. The zero value renders DefaultWidth
// columns without colour.
type Options struct {
	Width int
	Color bool
}

// Detect returns options suited to f: its terminal width, and colour
// unless NO_COLOR is set, TERM is empty or dumb, or f is not a terminal.
func Detect(f *os.File) Options {
	return Options{Width: TerminalWidth(f), Color: ColorEnabled(f)}
}

// TerminalWidth returns the column count of the terminal behind f, or
// DefaultWidth.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// ColorEnabled reports whether escape sequences should be written to f.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
