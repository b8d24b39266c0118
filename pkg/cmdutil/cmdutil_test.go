// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yeetrun/argrouter/pkg/argrouter"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"upper", "Y\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"word", "yes\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(strings.NewReader(tt.input), &out, "Overwrite b.txt?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if out.String() != "Overwrite b.txt? [y/N]: " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestConfirmEOF(t *testing.T) {
	var out bytes.Buffer
	if _, err := Confirm(strings.NewReader(""), &out, "Continue?"); err == nil {
		t.Error("Confirm() on closed input succeeded")
	}
}

func TestExitCode(t *testing.T) {
	root := argrouter.MustNew(
		argrouter.Help(argrouter.LongName("help"), argrouter.Description("Show help")),
		argrouter.Mode(
			argrouter.NoneName("run"),
			argrouter.Positional[string](
				argrouter.DisplayName("FILE"),
				argrouter.Description("Input file"),
				argrouter.Required(),
				argrouter.FixedCount(1),
			),
			argrouter.Router(func(_ context.Context, v argrouter.Values) error {
				if argrouter.Get[string](v, "FILE") == "fail" {
					return errors.New("boom")
				}
				return nil
			}),
		),
	)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"ok", []string{"run", "a"}, ExitOK},
		{"help", []string{"--help"}, ExitOK},
		{"unknown", []string{"walk"}, ExitUsage},
		{"missing", []string{"run"}, ExitUsage},
		{"router", []string{"run", "fail"}, ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := root.Parse(context.Background(), tt.args)
			if got := ExitCode(err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}

	if got := ExitCode(fmt.Errorf("wrapped: %w", &argrouter.ParseError{})); got != ExitUsage {
		t.Errorf("ExitCode(wrapped ParseError) = %d, want %d", got, ExitUsage)
	}
}
