// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argrouter/pkg/cmdutil"
)

type harness struct {
	app            *app
	stdout, stderr *bytes.Buffer
}

func newHarness(cfg *Config, stdin string) *harness {
	h := &harness{stdout: new(bytes.Buffer), stderr: new(bytes.Buffer)}
	if cfg == nil {
		cfg = defaultConfig()
	}
	h.app = newApp(cfg, strings.NewReader(stdin), h.stdout, h.stderr)
	return h
}

func (h *harness) run(t *testing.T, want int, args ...string) {
	t.Helper()
	if got := h.app.run(context.Background(), "en", args); got != want {
		t.Fatalf("run(%q) = %d, want %d\nstderr:\n%s", args, got, want, h.stderr)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestCopyIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	var srcs []string
	want := map[string]string{}
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		p := filepath.Join(dir, name)
		writeFile(t, p, "contents of "+name)
		srcs = append(srcs, p)
		want[name] = "contents of " + name
	}

	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, append([]string{"copy", "-j", "2", out}, srcs...)...)

	got := map[string]string{}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		got[e.Name()] = readFile(t, filepath.Join(out, e.Name()))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("copied files mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyManyToFile(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitError, "copy", filepath.Join(dir, "missing"), a, b)
	if !strings.Contains(h.stderr.String(), "is not a directory") {
		t.Errorf("stderr = %q, want a not-a-directory error", h.stderr)
	}
}

func TestCopyOverwrite(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *Config
		stdin      string
		args       []string
		want       string
		wantPrompt bool
	}{
		{name: "declined", stdin: "n\n", want: "old", wantPrompt: true},
		{name: "empty answer", stdin: "\n", want: "old", wantPrompt: true},
		{name: "accepted", stdin: "y\n", want: "new", wantPrompt: true},
		{name: "force", args: []string{"-f"}, want: "new"},
		{name: "config force", cfg: &Config{Force: true, Jobs: 1}, want: "new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src, dst := filepath.Join(dir, "src"), filepath.Join(dir, "dst")
			writeFile(t, src, "new")
			writeFile(t, dst, "old")

			h := newHarness(tt.cfg, tt.stdin)
			args := append([]string{"copy"}, tt.args...)
			h.run(t, cmdutil.ExitOK, append(args, dst, src)...)

			if got := readFile(t, dst); got != tt.want {
				t.Errorf("dst = %q, want %q", got, tt.want)
			}
			if got := strings.Contains(h.stderr.String(), "[y/N]"); got != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v; stderr:\n%s", got, tt.wantPrompt, h.stderr)
			}
		})
	}
}

func TestCopySymlink(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		flags    []string
		wantLink bool
	}{
		{name: "default", wantLink: true},
		{name: "dereference", flags: []string{"-L"}, wantLink: false},
		{name: "config dereference", cfg: &Config{Dereference: true, Jobs: 1}, wantLink: false},
		{name: "no-dereference overrides config", cfg: &Config{Dereference: true, Jobs: 1}, flags: []string{"--no-dereference"}, wantLink: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			target := filepath.Join(dir, "target")
			writeFile(t, target, "data")
			link := filepath.Join(dir, "link")
			if err := os.Symlink(target, link); err != nil {
				t.Fatal(err)
			}
			dst := filepath.Join(dir, "copy")

			h := newHarness(tt.cfg, "")
			args := append([]string{"copy"}, tt.flags...)
			h.run(t, cmdutil.ExitOK, append(args, dst, link)...)

			fi, err := os.Lstat(dst)
			if err != nil {
				t.Fatal(err)
			}
			if got := fi.Mode()&os.ModeSymlink != 0; got != tt.wantLink {
				t.Errorf("copy is a symlink = %v, want %v", got, tt.wantLink)
			}
			if got := readFile(t, dst); got != "data" {
				t.Errorf("copy reads %q, want data", got)
			}
		})
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, src, "moved")
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}

	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, "move", "-v", out, src)

	if got := readFile(t, filepath.Join(out, "src")); got != "moved" {
		t.Errorf("moved file reads %q", got)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source still exists after move: %v", err)
	}
	if !strings.Contains(h.stderr.String(), "moved") {
		t.Errorf("-v did not log the move; stderr:\n%s", h.stderr)
	}
}

func TestMoveTakesOneSource(t *testing.T) {
	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitUsage, "move", "dst", "a", "b")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		args   []string
		want   string
	}{
		{"suggestion", "en", []string{"cpy"}, "did you mean"},
		{"missing", "en", []string{"copy", "dst"}, "Missing required argument"},
		{"jobs bound", "en", []string{"copy", "-j", "65", "dst", "a"}, "Maximum value exceeded"},
		{"one of", "en", []string{"copy", "-L", "-P", "dst", "a"}, "One Of"},
		{"translated", "fr_FR.UTF-8", []string{"copy", "--zzz", "dst", "a"}, "Argument inconnu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(nil, "")
			if got := h.app.run(context.Background(), tt.locale, tt.args); got != cmdutil.ExitUsage {
				t.Fatalf("run() = %d, want %d", got, cmdutil.ExitUsage)
			}
			stderr := h.stderr.String()
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
			if !strings.Contains(stderr, "Try 'arcp --help'") {
				t.Errorf("stderr = %q, want the help hint", stderr)
			}
		})
	}
}

func TestHelpAndVersion(t *testing.T) {
	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, "--help")
	for _, want := range []string{"arcp 0.1.0", "USAGE:", "copy", "move", "--force,-f", "arcp.toml"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("help missing %q:\n%s", want, h.stdout)
		}
	}

	h = newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, "-h", "copy")
	if !strings.Contains(h.stdout.String(), "--jobs,-j") {
		t.Errorf("copy help missing --jobs:\n%s", h.stdout)
	}

	h = newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, "--version")
	if got := h.stdout.String(); got != "arcp 0.1.0\n" {
		t.Errorf("--version wrote %q", got)
	}
}

func TestTranslatedHelp(t *testing.T) {
	h := newHarness(nil, "")
	if got := h.app.run(context.Background(), "fr", []string{"--help"}); got != cmdutil.ExitOK {
		t.Fatalf("run() = %d", got)
	}
	if !strings.Contains(h.stdout.String(), "Copie et déplace des fichiers.") {
		t.Errorf("help is not in French:\n%s", h.stdout)
	}
}

func TestCopySkipsIdentical(t *testing.T) {
	dir := t.TempDir()
	src, dst := filepath.Join(dir, "src"), filepath.Join(dir, "dst")
	writeFile(t, src, "same")
	writeFile(t, dst, "same")

	h := newHarness(nil, "")
	h.run(t, cmdutil.ExitOK, "copy", dst, src)
	if strings.Contains(h.stderr.String(), "[y/N]") {
		t.Errorf("prompted for an identical file; stderr:\n%s", h.stderr)
	}
}

func TestCopyProgress(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	args := []string{"copy", "--jobs=3", out}
	for _, name := range []string{"a", "b", "c"} {
		p := filepath.Join(dir, name)
		writeFile(t, p, name)
		args = append(args, p)
	}

	h := newHarness(nil, "")
	h.app.progress = true
	h.run(t, cmdutil.ExitOK, args...)
	if !strings.Contains(h.stderr.String(), "Copying 3/3") {
		t.Errorf("stderr = %q, want a finished progress line", h.stderr)
	}
}
