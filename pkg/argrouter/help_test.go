// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHelpLabels(t *testing.T) {
	root := newCopyRoot(t, &recorder{})
	d, err := root.Help("copy")
	if err != nil {
		t.Fatalf("Help(copy) error = %v", err)
	}
	var got []string
	for _, c := range d.Children {
		got = append(got, c.Label)
	}
	want := []string{
		"--force,-f",
		"One of: --dereference,-L,--no-dereference,-P",
		"--verbose,-v",
		"--jobs,-j <VALUE>",
		"--backup,-b",
		"--all,-a",
		"DST",
		"SRC [1,N]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("copy labels mismatch (-want +got):\n%s", diff)
	}
	if d.Children[1].Kind != KindOneOf || len(d.Children[1].Children) != 2 {
		t.Errorf("one_of descriptor = %+v", d.Children[1])
	}
}

func TestHelpUnknownPath(t *testing.T) {
	root := newCopyRoot(t, &recorder{})
	_, err := root.Help("mov")
	pe := wantKind(t, err, UnknownArgumentWithSuggestion)
	if got := pe.Tokens[1].Name; got != "move" {
		t.Errorf("suggestion = %q, want move", got)
	}
}

func TestCountSuffix(t *testing.T) {
	tests := []struct {
		lo, hi int
		want   string
	}{
		{1, 1, ""},
		{2, 2, " [2]"},
		{0, Unbounded, " [0,N]"},
		{1, 3, " [1,3]"},
	}
	for _, tt := range tests {
		if got := countSuffix(tt.lo, tt.hi); got != tt.want {
			t.Errorf("countSuffix(%d, %d) = %q, want %q", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestHelpInfoFlatten(t *testing.T) {
	root := MustNew(
		Help(LongName("help"), Description("Show help"), FlattenHelp()),
		Mode(NoneName("run"), Description("Run it"), force(), FlattenHelp(), Router(noop)),
	)
	if !root.HelpInfo().Flatten {
		t.Error("HelpInfo().Flatten = false, want true")
	}
	d, err := root.Help()
	if err != nil {
		t.Fatalf("Help() error = %v", err)
	}
	if !d.Children[1].Flatten {
		t.Error("run descriptor not marked for flattening")
	}
}
