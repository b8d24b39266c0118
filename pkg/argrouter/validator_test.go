// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func noop(context.Context, Values) error { return nil }

func force() *Node {
	return Flag(LongName("force"), ShortName("f"), Description("Force overwrite"))
}

func TestValidatorRejects(t *testing.T) {
	tests := []struct {
		name     string
		params   []Param
		wantRule string
		wantPath string
	}{
		{
			name:     "empty root",
			wantRule: "root",
			wantPath: "root",
		},
		{
			name:     "nil param",
			params:   []Param{nil},
			wantRule: "params",
		},
		{
			name:     "unsupported param",
			params:   []Param{42},
			wantRule: "params",
		},
		{
			name: "flag without description",
			params: []Param{
				Mode(NoneName("m"), Flag(LongName("force")), Router(noop)),
			},
			wantRule: "flag",
			wantPath: "root/m/--force",
		},
		{
			name: "duplicate policy",
			params: []Param{
				Mode(NoneName("m"), Flag(LongName("a"), LongName("b"), Description("x")), Router(noop)),
			},
			wantRule: "policy-unique",
		},
		{
			name: "multi-character short name",
			params: []Param{
				Mode(NoneName("m"), Flag(ShortName("ab"), Description("x")), Router(noop)),
			},
			wantRule: "name-syntax",
		},
		{
			name: "dash in long name",
			params: []Param{
				Mode(NoneName("m"), Flag(LongName("-a"), Description("x")), Router(noop)),
			},
			wantRule: "name-syntax",
		},
		{
			name: "duplicate long name in mode",
			params: []Param{
				Mode(NoneName("m"), force(), Flag(LongName("force"), Description("again")), Router(noop)),
			},
			wantRule: "name-unique-in-scope",
			wantPath: "root/m",
		},
		{
			name: "duplicate mode name",
			params: []Param{
				Mode(NoneName("m"), force(), Router(noop)),
				Mode(NoneName("m"), force(), Router(noop)),
			},
			wantRule: "name-unique-in-scope",
			wantPath: "root",
		},
		{
			name: "positional without display name",
			params: []Param{
				Mode(NoneName("m"), Positional[string](Description("x"), Required(), MinCount(1)), Router(noop)),
			},
			wantRule: "positional",
		},
		{
			name: "required positional without minimum count",
			params: []Param{
				Mode(NoneName("m"), Positional[string](DisplayName("SRC"), Description("x"), Required()), Router(noop)),
			},
			wantRule: "required-min-count",
		},
		{
			name: "flag after positional",
			params: []Param{
				Mode(NoneName("m"),
					Positional[string](DisplayName("DST"), Description("x"), FixedCount(1)),
					force(),
					Router(noop)),
			},
			wantRule: "trailing-positionals",
		},
		{
			name: "variable positional before another",
			params: []Param{
				Mode(NoneName("m"),
					Positional[string](DisplayName("SRC"), Description("x"), MinCount(1)),
					Positional[string](DisplayName("DST"), Description("x"), FixedCount(1)),
					Router(noop)),
			},
			wantRule: "trailing-positionals",
		},
		{
			name: "mode without router or child modes",
			params: []Param{
				Mode(NoneName("m"), force()),
			},
			wantRule: "mode",
		},
		{
			name: "anonymous mode not last",
			params: []Param{
				Mode(force(), Router(noop)),
				Mode(NoneName("m"), force(), Router(noop)),
			},
			wantRule: "anonymous-mode",
		},
		{
			name: "arg in mode without required or default",
			params: []Param{
				Mode(NoneName("m"), Arg[int](LongName("jobs"), Description("x")), Router(noop)),
			},
			wantRule: "arg",
		},
		{
			name: "top-level flag without router",
			params: []Param{
				Flag(LongName("version"), Description("x")),
			},
			wantRule: "root",
		},
		{
			name: "help with invalid version",
			params: []Param{
				Help(LongName("help"), Description("x"), ProgramVersion("one point oh")),
			},
			wantRule: "help",
		},
		{
			name: "one_of with a single child",
			params: []Param{
				Mode(NoneName("m"), OneOf(Required(), force()), Router(noop)),
			},
			wantRule: "group",
		},
		{
			name: "router on a nested flag",
			params: []Param{
				Mode(NoneName("m"), Flag(LongName("force"), Description("x"), Router(noop)), Router(noop)),
			},
			wantRule: "router-placement",
		},
		{
			name: "dependent on an unknown node",
			params: []Param{
				Mode(NoneName("m"), Flag(LongName("a"), Description("x"), Dependent("nope")), Router(noop)),
			},
			wantRule: "references",
		},
		{
			name: "dependency cycle",
			params: []Param{
				Mode(NoneName("m"),
					Flag(LongName("a"), Description("x"), Dependent("b")),
					Flag(LongName("b"), Description("x"), Dependent("--a")),
					Router(noop)),
			},
			wantRule: "references",
			wantPath: "root/m",
		},
		{
			name: "alias of another type",
			params: []Param{
				Mode(NoneName("m"),
					Arg[int](LongName("a"), Description("x"), Alias("b")),
					Arg[string](LongName("b"), Description("x"), DefaultValue("")),
					Router(noop)),
			},
			wantRule: "references",
		},
		{
			name: "custom parser of another type",
			params: []Param{
				Mode(NoneName("m"),
					Arg[int](LongName("a"), Description("x"), DefaultValue(0),
						CustomParser(func(s string) (string, error) { return s, nil })),
					Router(noop)),
			},
			wantRule: "params",
		},
		{
			name: "value bounds of another type",
			params: []Param{
				Mode(NoneName("m"),
					Arg[uint](LongName("a"), Description("x"), DefaultValue(uint(1)), MinMaxValue(1, 8)),
					Router(noop)),
			},
			wantRule: "value-bounds",
			wantPath: "root/m/--a",
		},
		{
			name: "value bounds on a counting flag of strings",
			params: []Param{
				Mode(NoneName("m"),
					CountingFlag(ShortName("v"), Description("x"), MaxValue("z")),
					Router(noop)),
			},
			wantRule: "value-bounds",
		},
		{
			name: "end marker on fixed count",
			params: []Param{
				Mode(NoneName("m"),
					Positional[string](DisplayName("A"), Description("x"), FixedCount(2), TokenEndMarker(";")),
					Router(noop)),
			},
			wantRule: "token-policies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params...)
			if err == nil {
				t.Fatal("New() succeeded, want a validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("New() error = %T %v, want *ValidationError", err, err)
			}
			if ve.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q (%v)", ve.Rule, tt.wantRule, err)
			}
			if tt.wantPath != "" && ve.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", ve.Path, tt.wantPath)
			}
		})
	}
}

func TestValidatorAcceptsCopyTree(t *testing.T) {
	if _, err := New(copyTree(&recorder{})...); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestValidatorIsIdempotent(t *testing.T) {
	n := build(KindRoot, nil, []Param{
		Mode(NoneName("m"), Flag(LongName("force")), Router(noop)),
	})
	v := DefaultValidator()
	first := v.Validate(n)
	second := v.Validate(n)
	if first == nil || second == nil {
		t.Fatalf("Validate() = %v, %v; want errors", first, second)
	}
	if first.Error() != second.Error() {
		t.Errorf("Validate() changed between calls: %q then %q", first, second)
	}
	if v.Validate(build(KindRoot, nil, copyTree(&recorder{}))) != nil {
		t.Error("Validate() rejected a valid tree")
	}
}

func TestValidatorAll(t *testing.T) {
	n := build(KindRoot, nil, []Param{
		Mode(NoneName("m"),
			Flag(LongName("a")),
			Flag(LongName("b")),
			Router(noop)),
	})
	err := DefaultValidator().All(n)
	if err == nil {
		t.Fatal("All() = nil, want errors")
	}
	if got := strings.Count(err.Error(), "[flag]"); got != 2 {
		t.Errorf("All() reported %d flag violations, want 2:\n%v", got, err)
	}
}

func TestWithValidator(t *testing.T) {
	noShort := Rule{
		Name: "no-short-names",
		Check: func(n *Node, _ []*Node) error {
			if n.short() != "" {
				return fmt.Errorf("short names are not allowed")
			}
			return nil
		},
	}
	params := append(copyTree(&recorder{}), WithValidator(DefaultValidator().With(noShort)))
	_, err := New(params...)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Rule != "no-short-names" {
		t.Fatalf("New() error = %v, want a no-short-names violation", err)
	}
}

type tag string

func (tag) Kind() PolicyKind { return "tag" }

func (tag) Repeatable() bool { return true }

func TestValidatorRepeatablePolicy(t *testing.T) {
	root, err := New(
		Mode(NoneName("m"),
			Flag(LongName("a"), Description("x"), tag("one"), tag("two")),
			Router(noop)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var tags []Policy
	for _, p := range root.node.children[0].children[0].Policies() {
		if p.Kind() == "tag" {
			tags = append(tags, p)
		}
	}
	if len(tags) != 2 {
		t.Errorf("got %d tag policies, want 2", len(tags))
	}
}
