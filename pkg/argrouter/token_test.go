// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLex(t *testing.T) {
	tests := []struct {
		raw  string
		want Token
	}{
		{"--force", Token{Prefix: PrefixLong, Name: "force"}},
		{"--jobs=4", Token{Prefix: PrefixLong, Name: "jobs", Value: "4", HasValue: true}},
		{"--jobs=", Token{Prefix: PrefixLong, Name: "jobs", HasValue: true}},
		{"--url=http://x?a=b", Token{Prefix: PrefixLong, Name: "url", Value: "http://x?a=b", HasValue: true}},
		{"-f", Token{Prefix: PrefixShort, Name: "f"}},
		{"-abc", Token{Prefix: PrefixShort, Name: "abc"}},
		{"-j4", Token{Prefix: PrefixShort, Name: "j4"}},
		{"-5", Token{Prefix: PrefixNone, Name: "-5"}},
		{"-1.5", Token{Prefix: PrefixNone, Name: "-1.5"}},
		{"-", Token{Prefix: PrefixNone, Name: "-"}},
		{"--", Token{Prefix: PrefixNone, Name: "--"}},
		{"copy", Token{Prefix: PrefixNone, Name: "copy"}},
		{"", Token{Prefix: PrefixNone, Name: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Lex(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lex(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
			if back := Lex(got.String()); back != got {
				t.Errorf("Lex(%q.String()) = %+v, want %+v", got.String(), back, got)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Prefix: PrefixLong, Name: "jobs", Value: "4", HasValue: true}, "--jobs=4"},
		{Token{Prefix: PrefixShort, Name: "j", Value: "4", HasValue: true}, "-j4"},
		{Token{Prefix: PrefixNone, Name: "--force", Literal: true}, "--force"},
		{Token{Prefix: PrefixShort, Name: "v"}, "-v"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestNewTokenListEndOfOptions(t *testing.T) {
	l := NewTokenList([]string{"--verbose", "--", "--verbose", "-x", "--"})
	want := []Token{
		{Prefix: PrefixLong, Name: "verbose"},
		{Prefix: PrefixNone, Name: "--verbose", Literal: true},
		{Prefix: PrefixNone, Name: "-x", Literal: true},
		{Prefix: PrefixNone, Name: "--", Literal: true},
	}
	if diff := cmp.Diff(want, l.Pending()); diff != "" {
		t.Fatalf("Pending() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenListCursor(t *testing.T) {
	l := NewTokenList([]string{"a", "b", "c"})
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if tok, ok := l.Peek(); !ok || tok.Name != "a" {
		t.Fatalf("Peek() = %v, %v, want a, true", tok, ok)
	}
	if tok, _ := l.Next(); tok.Name != "a" {
		t.Errorf("Next() = %v, want a", tok)
	}
	got := l.Consume(5)
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Errorf("Consume(5) = %v, want [b c]", got)
	}
	if l.Len() != 0 || len(l.Processed()) != 3 {
		t.Errorf("Len() = %d, Processed() = %d tokens; want 0 and 3", l.Len(), len(l.Processed()))
	}
	if _, ok := l.Next(); ok {
		t.Error("Next() on an exhausted list returned ok")
	}
}
