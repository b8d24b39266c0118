// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"strconv"
	"strings"
)

// Prefix is the leading-dash form of a token.
type Prefix int

const (
	PrefixNone Prefix = iota
	PrefixShort
	PrefixLong
)

func (p Prefix) String() string {
	switch p {
	case PrefixLong:
		return "--"
	case PrefixShort:
		return "-"
	default:
		return ""
	}
}

// EndOfOptions is the token after which every argument is positional.
const EndOfOptions = "--"

// Token is one lexed command line argument.
type Token struct {
	Prefix Prefix
	Name   string

	// Value holds an inline value (--name=value, or -nvalue once a bundle
	// has been expanded). HasValue distinguishes "--name=" from "--name".
	Value    string
	HasValue bool

	// Literal is set on every token that followed the end-of-options
	// marker; such tokens never match a name.
	Literal bool
}

// Lex turns a single raw argument into a Token. The bare end-of-options
// marker is not special-cased here; NewTokenList handles it.
func Lex(raw string) Token {
	switch {
	case strings.HasPrefix(raw, "--") && len(raw) > 2:
		name := raw[2:]
		if i := strings.IndexByte(name, '='); i >= 0 {
			return Token{Prefix: PrefixLong, Name: name[:i], Value: name[i+1:], HasValue: true}
		}
		return Token{Prefix: PrefixLong, Name: name}
	case len(raw) > 1 && raw[0] == '-' && raw != EndOfOptions && !isNegativeNumber(raw):
		return Token{Prefix: PrefixShort, Name: raw[1:]}
	default:
		return Token{Prefix: PrefixNone, Name: raw}
	}
}

// String converts the token back into its command line form, so that
// Lex(t.String()) == t for any token Lex produced.
func (t Token) String() string {
	if t.Literal {
		return t.Name
	}
	s := t.Prefix.String() + t.Name
	if !t.HasValue {
		return s
	}
	if t.Prefix == PrefixShort {
		return s + t.Value
	}
	return s + "=" + t.Value
}

func isNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(s[1:], 64)
	return err == nil
}

// TokenList is the lexed input with a cursor dividing processed tokens
// from pending ones.
type TokenList struct {
	tokens []Token
	pos    int
}

// NewTokenList lexes args. Every argument after the first bare "--" is
// kept verbatim as a literal positional token and the marker itself is
// dropped.
func NewTokenList(args []string) *TokenList {
	l := &TokenList{tokens: make([]Token, 0, len(args))}
	literal := false
	for _, a := range args {
		if literal {
			l.tokens = append(l.tokens, Token{Prefix: PrefixNone, Name: a, Literal: true})
			continue
		}
		if a == EndOfOptions {
			literal = true
			continue
		}
		l.tokens = append(l.tokens, Lex(a))
	}
	return l
}

// Pending returns the unconsumed tokens. The slice aliases the list.
func (l *TokenList) Pending() []Token { return l.tokens[l.pos:] }

// Processed returns the consumed tokens. The slice aliases the list.
func (l *TokenList) Processed() []Token { return l.tokens[:l.pos] }

// Len is the number of pending tokens.
func (l *TokenList) Len() int { return len(l.tokens) - l.pos }

// Peek returns the next pending token without consuming it.
func (l *TokenList) Peek() (Token, bool) {
	if l.pos >= len(l.tokens) {
		return Token{}, false
	}
	return l.tokens[l.pos], true
}

// Next consumes and returns the next pending token.
func (l *TokenList) Next() (Token, bool) {
	tok, ok := l.Peek()
	if ok {
		l.pos++
	}
	return tok, ok
}

// Consume moves up to n pending tokens to the processed side and
// returns them.
func (l *TokenList) Consume(n int) []Token {
	end := min(l.pos+n, len(l.tokens))
	out := l.tokens[l.pos:end]
	l.pos = end
	return out
}

func joinTokens(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
