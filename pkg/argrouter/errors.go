// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrHelp is wrapped by HelpRequestedError.
var ErrHelp = errors.New("help requested")

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	UnknownArgument ErrorKind = iota + 1
	UnknownArgumentWithSuggestion
	UnhandledArguments
	AlreadySet
	UnexpectedValue
	MissingValue
	InvalidValue
	MinCountNotReached
	MaxCountExceeded
	MinValueNotReached
	MaxValueExceeded
	DependentMissing
	OneOfConflict
	MissingRequired
	ModeRequiresArguments
	NoArguments
)

var defaultMessages = map[ErrorKind]string{
	UnknownArgument:               "Unknown argument",
	UnknownArgumentWithSuggestion: "Unknown argument, did you mean?",
	UnhandledArguments:            "Unhandled arguments",
	AlreadySet:                    "Argument has already been set",
	UnexpectedValue:               "Argument does not take a value",
	MissingValue:                  "Missing value",
	InvalidValue:                  "Failed to parse",
	MinCountNotReached:            "Minimum count not reached",
	MaxCountExceeded:              "Maximum count exceeded",
	MinValueNotReached:            "Minimum value not reached",
	MaxValueExceeded:              "Maximum value exceeded",
	DependentMissing:              "Dependent argument missing",
	OneOfConflict:                 "Only one argument from a \"One Of\" can be used at once",
	MissingRequired:               "Missing required argument",
	ModeRequiresArguments:         "Mode requires arguments",
	NoArguments:                   "No arguments passed",
}

func (k ErrorKind) String() string {
	if s, ok := defaultMessages[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is returned by Parse when user input does not fit the tree.
// Tokens holds the offending token(s); for UnknownArgumentWithSuggestion
// the second token is the suggested name.
type ParseError struct {
	Kind    ErrorKind
	Message string
	Tokens  []Token
	Err     error // underlying cause, e.g. a value conversion failure
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Tokens) > 0 {
		b.WriteString(": ")
		b.WriteString(joinTokens(e.Tokens))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingRequiredError is the ParseError produced when a required node
// received no value and has no default. errors.As with a *ParseError
// target also matches it.
type MissingRequiredError struct {
	*ParseError
	Path []string // labels from the root's first child down to the node
}

func (e *MissingRequiredError) Unwrap() error {
	return e.ParseError
}

// HelpRequestedError is returned when the help node was matched and it
// has neither a router nor a formatter of its own.
type HelpRequestedError struct {
	Descriptor HelpDescriptor
	Info       HelpInfo
}

func (e *HelpRequestedError) Error() string {
	return ErrHelp.Error()
}

func (e *HelpRequestedError) Unwrap() error {
	return ErrHelp
}

// ValidationError reports a tree that violates a structural rule. It is
// a programming error and is returned from New.
type ValidationError struct {
	Rule string
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid tree: %s [%s]", e.Msg, e.Rule)
	}
	return fmt.Sprintf("invalid tree at %s: %s [%s]", e.Path, e.Msg, e.Rule)
}

// newError builds a ParseError with the message the root is configured
// with for kind.
func (r *Root) newError(kind ErrorKind, toks ...Token) *ParseError {
	msg, ok := r.messages[kind]
	if !ok {
		msg = kind.String()
	}
	return &ParseError{Kind: kind, Message: msg, Tokens: toks}
}

// unknown reports tok as unknown, suggesting the closest of candidates
// when one is close enough.
func (r *Root) unknown(tok Token, candidates []string) *ParseError {
	if s := suggest(tok.String(), candidates); s != "" {
		return r.newError(UnknownArgumentWithSuggestion, tok, Lex(s))
	}
	return r.newError(UnknownArgument, tok)
}

func suggest(name string, candidates []string) string {
	if name == "" || len(candidates) == 0 {
		return ""
	}
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
