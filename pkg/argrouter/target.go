// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"context"
	"errors"
	"reflect"
)

// Target binds a matched node to its ancestors and the tokens assigned
// to it. Phase hooks receive the target; they may rewrite Tokens during
// the pre-parse phase.
type Target struct {
	Node      *Node
	Ancestors []*Node
	Tokens    []Token

	st *parseState
}

// Path names the node from its outermost mode down, e.g. ["copy", "DST"].
func (t *Target) Path() []string {
	var out []string
	for _, a := range t.Ancestors {
		if a.kind == KindMode && a.none() != "" {
			out = append(out, a.none())
		}
	}
	return append(out, t.Node.token().String())
}

// Root returns the tree being parsed.
func (t *Target) Root() *Root { return t.st.root }

// Context returns the context Parse was called with.
func (t *Target) Context() context.Context { return t.st.ctx }

func (t *Target) scope() *Node {
	return scopeOf(t.Ancestors)
}

func (t *Target) group() *Node {
	if p := parentOf(t.Ancestors); p != nil && p.kind.group() {
		return p
	}
	return nil
}

// Resolved returns the nodes named by the target node's Alias or
// Dependent policy.
func (t *Target) Resolved(kind PolicyKind) []*Node {
	scope := t.scope()
	idx := t.st.root.refs[refKey{scope, t.Node, kind}]
	members := t.st.root.members[scope]
	out := make([]*Node, len(idx))
	for i, j := range idx {
		out[i] = members[j].node
	}
	return out
}

// IsSet reports whether n was given in the input, directly or through
// an alias.
func (t *Target) IsSet(n *Node) bool {
	res := t.st.results[n]
	return res != nil && res.matched
}

// Value returns the current value of n.
func (t *Target) Value(n *Node) (any, bool) {
	res := t.st.results[n]
	if res == nil || !res.present {
		return nil, false
	}
	return res.value, true
}

// fail builds a ParseError of kind for the target, naming toks or, when
// none are given, the target's own tokens.
func (t *Target) fail(kind ErrorKind, toks ...Token) *ParseError {
	if len(toks) == 0 {
		toks = t.Tokens
	}
	if len(toks) == 0 {
		toks = []Token{t.Node.token()}
	}
	return t.st.root.newError(kind, toks...)
}

// Fail is fail for policies outside the package.
func (t *Target) Fail(kind ErrorKind, toks ...Token) error {
	return t.fail(kind, toks...)
}

func (t *Target) missingRequired() error {
	return &MissingRequiredError{
		ParseError: t.st.root.newError(MissingRequired, t.Node.token()),
		Path:       t.Path(),
	}
}

// errNoMissingValue lets a MissingPhase hook decline to handle a node.
var errNoMissingValue = errors.New("no missing value")

// result accumulates the occurrences of one node during a parse.
type result struct {
	node    *Node // the node whose kind drives accumulation
	first   *Target
	hits    int
	values  []any
	value   any
	present bool
	matched bool
}

func (r *result) finalize() {
	n := r.node
	switch n.kind {
	case KindFlag:
		r.value = true
	case KindCountingFlag:
		r.value = r.hits
	case KindArg:
		if len(r.values) > 0 {
			r.value = r.values[0]
		}
	case KindPositional:
		if _, hi := n.counts(); hi == 1 {
			if len(r.values) > 0 {
				r.value = r.values[0]
			}
			break
		}
		r.value = makeSlice(n.valueType, r.values)
	case KindMultiArg:
		r.value = makeSlice(n.valueType, r.values)
	}
	r.present = true
}

func makeSlice(elem reflect.Type, values []any) any {
	s := reflect.MakeSlice(reflect.SliceOf(elem), 0, len(values))
	for _, v := range values {
		if v == nil {
			s = reflect.Append(s, reflect.Zero(elem))
			continue
		}
		s = reflect.Append(s, reflect.ValueOf(v))
	}
	return s.Interface()
}
