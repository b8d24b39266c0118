// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"context"
)

// Root is a validated command tree. It is immutable and may be used by
// any number of goroutines at once.
type Root struct {
	node     *Node
	help     *Node
	messages map[ErrorKind]string

	// members holds, for every scope, the nodes matched within it.
	// Top-level nodes with a router are scopes of their own.
	members map[*Node][]member

	// refs holds resolved Alias and Dependent names as indices into the
	// owning scope's members.
	refs map[refKey][]int
}

type refKey struct {
	scope, node *Node
	kind        PolicyKind
}

// New builds the root of a command tree from params, validates it and
// returns a *ValidationError if the tree is malformed.
func New(params ...Param) (*Root, error) {
	n := build(KindRoot, nil, params)
	v := DefaultValidator()
	if p, ok := n.byKind[PolicyValidator].(validatorPolicy); ok && p.v != nil {
		v = p.v
	}
	if err := v.Validate(n); err != nil {
		return nil, err
	}
	r := &Root{
		node:     n,
		members:  make(map[*Node][]member),
		refs:     make(map[refKey][]int),
		messages: make(map[ErrorKind]string),
	}
	if m, ok := n.byKind[PolicyMessages].(messagesPolicy); ok {
		for k, msg := range m {
			r.messages[k] = msg
		}
	}
	r.index(n)
	return r, nil
}

// MustNew is New for trees declared at package level; it panics on an
// invalid tree.
func MustNew(params ...Param) *Root {
	r, err := New(params...)
	if err != nil {
		panic(err)
	}
	return r
}

// Node returns the root node.
func (r *Root) Node() *Node { return r.node }

func (r *Root) index(scope *Node) {
	members := scopeMembers(scope)
	r.members[scope] = members
	for _, m := range members {
		for _, kind := range []PolicyKind{PolicyAlias, PolicyDependent} {
			if names := m.node.refs(kind); len(names) > 0 {
				// Already checked by the references rule.
				idx, _ := resolveRefs(members, m.node, names)
				r.refs[refKey{scope, m.node, kind}] = idx
			}
		}
	}
	for _, c := range scope.children {
		switch {
		case c.kind == KindMode:
			r.index(c)
		case scope.kind == KindRoot && c.kind == KindHelp:
			r.help = c
			r.members[c] = nil
		case scope.kind == KindRoot:
			r.members[c] = []member{{node: c}}
		}
	}
}

// Parse matches args against the tree and runs every phase. On success
// the router of the matched mode or top-level node has been called and
// its error, if any, is returned unchanged. Otherwise the error is a
// *ParseError, a *MissingRequiredError or a *HelpRequestedError.
func (r *Root) Parse(ctx context.Context, args []string) error {
	st := &parseState{
		ctx:     ctx,
		root:    r,
		tokens:  NewTokenList(args),
		results: make(map[*Node]*result),
	}
	if err := st.match(); err != nil {
		return err
	}
	for _, phase := range []func() error{
		st.preParse,
		st.parse,
		st.validate,
		st.missing,
		st.route,
	} {
		if err := phase(); err != nil {
			return err
		}
	}
	return nil
}
