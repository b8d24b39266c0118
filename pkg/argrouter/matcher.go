// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"context"
	"strings"
)

type parseState struct {
	ctx     context.Context
	root    *Root
	tokens  *TokenList
	targets []*Target

	// results is keyed by the accumulating node; order keeps the keys in
	// the order they were first seen so errors are deterministic.
	results map[*Node]*result
	order   []*Node

	// scope is the mode, top-level node or help node the input selected.
	scope          *Node
	scopeAncestors []*Node
}

// match assigns every input token to a target, choosing the scope on
// the way. No value is converted yet.
func (st *parseState) match() error {
	r := st.root
	root := r.node
	tok, ok := st.tokens.Peek()
	if !ok {
		if anon := anonymousChild(root); anon != nil {
			return st.matchMode(anon, []*Node{root})
		}
		return r.newError(NoArguments)
	}
	if !tok.Literal {
		for _, c := range root.children {
			if c.kind == KindMode {
				if tok.Prefix == PrefixNone && c.none() != "" && c.none() == tok.Name {
					st.tokens.Next()
					return st.matchMode(c, []*Node{root})
				}
				continue
			}
			if !selects(c, tok) {
				continue
			}
			if c.kind == KindHelp {
				return st.matchHelp(c, []*Node{root})
			}
			st.scope, st.scopeAncestors = c, []*Node{root}
			return st.matchIn([]*Node{root}, r.members[c])
		}
	}
	if anon := anonymousChild(root); anon != nil {
		return st.matchMode(anon, []*Node{root})
	}
	return r.unknown(tok, r.candidates(root))
}

// selects reports whether tok names n, looking only at the first
// character of a short-form bundle.
func selects(n *Node, tok Token) bool {
	switch tok.Prefix {
	case PrefixLong:
		return n.long() != "" && n.long() == tok.Name
	case PrefixShort:
		return n.short() != "" && strings.HasPrefix(tok.Name, n.short())
	}
	return false
}

func anonymousChild(n *Node) *Node {
	for _, c := range n.children {
		if c.anonymousMode() {
			return c
		}
	}
	return nil
}

func (st *parseState) matchMode(m *Node, ancestors []*Node) error {
	if tok, ok := st.tokens.Peek(); ok && !tok.Literal && tok.Prefix == PrefixNone {
		if c := childMode(m, tok.Name); c != nil {
			st.tokens.Next()
			return st.matchMode(c, with(ancestors, m))
		}
	}
	if !m.hasRouter() {
		if tok, ok := st.tokens.Peek(); ok {
			return st.root.unknown(tok, st.root.candidates(m))
		}
		return st.root.newError(ModeRequiresArguments, m.token())
	}
	st.scope, st.scopeAncestors = m, ancestors
	return st.matchIn(with(ancestors, m), st.root.members[m])
}

// matchHelp gives the help node every remaining token; they name the
// mode whose help is wanted.
func (st *parseState) matchHelp(h *Node, ancestors []*Node) error {
	st.scope, st.scopeAncestors = h, ancestors
	first, _ := st.tokens.Next()
	t := &Target{Node: h, Ancestors: ancestors, Tokens: []Token{first}, st: st}
	t.Tokens = append(t.Tokens, st.tokens.Consume(st.tokens.Len())...)
	st.targets = append(st.targets, t)
	return nil
}

type positionalSlot struct {
	member
	target *Target
	count  int
	done   bool
}

// matchIn consumes the remaining tokens against the members of one
// scope. ancestors ends with the scope itself.
func (st *parseState) matchIn(ancestors []*Node, members []member) error {
	var slots []*positionalSlot
	for _, m := range members {
		if m.node.kind == KindPositional {
			slots = append(slots, &positionalSlot{member: m})
		}
	}
	for {
		tok, ok := st.tokens.Peek()
		if !ok {
			return nil
		}
		if tok.Literal || tok.Prefix == PrefixNone {
			if err := st.takePositional(ancestors, slots, tok); err != nil {
				return err
			}
			continue
		}
		st.tokens.Next()
		if tok.Prefix == PrefixLong {
			m, ok := findMember(members, func(n *Node) bool { return n.long() != "" && n.long() == tok.Name })
			if !ok {
				return st.root.unknown(tok, labels(members))
			}
			if err := st.takeNamed(memberAncestors(ancestors, m), m.node, tok); err != nil {
				return err
			}
			continue
		}
		if err := st.takeBundle(ancestors, members, tok); err != nil {
			return err
		}
	}
}

func (st *parseState) takePositional(ancestors []*Node, slots []*positionalSlot, tok Token) error {
	var slot *positionalSlot
	for _, s := range slots {
		if _, hi := s.node.counts(); !s.done && s.count < hi {
			slot = s
			break
		}
	}
	if slot == nil {
		if len(slots) > 0 {
			return st.root.newError(UnhandledArguments, st.tokens.Pending()...)
		}
		return st.root.unknown(tok, nil)
	}
	st.tokens.Next()
	if slot.target == nil {
		slot.target = &Target{Node: slot.node, Ancestors: memberAncestors(ancestors, slot.member), st: st}
		st.targets = append(st.targets, slot.target)
	}
	slot.target.Tokens = append(slot.target.Tokens, tok)
	if marker, ok := slot.node.endMarker(); ok && !tok.Literal && tok.Name == marker {
		slot.done = true
		return nil
	}
	slot.count++
	return nil
}

// takeBundle expands -abc into -a -b -c. A character naming an arg takes
// the rest of the bundle, after an optional '=', as its value.
func (st *parseState) takeBundle(ancestors []*Node, members []member, tok Token) error {
	for i, r := range tok.Name {
		c := string(r)
		ct := Token{Prefix: PrefixShort, Name: c}
		m, ok := findMember(members, func(n *Node) bool { return n.short() == c })
		if !ok {
			return st.root.unknown(ct, labels(members))
		}
		if k := m.node.kind; k == KindArg || k == KindMultiArg {
			if rest := strings.TrimPrefix(tok.Name[i+len(c):], "="); rest != "" {
				ct.Value, ct.HasValue = rest, true
			}
			return st.takeNamed(memberAncestors(ancestors, m), m.node, ct)
		}
		if err := st.takeNamed(memberAncestors(ancestors, m), m.node, ct); err != nil {
			return err
		}
	}
	return nil
}

// takeNamed creates the target for one occurrence of a named node,
// taking its value tokens from the list.
func (st *parseState) takeNamed(ancestors []*Node, n *Node, tok Token) error {
	t := &Target{Node: n, Ancestors: ancestors, Tokens: []Token{tok}, st: st}
	switch n.kind {
	case KindArg:
		if !tok.HasValue {
			v, ok := st.tokens.Next()
			if !ok {
				return st.root.newError(MissingValue, tok)
			}
			t.Tokens = append(t.Tokens, valueToken(v))
		}
	case KindMultiArg:
		taken := 0
		if tok.HasValue {
			taken = 1
		}
		_, hi := n.counts()
		marker, hasMarker := n.endMarker()
		for hasMarker || taken < hi {
			v, ok := st.tokens.Peek()
			if !ok || (!v.Literal && v.Prefix != PrefixNone) {
				break
			}
			st.tokens.Next()
			t.Tokens = append(t.Tokens, v)
			if hasMarker && !v.Literal && v.Name == marker {
				break
			}
			taken++
		}
	}
	st.targets = append(st.targets, t)
	return nil
}

// valueToken keeps a token taken as an arg's value in its raw form, so
// "--pattern --foo" yields "--foo".
func valueToken(tok Token) Token {
	if tok.Prefix == PrefixNone {
		return tok
	}
	return Token{Prefix: PrefixNone, Name: tok.String(), Literal: true}
}

func findMember(members []member, pred func(*Node) bool) (member, bool) {
	for _, m := range members {
		if m.node.kind == KindPositional || m.node.kind.group() {
			continue
		}
		if pred(m.node) {
			return m, true
		}
	}
	return member{}, false
}

func memberAncestors(ancestors []*Node, m member) []*Node {
	if m.group != nil {
		return with(ancestors, m.group)
	}
	return ancestors
}

func labels(members []member) []string {
	var out []string
	for _, m := range members {
		out = append(out, m.node.matchLabels()...)
	}
	return out
}

// candidates lists the names accepted directly below n, for suggestions.
func (r *Root) candidates(n *Node) []string {
	out := labels(r.members[n])
	for _, c := range n.children {
		if c.kind == KindMode {
			out = append(out, c.matchLabels()...)
		}
	}
	return out
}
