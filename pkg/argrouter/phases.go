// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"errors"
	"io"
	"os"
)

// preParse splits inline values off name tokens and runs every
// PreParsePhase hook.
func (st *parseState) preParse() error {
	for _, t := range st.targets {
		n := t.Node
		if n.kind != KindPositional && len(t.Tokens) > 0 && t.Tokens[0].HasValue {
			switch n.kind {
			case KindArg, KindMultiArg:
				name := t.Tokens[0]
				val := Token{Prefix: PrefixNone, Name: name.Value, Literal: true}
				name.Value, name.HasValue = "", false
				t.Tokens = append([]Token{name, val}, t.Tokens[1:]...)
			default:
				return st.root.newError(UnexpectedValue, t.Tokens[0])
			}
		}
		for _, p := range n.policies {
			if h, ok := p.(PreParsePhase); ok {
				if err := h.PreParse(t); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (st *parseState) result(n, kindNode *Node, t *Target) *result {
	res, ok := st.results[n]
	if !ok {
		res = &result{node: kindNode, first: t}
		st.results[n] = res
		st.order = append(st.order, n)
	}
	return res
}

// accumulator returns the node a target's values are collected under:
// the alias group it belongs to, or the node itself.
func accumulator(t *Target) *Node {
	if g := t.group(); g != nil && g.kind == KindAliasGroup {
		return g
	}
	return t.Node
}

// parse converts value tokens and accumulates repeated occurrences.
func (st *parseState) parse() error {
	for _, t := range st.targets {
		n := t.Node
		if n.kind == KindHelp {
			continue
		}
		res := st.result(accumulator(t), n, t)
		res.matched = true
		_, hi := n.counts()
		switch n.kind {
		case KindFlag:
			res.hits++
			if res.hits > 1 {
				return t.fail(AlreadySet, t.Tokens[0])
			}
		case KindCountingFlag:
			res.hits++
			if res.hits > hi {
				return t.fail(MaxCountExceeded, t.Tokens[0])
			}
		case KindArg:
			res.hits++
			if res.hits > 1 {
				return t.fail(AlreadySet, t.Tokens[0])
			}
			v, err := st.convert(t, t.Tokens[1])
			if err != nil {
				return err
			}
			res.values = append(res.values, v)
		case KindMultiArg, KindPositional:
			vals := t.Tokens
			if n.kind == KindMultiArg {
				if len(vals) < 2 {
					return t.fail(MissingValue, t.Tokens[0])
				}
				vals = vals[1:]
			}
			for _, tok := range vals {
				v, err := st.convert(t, tok)
				if err != nil {
					return err
				}
				res.values = append(res.values, v)
			}
			if len(res.values) > hi {
				return t.fail(MaxCountExceeded)
			}
		}
	}
	for _, key := range st.order {
		res := st.results[key]
		switch res.node.kind {
		case KindMultiArg, KindPositional:
			if lo, _ := res.node.counts(); len(res.values) < lo {
				return res.first.fail(MinCountNotReached)
			}
		case KindCountingFlag:
			if lo, _ := res.node.counts(); res.hits < lo {
				return res.first.fail(MinCountNotReached, res.node.token())
			}
		}
		res.finalize()
	}
	return nil
}

func (st *parseState) convert(t *Target, tok Token) (any, error) {
	for _, p := range t.Node.policies {
		if h, ok := p.(ParsePhase); ok {
			v, err := h.ParseValue(t, tok.Name)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					return nil, err
				}
				e := t.fail(InvalidValue, tok)
				e.Err = err
				return nil, e
			}
			return v, nil
		}
	}
	v, err := ParseValue(t.Node.valueType, tok.Name)
	if err != nil {
		e := t.fail(InvalidValue, tok)
		e.Err = err
		return nil, e
	}
	return v, nil
}

// validate propagates aliased values, then runs the ValidationPhase
// hooks of every matched node and the one-of exclusivity checks.
func (st *parseState) validate() error {
	aliased := make(map[*Node]bool)
	for _, t := range st.targets {
		targets := t.Resolved(PolicyAlias)
		if len(targets) == 0 || aliased[t.Node] {
			continue
		}
		aliased[t.Node] = true
		src := st.results[accumulator(t)]
		for _, dst := range targets {
			if res := st.results[dst]; res != nil && res.matched {
				return t.fail(AlreadySet, dst.token())
			}
			st.results[dst] = &result{node: dst, first: t, value: src.value, present: true, matched: true}
			st.order = append(st.order, dst)
		}
	}

	seen := make(map[*Node]bool)
	for _, t := range st.targets {
		if t.Node.kind == KindHelp || seen[t.Node] {
			continue
		}
		seen[t.Node] = true
		res := st.results[accumulator(t)]
		for _, p := range t.Node.policies {
			if h, ok := p.(ValidationPhase); ok {
				if err := h.Validate(t, res.value); err != nil {
					return err
				}
			}
		}
	}

	for _, m := range st.root.members[st.scope] {
		if m.node.kind != KindOneOf {
			continue
		}
		var hit []*result
		for _, c := range m.node.children {
			if res := st.results[c]; res != nil && res.matched {
				hit = append(hit, res)
			}
		}
		switch len(hit) {
		case 0:
		case 1:
			st.results[m.node] = &result{node: m.node, first: hit[0].first, value: hit[0].value, present: true, matched: true}
		default:
			toks := make([]Token, 0, len(hit))
			for _, h := range hit {
				toks = append(toks, h.first.Tokens[0])
			}
			return st.root.newError(OneOfConflict, toks...)
		}
	}
	return nil
}

// missing resolves every declared node of the scope that matched nothing.
func (st *parseState) missing() error {
	for _, m := range st.root.members[st.scope] {
		n := m.node
		if m.group != nil || !n.producesValue() || st.results[n] != nil {
			continue
		}
		t := &Target{Node: n, Ancestors: memberAncestors(with(st.scopeAncestors, st.scope), m), st: st}
		v, ok, err := missingValue(t)
		if err != nil {
			return err
		}
		if ok {
			st.results[n] = &result{node: n, value: v, present: true}
			continue
		}
		if !n.enabled() {
			continue
		}
		switch n.kind {
		case KindPositional, KindMultiArg, KindCountingFlag:
			if lo, _ := n.counts(); lo > 0 {
				return t.fail(MinCountNotReached)
			}
		}
	}
	return nil
}

func missingValue(t *Target) (any, bool, error) {
	for _, p := range t.Node.policies {
		h, ok := p.(MissingPhase)
		if !ok {
			continue
		}
		v, err := h.Missing(t)
		if errors.Is(err, errNoMissingValue) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	return nil, false, nil
}

// route calls the router of the selected scope.
func (st *parseState) route() error {
	s := st.scope
	if s.kind == KindHelp {
		return st.routeHelp()
	}
	rp, ok := s.byKind[PolicyRouter].(RoutingPhase)
	if !ok {
		return nil
	}
	return rp.Route(st.ctx, st.values())
}

func (st *parseState) values() Values {
	var v Values
	for _, m := range st.root.members[st.scope] {
		n := m.node
		if !n.producesValue() || (m.group != nil && m.group.kind == KindAliasGroup) {
			continue
		}
		e := valueEntry{node: n}
		if res := st.results[n]; res != nil {
			e.value, e.present, e.matched = res.value, res.present, res.matched
		}
		v.entries = append(v.entries, e)
	}
	return v
}

func (st *parseState) routeHelp() error {
	h := st.scope
	t := st.targets[0]
	var path []string
	for _, tok := range t.Tokens[1:] {
		if tok.Prefix != PrefixNone {
			return t.fail(UnknownArgument, tok)
		}
		path = append(path, tok.Name)
	}
	d, err := st.root.Help(path...)
	if err != nil {
		return err
	}
	info := st.root.helpInfo()
	if rp, ok := h.byKind[PolicyRouter].(RoutingPhase); ok {
		return rp.Route(st.ctx, Values{entries: []valueEntry{{node: h, value: d, present: true, matched: true}}})
	}
	if f, ok := h.byKind[PolicyHelpFormatter].(HelpFormatter); ok {
		var w io.Writer = os.Stdout
		if o, ok := h.byKind[PolicyOutput].(outputPolicy); ok && o.w != nil {
			w = o.w
		}
		return f.FormatHelp(w, d, info)
	}
	return &HelpRequestedError{Descriptor: d, Info: info}
}
