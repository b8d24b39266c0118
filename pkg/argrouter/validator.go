// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"errors"
	"strings"
)

// Rule is a named structural check. Check is called for every node with
// the node's ancestors, root first, and returns a non-nil error
// describing the violation.
type Rule struct {
	Name  string
	Check func(n *Node, ancestors []*Node) error
}

// Validator applies its rules, in order, to every node of a tree.
type Validator struct {
	Rules []Rule
}

// DefaultValidator returns a validator with DefaultRules.
func DefaultValidator() *Validator {
	return &Validator{Rules: DefaultRules()}
}

// With returns a copy of v with rules appended.
func (v *Validator) With(rules ...Rule) *Validator {
	out := &Validator{Rules: make([]Rule, 0, len(v.Rules)+len(rules))}
	out.Rules = append(out.Rules, v.Rules...)
	out.Rules = append(out.Rules, rules...)
	return out
}

// Validate walks the tree depth first and returns a *ValidationError for
// the first violated rule. The tree is not modified, so repeated calls
// return the same result.
func (v *Validator) Validate(root *Node) error {
	var first error
	walk(root, nil, func(n *Node, ancestors []*Node) bool {
		for _, r := range v.Rules {
			if err := r.Check(n, ancestors); err != nil {
				first = &ValidationError{Rule: r.Name, Path: nodePath(n, ancestors), Msg: err.Error()}
				return false
			}
		}
		return true
	})
	return first
}

// All is Validate without stopping: every violation is returned, joined.
func (v *Validator) All(root *Node) error {
	var errs []error
	walk(root, nil, func(n *Node, ancestors []*Node) bool {
		for _, r := range v.Rules {
			if err := r.Check(n, ancestors); err != nil {
				errs = append(errs, &ValidationError{Rule: r.Name, Path: nodePath(n, ancestors), Msg: err.Error()})
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// walk visits n and its subtree in depth-first order until fn returns
// false. It reports whether the walk ran to completion.
func walk(n *Node, ancestors []*Node, fn func(n *Node, ancestors []*Node) bool) bool {
	if !fn(n, ancestors) {
		return false
	}
	next := with(ancestors, n)
	for _, c := range n.children {
		if !walk(c, next, fn) {
			return false
		}
	}
	return true
}

// with returns a new slice holding ancestors followed by n.
func with(ancestors []*Node, n *Node) []*Node {
	out := make([]*Node, len(ancestors)+1)
	copy(out, ancestors)
	out[len(ancestors)] = n
	return out
}

func nodePath(n *Node, ancestors []*Node) string {
	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range with(ancestors, n) {
		parts = append(parts, pathName(a))
	}
	return strings.Join(parts, "/")
}

func pathName(n *Node) string {
	switch n.kind {
	case KindRoot:
		return "root"
	case KindMode:
		if n.none() == "" {
			return "(anonymous)"
		}
		return n.none()
	}
	return n.token().String()
}

func parentOf(ancestors []*Node) *Node {
	if len(ancestors) == 0 {
		return nil
	}
	return ancestors[len(ancestors)-1]
}

// scopeOf returns the nearest mode or root among ancestors.
func scopeOf(ancestors []*Node) *Node {
	for i := len(ancestors) - 1; i >= 0; i-- {
		if k := ancestors[i].kind; k == KindMode || k == KindRoot {
			return ancestors[i]
		}
	}
	return nil
}

// member is a node reachable from a scope without crossing into a
// nested mode, with the group it sits in, if any.
type member struct {
	node  *Node
	group *Node
}

func scopeMembers(scope *Node) []member {
	var out []member
	var add func(n, group *Node)
	add = func(n, group *Node) {
		for _, c := range n.children {
			if c.kind == KindMode {
				continue
			}
			out = append(out, member{node: c, group: group})
			if c.kind.group() {
				add(c, c)
			}
		}
	}
	add(scope, nil)
	return out
}

// resolveRefs maps names to indices of members, skipping owner.
func resolveRefs(members []member, owner *Node, names []string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, name := range names {
		if owner.refersTo(name) {
			return nil, errf("%q refers to the node itself", name)
		}
		idx := -1
		for i, m := range members {
			if m.node != owner && m.node.refersTo(name) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errf("%q does not name a node in the same mode", name)
		}
		out = append(out, idx)
	}
	return out, nil
}
