// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
)

func errf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// DefaultRules returns the built-in rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "params", Check: checkParams},
		{Name: "policy-unique", Check: checkPolicyUnique},
		{Name: "name-syntax", Check: checkNameSyntax},
		{Name: "name-unique-in-scope", Check: checkNamesUnique},
		{Name: "count-bounds", Check: checkCountBounds},
		{Name: "required-min-count", Check: checkRequiredMinCount},
		{Name: "flag", Check: checkFlag},
		{Name: "counting-flag", Check: checkCountingFlag},
		{Name: "arg", Check: checkArg},
		{Name: "value-bounds", Check: checkValueBounds},
		{Name: "positional", Check: checkPositional},
		{Name: "trailing-positionals", Check: checkTrailingPositionals},
		{Name: "mode", Check: checkMode},
		{Name: "anonymous-mode", Check: checkAnonymousMode},
		{Name: "root", Check: checkRoot},
		{Name: "help", Check: checkHelp},
		{Name: "group", Check: checkGroup},
		{Name: "router-placement", Check: checkRouterPlacement},
		{Name: "references", Check: checkReferences},
		{Name: "token-policies", Check: checkTokenPolicies},
	}
}

func checkParams(n *Node, _ []*Node) error {
	return errors.Join(n.errs...)
}

func checkPolicyUnique(n *Node, _ []*Node) error {
	seen := make(map[PolicyKind]bool, len(n.policies))
	for _, p := range n.policies {
		k := p.Kind()
		if seen[k] {
			if r, ok := p.(Repeatable); ok && r.Repeatable() {
				continue
			}
			return errf("policy %s appears more than once", k)
		}
		seen[k] = true
	}
	return nil
}

func checkNameSyntax(n *Node, _ []*Node) error {
	for _, k := range []PolicyKind{PolicyLongName, PolicyShortName, PolicyNoneName, PolicyDisplayName, PolicyErrorName} {
		if !n.has(k) {
			continue
		}
		name := n.text(k)
		if name == "" {
			return errf("%s must not be empty", k)
		}
		if k == PolicyDisplayName || k == PolicyErrorName {
			continue
		}
		if strings.HasPrefix(name, "-") {
			return errf("%s %q must not start with a dash", k, name)
		}
		if strings.ContainsRune(name, '=') || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return errf("%s %q must not contain '=' or whitespace", k, name)
		}
	}
	if n.has(PolicyShortName) && utf8.RuneCountInString(n.short()) != 1 {
		return errf("short name %q must be a single character", n.short())
	}
	return nil
}

func checkNamesUnique(n *Node, _ []*Node) error {
	if n.kind != KindRoot && n.kind != KindMode {
		return nil
	}
	long := map[string]bool{}
	short := map[string]bool{}
	for _, m := range scopeMembers(n) {
		if s := m.node.long(); s != "" {
			if long[s] {
				return errf("long name --%s is used more than once", s)
			}
			long[s] = true
		}
		if s := m.node.short(); s != "" {
			if short[s] {
				return errf("short name -%s is used more than once", s)
			}
			short[s] = true
		}
	}
	modes := map[string]bool{}
	for _, c := range n.children {
		if c.kind != KindMode || c.none() == "" {
			continue
		}
		if modes[c.none()] {
			return errf("mode %q is declared more than once", c.none())
		}
		modes[c.none()] = true
	}
	return nil
}

func checkCountBounds(n *Node, _ []*Node) error {
	p, ok := n.byKind[PolicyCount].(countPolicy)
	if !ok {
		return nil
	}
	switch n.kind {
	case KindPositional, KindMultiArg, KindCountingFlag:
	default:
		return errf("%s cannot have a count", n.kind)
	}
	switch {
	case p.min < 0:
		return errf("minimum count %d is negative", p.min)
	case p.min > p.max:
		return errf("minimum count %d exceeds maximum count %d", p.min, p.max)
	case p.max == 0:
		return errf("count cannot be fixed at zero")
	}
	if n.kind == KindMultiArg && p.min == 0 {
		return errf("multi-value argument must accept at least one value")
	}
	return nil
}

func checkRequiredMinCount(n *Node, _ []*Node) error {
	if !n.has(PolicyRequired) {
		return nil
	}
	if n.has(PolicyDefaultValue) {
		return errf("required and default value are mutually exclusive")
	}
	switch n.kind {
	case KindPositional, KindMultiArg, KindCountingFlag:
		if lo, _ := n.counts(); lo < 1 {
			return errf("required node must have a minimum count of at least 1")
		}
	}
	return nil
}

func mustNotHave(n *Node, kinds ...PolicyKind) error {
	for _, k := range kinds {
		if n.has(k) {
			return errf("%s cannot have a %s policy", n.kind, k)
		}
	}
	return nil
}

func needsNameAndDescription(n *Node) error {
	if n.long() == "" && n.short() == "" {
		return errf("%s must have a long or short name", n.kind)
	}
	if n.description() == "" {
		return errf("%s must have a description", n.kind)
	}
	return nil
}

func checkFlag(n *Node, _ []*Node) error {
	if n.kind != KindFlag {
		return nil
	}
	if err := needsNameAndDescription(n); err != nil {
		return err
	}
	return mustNotHave(n, PolicyRequired, PolicyDefaultValue, PolicyCustomParser, PolicyNoneName, PolicyMinMaxValue)
}

func checkCountingFlag(n *Node, _ []*Node) error {
	if n.kind != KindCountingFlag {
		return nil
	}
	if err := needsNameAndDescription(n); err != nil {
		return err
	}
	if p, ok := n.byKind[PolicyCount].(countPolicy); ok && p.min == p.max {
		return errf("counting flag cannot have a fixed count")
	}
	return mustNotHave(n, PolicyCustomParser, PolicyNoneName)
}

func checkArg(n *Node, ancestors []*Node) error {
	if n.kind != KindArg && n.kind != KindMultiArg {
		return nil
	}
	if err := needsNameAndDescription(n); err != nil {
		return err
	}
	if err := mustNotHave(n, PolicyNoneName); err != nil {
		return err
	}
	parent := parentOf(ancestors)
	if parent == nil {
		return nil
	}
	switch {
	case parent.kind == KindMode:
		set := 0
		for _, k := range []PolicyKind{PolicyRequired, PolicyDefaultValue, PolicyAlias} {
			if n.has(k) {
				set++
			}
		}
		if p, ok := n.byKind[PolicyRuntimeEnable].(runtimeEnable); ok && p.required {
			set++
		}
		if set != 1 {
			return errf("%s in a mode must have exactly one of required, default_value or alias", n.kind)
		}
	case parent.kind.group():
		return mustNotHave(n, PolicyRequired, PolicyDefaultValue)
	}
	return nil
}

func checkValueBounds(n *Node, _ []*Node) error {
	b, ok := n.byKind[PolicyMinMaxValue].(interface{ boundsType() reflect.Type })
	if !ok {
		return nil
	}
	vt := n.ValueType()
	if vt == nil {
		return errf("%s holds no value to bound", n.kind)
	}
	if got := b.boundsType(); got != vt {
		return errf("value bounds of %s cannot apply to a node holding %s", got, vt)
	}
	return nil
}

func checkPositional(n *Node, _ []*Node) error {
	if n.kind != KindPositional {
		return nil
	}
	if n.display() == "" {
		return errf("positional argument must have a display name")
	}
	if n.description() == "" {
		return errf("positional argument must have a description")
	}
	return mustNotHave(n, PolicyLongName, PolicyShortName, PolicyNoneName, PolicyAlias)
}

func checkTrailingPositionals(n *Node, _ []*Node) error {
	if n.kind != KindMode && n.kind != KindRoot {
		return nil
	}
	var positionals []*Node
	for _, c := range n.children {
		if c.kind == KindPositional {
			positionals = append(positionals, c)
			continue
		}
		if len(positionals) > 0 && c.kind != KindMode {
			return errf("positional arguments must be the last children, %s follows them", c.token())
		}
	}
	for i, p := range positionals {
		if i == len(positionals)-1 {
			break
		}
		if lo, hi := p.counts(); lo != hi {
			return errf("positional argument %s must have a fixed count unless it is last", p.display())
		}
	}
	return nil
}

func checkMode(n *Node, ancestors []*Node) error {
	if n.kind != KindMode {
		return nil
	}
	if err := mustNotHave(n, PolicyLongName, PolicyShortName, PolicyDefaultValue, PolicyCustomParser, PolicyRequired, PolicyDisplayName); err != nil {
		return err
	}
	parent := parentOf(ancestors)
	if parent == nil || (parent.kind != KindRoot && parent.kind != KindMode) {
		return errf("mode must be a child of the root or another mode")
	}
	if parent.kind == KindMode && n.none() == "" {
		return errf("child modes must be named")
	}
	modes, others := 0, 0
	for _, c := range n.children {
		if c.kind == KindMode {
			modes++
		} else {
			others++
		}
	}
	switch {
	case n.hasRouter() && modes > 0:
		return errf("mode with a router cannot have child modes")
	case !n.hasRouter() && (others > 0 || modes == 0):
		return errf("mode must have a router, or only child modes")
	case n.none() == "" && modes > 0:
		return errf("anonymous mode cannot have child modes")
	}
	return nil
}

func checkAnonymousMode(n *Node, _ []*Node) error {
	if n.kind != KindMode && n.kind != KindRoot {
		return nil
	}
	for i, c := range n.children {
		if !c.anonymousMode() {
			continue
		}
		if i != len(n.children)-1 {
			return errf("anonymous mode must be the last child")
		}
	}
	return nil
}

func checkRoot(n *Node, _ []*Node) error {
	if n.kind != KindRoot {
		return nil
	}
	if len(n.children) == 0 {
		return errf("root must have at least one child")
	}
	helps := 0
	for _, c := range n.children {
		switch {
		case c.kind == KindHelp:
			helps++
		case c.kind == KindMode:
		case !c.hasRouter():
			return errf("top-level %s %s must have a router", c.kind, c.token())
		}
		if c.has(PolicyRequired) || c.has(PolicyAlias) {
			return errf("top-level %s cannot be required or an alias", c.token())
		}
	}
	if helps > 1 {
		return errf("root can only have one help node")
	}
	return nil
}

func checkHelp(n *Node, ancestors []*Node) error {
	if n.kind != KindHelp {
		return nil
	}
	if p := parentOf(ancestors); p == nil || p.kind != KindRoot {
		return errf("help must be a child of the root")
	}
	if n.long() == "" && n.short() == "" {
		return errf("help must have a long or short name")
	}
	if err := mustNotHave(n, PolicyRequired, PolicyDefaultValue, PolicyCount, PolicyCustomParser); err != nil {
		return err
	}
	if v := n.text(PolicyProgramVersion); v != "" {
		if _, err := semver.NewVersion(v); err != nil {
			return errf("program version %q is not a semantic version: %v", v, err)
		}
	}
	return nil
}

func checkGroup(n *Node, ancestors []*Node) error {
	if !n.kind.group() {
		return nil
	}
	if len(n.children) < 2 {
		return errf("%s must have at least two children", n.kind)
	}
	if err := mustNotHave(n, PolicyLongName, PolicyShortName, PolicyNoneName, PolicyRouter); err != nil {
		return err
	}
	if !n.has(PolicyRequired) && !n.has(PolicyDefaultValue) {
		return errf("%s must be required or have a default value", n.kind)
	}
	if p := parentOf(ancestors); p == nil || p.kind != KindMode {
		return errf("%s must be a child of a mode", n.kind)
	}
	first := n.children[0]
	for _, c := range n.children {
		switch c.kind {
		case KindFlag, KindCountingFlag, KindArg, KindMultiArg:
		default:
			return errf("%s cannot contain a %s", n.kind, c.kind)
		}
		if n.kind == KindAliasGroup && (c.kind != first.kind || c.valueType != first.valueType) {
			return errf("alias group children must all be %s of %s", first.kind, first.valueType)
		}
	}
	return nil
}

func checkRouterPlacement(n *Node, ancestors []*Node) error {
	if !n.has(PolicyRouter) {
		return nil
	}
	if _, ok := n.byKind[PolicyRouter].(RoutingPhase); !ok {
		return errf("router policy does not implement routing")
	}
	switch n.kind {
	case KindMode, KindHelp:
		return nil
	case KindFlag, KindCountingFlag, KindArg, KindMultiArg:
		if p := parentOf(ancestors); p != nil && p.kind == KindRoot {
			return nil
		}
	}
	return errf("%s cannot have a router here; routers belong to modes and top-level nodes", n.kind)
}

func checkReferences(n *Node, ancestors []*Node) error {
	if n.kind == KindRoot || n.kind == KindMode {
		return checkDependencyCycles(n)
	}
	scope := scopeOf(ancestors)
	if scope == nil {
		return nil
	}
	members := scopeMembers(scope)
	for _, kind := range []PolicyKind{PolicyAlias, PolicyDependent} {
		names := n.refs(kind)
		if n.has(kind) && len(names) == 0 {
			return errf("%s must name at least one node", kind)
		}
		idx, err := resolveRefs(members, n, names)
		if err != nil {
			return errf("%s: %v", kind, err)
		}
		if kind != PolicyAlias {
			continue
		}
		for _, i := range idx {
			t := members[i].node
			if t.has(PolicyAlias) {
				return errf("alias target %s is itself an alias", t.token())
			}
			if t.valueType != n.valueType {
				return errf("alias target %s holds %s, alias holds %s", t.token(), t.valueType, n.valueType)
			}
		}
	}
	return nil
}

func checkDependencyCycles(scope *Node) error {
	members := scopeMembers(scope)
	edges := make(map[*Node][]*Node)
	for _, m := range members {
		idx, err := resolveRefs(members, m.node, m.node.refs(PolicyDependent))
		if err != nil {
			// Reported against the node itself.
			continue
		}
		for _, i := range idx {
			edges[m.node] = append(edges[m.node], members[i].node)
		}
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*Node]int)
	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n] {
		case visiting:
			return errf("cyclic dependency involving %s", n.token())
		case done:
			return nil
		}
		state[n] = visiting
		for _, d := range edges[n] {
			if err := visit(d); err != nil {
				return err
			}
		}
		state[n] = done
		return nil
	}
	for _, m := range members {
		if err := visit(m.node); err != nil {
			return err
		}
	}
	return nil
}

func checkTokenPolicies(n *Node, _ []*Node) error {
	if n.has(PolicyTokenEndMarker) {
		if n.kind != KindPositional && n.kind != KindMultiArg {
			return errf("%s cannot have a token end marker", n.kind)
		}
		if lo, hi := n.counts(); lo == hi {
			return errf("token end marker needs a variable count")
		}
	}
	if n.has(PolicyRuntimeEnable) && n.has(PolicyRequired) {
		return errf("use RuntimeEnableRequired instead of combining runtime_enable with required")
	}
	if n.has(PolicyCustomParser) {
		switch n.kind {
		case KindArg, KindMultiArg, KindPositional:
		default:
			return errf("%s cannot have a custom parser", n.kind)
		}
	}
	return nil
}
