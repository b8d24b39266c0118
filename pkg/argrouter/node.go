// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Kind is the variant of a Node.
type Kind int

const (
	KindRoot Kind = iota
	KindMode
	KindFlag
	KindCountingFlag
	KindArg
	KindMultiArg
	KindPositional
	KindHelp
	KindOneOf
	KindAliasGroup
	KindList
)

var kindNames = [...]string{
	KindRoot:         "root",
	KindMode:         "mode",
	KindFlag:         "flag",
	KindCountingFlag: "counting_flag",
	KindArg:          "arg",
	KindMultiArg:     "multi_arg",
	KindPositional:   "positional_arg",
	KindHelp:         "help",
	KindOneOf:        "one_of",
	KindAliasGroup:   "alias_group",
	KindList:         "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText lets encoders such as yaml print the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, s := range kindNames {
		if s == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", b)
}

func (k Kind) container() bool {
	switch k {
	case KindRoot, KindMode, KindOneOf, KindAliasGroup, KindList:
		return true
	}
	return false
}

func (k Kind) group() bool { return k == KindOneOf || k == KindAliasGroup }

// Param is an argument to a node constructor: a Policy or a child *Node.
// Nodes built with List are spliced into the receiving container.
type Param any

// Node is an element of the command grammar. Nodes are immutable once
// built and may be shared between modes through List.
type Node struct {
	kind      Kind
	policies  []Policy
	byKind    map[PolicyKind]Policy
	children  []*Node
	valueType reflect.Type
	errs      []error

	helpOnce sync.Once
	help     HelpDescriptor
}

func build(kind Kind, valueType reflect.Type, params []Param) *Node {
	n := &Node{kind: kind, valueType: valueType, byKind: make(map[PolicyKind]Policy)}
	for i, p := range params {
		switch p := p.(type) {
		case nil:
			n.errs = append(n.errs, fmt.Errorf("param %d is nil", i))
		case *Node:
			switch {
			case p == nil:
				n.errs = append(n.errs, fmt.Errorf("param %d is a nil node", i))
			case p.kind == KindList:
				n.children = append(n.children, p.children...)
				n.errs = append(n.errs, p.errs...)
			case p.kind == KindRoot:
				n.errs = append(n.errs, fmt.Errorf("param %d: a root cannot be a child", i))
			default:
				n.children = append(n.children, p)
			}
		case Policy:
			n.policies = append(n.policies, p)
			if _, ok := n.byKind[p.Kind()]; !ok {
				n.byKind[p.Kind()] = p
			}
		default:
			n.errs = append(n.errs, fmt.Errorf("param %d has unsupported type %T", i, p))
		}
	}
	if len(n.children) > 0 && !kind.container() {
		n.errs = append(n.errs, fmt.Errorf("%s cannot have children", kind))
	}
	if kind == KindList && len(n.policies) > 0 {
		n.errs = append(n.errs, fmt.Errorf("list cannot have policies"))
	}
	if cp, ok := n.byKind[PolicyCustomParser].(interface{ valueType() reflect.Type }); ok && valueType != nil {
		if got := cp.valueType(); got != valueType {
			n.errs = append(n.errs, fmt.Errorf("custom parser returns %s, node holds %s", got, valueType))
		}
	}
	return n
}

// Flag is a boolean option set by its presence.
func Flag(params ...Param) *Node {
	return build(KindFlag, reflect.TypeFor[bool](), params)
}

// CountingFlag counts its occurrences; -vvv yields 3.
func CountingFlag(params ...Param) *Node {
	return build(KindCountingFlag, reflect.TypeFor[int](), params)
}

// Arg is a named option taking exactly one value.
func Arg[T any](params ...Param) *Node {
	return build(KindArg, reflect.TypeFor[T](), params)
}

// MultiArg is a named option taking one or more following values; its
// value is a []T.
func MultiArg[T any](params ...Param) *Node {
	return build(KindMultiArg, reflect.TypeFor[T](), params)
}

// Positional consumes unnamed tokens. With a maximum count of one its
// value is a T, otherwise a []T.
func Positional[T any](params ...Param) *Node {
	return build(KindPositional, reflect.TypeFor[T](), params)
}

// Help prints or returns the help descriptor of the tree, or of the mode
// named by the tokens following it.
func Help(params ...Param) *Node {
	return build(KindHelp, nil, params)
}

// Mode scopes its children. A mode without a NoneName is anonymous.
func Mode(params ...Param) *Node {
	return build(KindMode, nil, params)
}

// OneOf groups mutually exclusive children. Its value is that of the
// child that was given.
func OneOf(params ...Param) *Node {
	return build(KindOneOf, nil, params)
}

// AliasGroup groups children that set one shared value.
func AliasGroup(params ...Param) *Node {
	return build(KindAliasGroup, nil, params)
}

// List bundles nodes so they can be added to several containers.
func List(params ...Param) *Node {
	return build(KindList, nil, params)
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Policies returns a copy of the node's policies in declaration order.
func (n *Node) Policies() []Policy {
	return append([]Policy(nil), n.policies...)
}

// Policy returns the first policy of the given kind.
func (n *Node) Policy(kind PolicyKind) (Policy, bool) {
	p, ok := n.byKind[kind]
	return p, ok
}

// ValueType is the element type of the node's values, nil for nodes
// that hold none.
func (n *Node) ValueType() reflect.Type {
	if n.kind.group() && len(n.children) > 0 {
		return n.children[0].ValueType()
	}
	return n.valueType
}

func (n *Node) has(kind PolicyKind) bool {
	_, ok := n.byKind[kind]
	return ok
}

func (n *Node) text(kind PolicyKind) string {
	switch p := n.byKind[kind].(type) {
	case namePolicy:
		return p.name
	case programPolicy:
		return p.text
	}
	return ""
}

func (n *Node) long() string        { return n.text(PolicyLongName) }
func (n *Node) short() string       { return n.text(PolicyShortName) }
func (n *Node) none() string        { return n.text(PolicyNoneName) }
func (n *Node) display() string     { return n.text(PolicyDisplayName) }
func (n *Node) description() string { return n.text(PolicyDescription) }

func (n *Node) anonymousMode() bool { return n.kind == KindMode && n.none() == "" }

func (n *Node) hasRouter() bool {
	_, ok := n.byKind[PolicyRouter].(RoutingPhase)
	return ok
}

// enabled reports false for nodes carrying a disabled RuntimeEnable.
func (n *Node) enabled() bool {
	p, ok := n.byKind[PolicyRuntimeEnable].(runtimeEnable)
	return !ok || p.enabled
}

func (n *Node) endMarker() (string, bool) {
	m, ok := n.byKind[PolicyTokenEndMarker].(endMarker)
	return string(m), ok
}

func (n *Node) refs(kind PolicyKind) []string {
	if p, ok := n.byKind[kind].(refPolicy); ok {
		return p.names
	}
	return nil
}

// counts returns the node's bounds: values for args, positional and
// multi-value args, occurrences for flags and counting flags.
func (n *Node) counts() (lo, hi int) {
	if p, ok := n.byKind[PolicyCount].(countPolicy); ok {
		return p.min, p.max
	}
	switch n.kind {
	case KindFlag:
		return 0, 1
	case KindArg:
		return 1, 1
	case KindMultiArg:
		return 1, Unbounded
	default:
		return 0, Unbounded
	}
}

// producesValue reports whether the node contributes an entry to Values.
func (n *Node) producesValue() bool {
	switch n.kind {
	case KindMode, KindRoot, KindHelp, KindList:
		return false
	}
	return !n.has(PolicyAlias)
}

// token is how the node is named in errors: error name, display name,
// then long, short and none names.
func (n *Node) token() Token {
	switch {
	case n.text(PolicyErrorName) != "":
		return Token{Prefix: PrefixNone, Name: n.text(PolicyErrorName)}
	case n.display() != "":
		return Token{Prefix: PrefixNone, Name: n.display()}
	case n.long() != "":
		return Token{Prefix: PrefixLong, Name: n.long()}
	case n.short() != "":
		return Token{Prefix: PrefixShort, Name: n.short()}
	case n.none() != "":
		return Token{Prefix: PrefixNone, Name: n.none()}
	}
	if n.kind.group() {
		return Token{Prefix: PrefixNone, Name: n.groupLabel()}
	}
	return Token{Prefix: PrefixNone, Name: n.kind.String()}
}

// key is the name a node's value is stored under in Values.
func (n *Node) key() string {
	for _, s := range []string{n.long(), n.display(), n.short(), n.none()} {
		if s != "" {
			return s
		}
	}
	if n.kind.group() {
		keys := make([]string, 0, len(n.children))
		for _, c := range n.children {
			keys = append(keys, c.key())
		}
		return strings.Join(keys, "|")
	}
	return ""
}

// names lists every name a node may be referred to by in Alias,
// Dependent and Values lookups.
func (n *Node) names() []string {
	var out []string
	for _, s := range []string{n.long(), n.short(), n.display(), n.none()} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (n *Node) refersTo(name string) bool {
	name = strings.TrimLeft(name, "-")
	for _, s := range n.names() {
		if s == name {
			return true
		}
	}
	return false
}

// matchLabels lists the tokens that select the node, for suggestions.
func (n *Node) matchLabels() []string {
	var out []string
	if s := n.long(); s != "" {
		out = append(out, "--"+s)
	}
	if s := n.short(); s != "" {
		out = append(out, "-"+s)
	}
	if s := n.none(); s != "" {
		out = append(out, s)
	}
	return out
}
