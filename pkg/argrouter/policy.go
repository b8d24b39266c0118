// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"math"
	"reflect"
)

// PolicyKind identifies a policy for uniqueness checks and lookups.
type PolicyKind string

const (
	PolicyLongName        PolicyKind = "long_name"
	PolicyShortName       PolicyKind = "short_name"
	PolicyNoneName        PolicyKind = "none_name"
	PolicyDisplayName     PolicyKind = "display_name"
	PolicyErrorName       PolicyKind = "error_name"
	PolicyDescription     PolicyKind = "description"
	PolicyRequired        PolicyKind = "required"
	PolicyDefaultValue    PolicyKind = "default_value"
	PolicyCount           PolicyKind = "count"
	PolicyMinMaxValue     PolicyKind = "min_max_value"
	PolicyCustomParser    PolicyKind = "custom_parser"
	PolicyRouter          PolicyKind = "router"
	PolicyAlias           PolicyKind = "alias"
	PolicyDependent       PolicyKind = "dependent"
	PolicyRuntimeEnable   PolicyKind = "runtime_enable"
	PolicyTokenEndMarker  PolicyKind = "token_end_marker"
	PolicyProgramName     PolicyKind = "program_name"
	PolicyProgramVersion  PolicyKind = "program_version"
	PolicyProgramIntro    PolicyKind = "program_intro"
	PolicyProgramAddendum PolicyKind = "program_addendum"
	PolicyFlattenHelp     PolicyKind = "flatten_help"
	PolicyHelpFormatter   PolicyKind = "help_formatter"
	PolicyOutput          PolicyKind = "output"
	PolicyMessages        PolicyKind = "messages"
	PolicyValidator       PolicyKind = "validator"
)

// Policy is a capability attached to a node. Behaviour during a parse is
// added by also implementing one or more of the phase interfaces below.
type Policy interface {
	Kind() PolicyKind
}

// Repeatable policies may appear more than once on a node.
type Repeatable interface {
	Repeatable() bool
}

// PreParsePhase rewrites a target's tokens before values are extracted.
type PreParsePhase interface {
	PreParse(t *Target) error
}

// ParsePhase converts one value token into the node's value type.
type ParsePhase interface {
	ParseValue(t *Target, raw string) (any, error)
}

// ValidationPhase checks a matched node's final value.
type ValidationPhase interface {
	Validate(t *Target, value any) error
}

// RoutingPhase receives the resolved values of a mode or top-level node.
type RoutingPhase interface {
	Route(ctx context.Context, v Values) error
}

// MissingPhase supplies a value for a declared node that matched no
// tokens, or returns an error.
type MissingPhase interface {
	Missing(t *Target) (any, error)
}

type namePolicy struct {
	kind PolicyKind
	name string
}

func (p namePolicy) Kind() PolicyKind { return p.kind }

// LongName is matched by --name.
func LongName(name string) Policy { return namePolicy{PolicyLongName, name} }

// ShortName is matched by -n and may be bundled with other short names.
func ShortName(name string) Policy { return namePolicy{PolicyShortName, name} }

// NoneName is matched by an unprefixed token; it names modes.
func NoneName(name string) Policy { return namePolicy{PolicyNoneName, name} }

// DisplayName labels positional arguments and groups in help and errors.
func DisplayName(name string) Policy { return namePolicy{PolicyDisplayName, name} }

// ErrorName is how errors refer to the node, in place of its other names.
func ErrorName(name string) Policy { return namePolicy{PolicyErrorName, name} }

// Description is the help text for a node.
func Description(text string) Policy { return namePolicy{PolicyDescription, text} }

type requiredPolicy struct{}

func (requiredPolicy) Kind() PolicyKind { return PolicyRequired }

func (requiredPolicy) Missing(t *Target) (any, error) {
	return nil, t.missingRequired()
}

// Required makes a missing node a MissingRequiredError.
func Required() Policy { return requiredPolicy{} }

type defaultPolicy struct {
	value any
}

func (defaultPolicy) Kind() PolicyKind { return PolicyDefaultValue }

func (p defaultPolicy) Missing(*Target) (any, error) { return p.value, nil }

// DefaultValue is used when the node matches no tokens.
func DefaultValue[T any](v T) Policy { return defaultPolicy{value: v} }

// Unbounded is the maximum count of nodes without an upper limit.
const Unbounded = math.MaxInt

type countPolicy struct {
	min, max int
}

func (countPolicy) Kind() PolicyKind { return PolicyCount }

// MinMaxCount bounds the number of values (positional, multi-value args)
// or occurrences (counting flags) a node accepts.
func MinMaxCount(lo, hi int) Policy { return countPolicy{min: lo, max: hi} }

// MinCount sets a lower bound with no upper bound.
func MinCount(n int) Policy { return countPolicy{min: n, max: Unbounded} }

// MaxCount sets an upper bound with a lower bound of zero.
func MaxCount(n int) Policy { return countPolicy{min: 0, max: n} }

// FixedCount requires exactly n values.
func FixedCount(n int) Policy { return countPolicy{min: n, max: n} }

type valueBounds[T cmp.Ordered] struct {
	lo, hi       T
	hasLo, hasHi bool
}

func (valueBounds[T]) Kind() PolicyKind { return PolicyMinMaxValue }

func (valueBounds[T]) boundsType() reflect.Type { return reflect.TypeFor[T]() }

func (p valueBounds[T]) Validate(t *Target, value any) error {
	check := func(v T) error {
		if p.hasLo && v < p.lo {
			return t.fail(MinValueNotReached)
		}
		if p.hasHi && v > p.hi {
			return t.fail(MaxValueExceeded)
		}
		return nil
	}
	switch v := value.(type) {
	case T:
		return check(v)
	case []T:
		for _, e := range v {
			if err := check(e); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value bounds for %T applied to %T", *new(T), value)
	}
}

// MinMaxValue bounds every parsed value of a node to [lo, hi].
func MinMaxValue[T cmp.Ordered](lo, hi T) Policy {
	return valueBounds[T]{lo: lo, hi: hi, hasLo: true, hasHi: true}
}

// MinValue bounds parsed values from below.
func MinValue[T cmp.Ordered](lo T) Policy { return valueBounds[T]{lo: lo, hasLo: true} }

// MaxValue bounds parsed values from above.
func MaxValue[T cmp.Ordered](hi T) Policy { return valueBounds[T]{hi: hi, hasHi: true} }

type customParser[T any] struct {
	fn func(string) (T, error)
}

func (customParser[T]) Kind() PolicyKind { return PolicyCustomParser }

func (p customParser[T]) ParseValue(_ *Target, raw string) (any, error) {
	return p.fn(raw)
}

func (customParser[T]) valueType() reflect.Type { return reflect.TypeFor[T]() }

// CustomParser replaces the built-in conversion of value tokens.
func CustomParser[T any](fn func(string) (T, error)) Policy { return customParser[T]{fn: fn} }

// RouterFunc handles the values of a parsed mode or top-level node.
type RouterFunc func(ctx context.Context, v Values) error

func (RouterFunc) Kind() PolicyKind { return PolicyRouter }

func (f RouterFunc) Route(ctx context.Context, v Values) error { return f(ctx, v) }

// Router attaches a handler invoked once parsing succeeds.
func Router(fn func(ctx context.Context, v Values) error) Policy { return RouterFunc(fn) }

type refPolicy struct {
	kind  PolicyKind
	names []string
}

func (p refPolicy) Kind() PolicyKind { return p.kind }

func (p refPolicy) Validate(t *Target, _ any) error {
	if p.kind != PolicyDependent {
		return nil
	}
	for _, n := range t.Resolved(PolicyDependent) {
		if !t.IsSet(n) {
			return t.fail(DependentMissing, n.token())
		}
	}
	return nil
}

// Alias copies the node's value into the named sibling nodes and produces
// no value of its own. Names are long, short or display names, with or
// without their dashes.
func Alias(names ...string) Policy { return refPolicy{PolicyAlias, names} }

// Dependent requires the named sibling nodes to be set whenever this
// node is.
func Dependent(names ...string) Policy { return refPolicy{PolicyDependent, names} }

type runtimeEnable struct {
	enabled  bool
	required bool
	fallback any
}

func (runtimeEnable) Kind() PolicyKind { return PolicyRuntimeEnable }

func (p runtimeEnable) PreParse(t *Target) error {
	if p.enabled {
		return nil
	}
	return t.fail(UnknownArgument, t.Tokens[:min(1, len(t.Tokens))]...)
}

// Missing only takes part when built by RuntimeEnableRequired.
func (p runtimeEnable) Missing(t *Target) (any, error) {
	if !p.required {
		return nil, errNoMissingValue
	}
	if p.enabled {
		return nil, t.missingRequired()
	}
	return p.fallback, nil
}

// RuntimeEnable decides when the tree is built whether the node can be
// matched at all. A disabled node is reported as an unknown argument.
func RuntimeEnable(enabled bool) Policy { return runtimeEnable{enabled: enabled} }

// RuntimeEnableRequired behaves like RuntimeEnable; when enabled the node
// is also required, when disabled it resolves to fallback.
func RuntimeEnableRequired[T any](enabled bool, fallback T) Policy {
	return runtimeEnable{enabled: enabled, required: true, fallback: fallback}
}

type endMarker string

func (endMarker) Kind() PolicyKind { return PolicyTokenEndMarker }

func (m endMarker) PreParse(t *Target) error {
	if n := len(t.Tokens); n > 0 {
		last := t.Tokens[n-1]
		if !last.Literal && last.Prefix == PrefixNone && last.Name == string(m) {
			t.Tokens = t.Tokens[:n-1]
		}
	}
	return nil
}

// TokenEndMarker stops a variable-count node consuming values at marker.
func TokenEndMarker(marker string) Policy { return endMarker(marker) }

type programPolicy struct {
	kind PolicyKind
	text string
}

func (p programPolicy) Kind() PolicyKind { return p.kind }

func ProgramName(name string) Policy       { return programPolicy{PolicyProgramName, name} }
func ProgramVersion(version string) Policy { return programPolicy{PolicyProgramVersion, version} }
func ProgramIntro(text string) Policy      { return programPolicy{PolicyProgramIntro, text} }
func ProgramAddendum(text string) Policy   { return programPolicy{PolicyProgramAddendum, text} }

type flattenHelp struct{}

func (flattenHelp) Kind() PolicyKind { return PolicyFlattenHelp }

// FlattenHelp on the help node lists every nested mode's children; on a
// mode it marks that mode's children to be listed in its parent.
func FlattenHelp() Policy { return flattenHelp{} }

// HelpFormatter writes a help descriptor. Attach one to the help node to
// have help printed during routing instead of returned as an error.
type HelpFormatter interface {
	Policy
	FormatHelp(w io.Writer, d HelpDescriptor, info HelpInfo) error
}

type outputPolicy struct {
	w io.Writer
}

func (outputPolicy) Kind() PolicyKind { return PolicyOutput }

// Output sets where the help node writes; the default is os.Stdout.
func Output(w io.Writer) Policy { return outputPolicy{w: w} }

type messagesPolicy map[ErrorKind]string

func (messagesPolicy) Kind() PolicyKind { return PolicyMessages }

// Messages replaces the root's error messages, e.g. with translations.
func Messages(m map[ErrorKind]string) Policy { return messagesPolicy(m) }

type validatorPolicy struct {
	v *Validator
}

func (validatorPolicy) Kind() PolicyKind { return PolicyValidator }

// WithValidator replaces DefaultValidator for the root it is passed to.
func WithValidator(v *Validator) Policy { return validatorPolicy{v: v} }
