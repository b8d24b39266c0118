// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	urlPtrType          = reflect.TypeFor[*url.URL]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ParseValue converts raw into a value of type typ. It supports strings,
// bools, sized ints and uints, floats, time.Duration, *url.URL, pointers
// to those, and types implementing encoding.TextUnmarshaler.
func ParseValue(typ reflect.Type, raw string) (any, error) {
	v := reflect.New(typ).Elem()
	if err := setValue(v, raw); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func setValue(field reflect.Value, value string) error {
	if reflect.PointerTo(field.Type()).Implements(textUnmarshalerType) {
		return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value %q: %w", value, err)
		}
		field.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", value, err)
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q: %w", value, err)
		}
		field.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q: %w", value, err)
		}
		field.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q: %w", value, err)
		}
		field.SetFloat(f)
		return nil

	case reflect.Pointer:
		if field.Type() == urlPtrType {
			u, err := url.Parse(value)
			if err != nil {
				return fmt.Errorf("invalid URL %q: %w", value, err)
			}
			field.Set(reflect.ValueOf(u))
			return nil
		}
		elem := reflect.New(field.Type().Elem())
		if err := setValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil

	default:
		return fmt.Errorf("unsupported value type %s", field.Type())
	}
}

// FormatValue is the inverse of ParseValue: ParseValue(typ,
// FormatValue(v)) yields a value equal to v.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	case fmt.Stringer:
		return v.String()
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return FormatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

// Values holds the resolved values of the nodes in a routed scope, in
// declaration order.
type Values struct {
	entries []valueEntry
}

type valueEntry struct {
	node    *Node
	value   any
	present bool
	matched bool
}

// Len returns the number of entries.
func (v Values) Len() int { return len(v.entries) }

// Names returns the key of every entry in order.
func (v Values) Names() []string {
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.node.key()
	}
	return out
}

// At returns the value of the i'th entry, nil if absent.
func (v Values) At(i int) any {
	return v.entries[i].value
}

func (v Values) find(name string) (valueEntry, bool) {
	for _, e := range v.entries {
		if e.node.key() == name || e.node.refersTo(name) {
			return e, true
		}
		if e.node.kind == KindAliasGroup {
			for _, c := range e.node.children {
				if c.refersTo(name) {
					return e, true
				}
			}
		}
	}
	return valueEntry{}, false
}

// Lookup returns the value of the named node and whether it has one,
// either from the input or from a default.
func (v Values) Lookup(name string) (any, bool) {
	e, ok := v.find(name)
	if !ok || !e.present {
		return nil, false
	}
	return e.value, true
}

// Matched reports whether the named node was given in the input.
func (v Values) Matched(name string) bool {
	e, ok := v.find(name)
	return ok && e.matched
}

// Get returns the named value as a T, or the zero T when it is absent or
// of another type.
func Get[T any](v Values, name string) T {
	val, ok := v.Lookup(name)
	if !ok {
		var zero T
		return zero
	}
	t, _ := val.(T)
	return t
}

// Bind copies values into the fields of the struct dst points to. Fields
// are selected with an `arg:"name"` tag; absent values leave the field
// untouched.
func (v Values) Bind(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a pointer to a struct, got %T", dst)
	}
	sv := rv.Elem()
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		name := field.Tag.Get("arg")
		if name == "" || !field.IsExported() {
			continue
		}
		val, ok := v.Lookup(name)
		if !ok || val == nil {
			continue
		}
		src := reflect.ValueOf(val)
		dstField := sv.Field(i)
		switch {
		case src.Type().AssignableTo(dstField.Type()):
			dstField.Set(src)
		case src.Kind() == reflect.String && dstField.Kind() != reflect.String:
			if err := setValue(dstField, src.String()); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		case src.Type().ConvertibleTo(dstField.Type()) && dstField.Kind() != reflect.String:
			dstField.Set(src.Convert(dstField.Type()))
		default:
			return fmt.Errorf("field %s: cannot assign %s to %s", field.Name, src.Type(), dstField.Type())
		}
	}
	return nil
}
