// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multilang selects between command trees built for different
// languages.
//
// Each language gets its own argrouter.Root so that names, descriptions
// and error messages can all be translated; the tree matching the
// user's locale is chosen at parse time.
package multilang

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/yeetrun/argrouter/pkg/argrouter"
	"golang.org/x/text/language"
)

// Builder builds the tree for one language.
type Builder func(tag language.Tag) (*argrouter.Root, error)

// Root holds one tree per supported language.
type Root struct {
	tags    []language.Tag // fallback first
	roots   []*argrouter.Root
	matcher language.Matcher
}

// New builds every tree up front so that an invalid translation fails
// at startup. fallback must be one of the builders' keys; it is used
// when no language matches.
func New(fallback string, builders map[string]Builder) (*Root, error) {
	if _, ok := builders[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q has no builder", fallback)
	}
	keys := make([]string, 0, len(builders))
	for k := range builders {
		if k != fallback {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	keys = slices.Insert(keys, 0, fallback)

	r := &Root{}
	for _, k := range keys {
		tag, err := language.Parse(Normalize(k))
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", k, err)
		}
		root, err := builders[k](tag)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s tree: %w", tag, err)
		}
		if root == nil {
			return nil, fmt.Errorf("builder for %s returned no tree", tag)
		}
		r.tags = append(r.tags, tag)
		r.roots = append(r.roots, root)
	}
	r.matcher = language.NewMatcher(r.tags)
	return r, nil
}

// Languages returns the supported languages, fallback first.
func (r *Root) Languages() []language.Tag {
	return slices.Clone(r.tags)
}

// Select returns the tree for locale, which may be a BCP 47 tag
// ("fr-CA"), a POSIX locale ("fr_CA.UTF-8") or empty.
func (r *Root) Select(locale string) *argrouter.Root {
	tag, err := language.Parse(Normalize(locale))
	if err != nil {
		return r.roots[0]
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return r.roots[0]
	}
	return r.roots[idx]
}

// Parse parses args with the tree selected for locale.
func (r *Root) Parse(ctx context.Context, locale string, args []string) error {
	return r.Select(locale).Parse(ctx, args)
}

var errNoLocale = errors.New("no locale set")

// SystemLocale returns the locale from LC_ALL, LC_MESSAGES or LANG, in
// that order, normalized to a BCP 47 tag. The C and POSIX locales count
// as unset.
func SystemLocale() string {
	s, err := systemLocale(os.Getenv)
	if err != nil {
		return ""
	}
	return s
}

func systemLocale(getenv func(string) string) (string, error) {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" || v == "C" || v == "POSIX" || strings.HasPrefix(v, "C.") {
			continue
		}
		return Normalize(v), nil
	}
	return "", errNoLocale
}

// Normalize turns a POSIX locale such as "en_GB.UTF-8@euro" into a BCP
// 47 tag ("en-GB"). Other input is returned with underscores replaced.
func Normalize(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ReplaceAll(locale, "_", "-")
}
