// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multilang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yeetrun/argrouter/pkg/argrouter"
	"golang.org/x/text/language"
)

type translation struct {
	mode, force, desc string
	messages          map[argrouter.ErrorKind]string
}

var translations = map[string]translation{
	"en": {mode: "copy", force: "force", desc: "Force overwrite existing files"},
	"fr": {
		mode:  "copier",
		force: "forcer",
		desc:  "Écraser les fichiers existants",
		messages: map[argrouter.ErrorKind]string{
			argrouter.UnknownArgument: "Argument inconnu",
		},
	},
	"ja": {mode: "kopī", force: "kyōsei", desc: "既存のファイルを上書きする"},
}

func builders(routed *string) map[string]Builder {
	out := make(map[string]Builder)
	for lang, tr := range translations {
		out[lang] = func(tag language.Tag) (*argrouter.Root, error) {
			params := []argrouter.Param{
				argrouter.Mode(
					argrouter.NoneName(tr.mode),
					argrouter.Flag(
						argrouter.LongName(tr.force),
						argrouter.ShortName("f"),
						argrouter.Description(tr.desc),
					),
					argrouter.Router(func(context.Context, argrouter.Values) error {
						*routed = tag.String()
						return nil
					}),
				),
			}
			if tr.messages != nil {
				params = append(params, argrouter.Messages(tr.messages))
			}
			return argrouter.New(params...)
		}
	}
	return out
}

func TestSelect(t *testing.T) {
	var routed string
	r, err := New("en", builders(&routed))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := r.Languages(); len(got) != 3 || got[0] != language.English {
		t.Fatalf("Languages() = %v, want English first", got)
	}

	tests := []struct {
		locale string
		args   []string
		want   string
	}{
		{"en", []string{"copy", "-f"}, "en"},
		{"en_GB.UTF-8", []string{"copy", "--force"}, "en"},
		{"fr_CA.UTF-8", []string{"copier", "--forcer"}, "fr"},
		{"fr", []string{"copier"}, "fr"},
		{"ja-JP", []string{"kopī", "--kyōsei"}, "ja"},
		{"de_DE", []string{"copy"}, "en"},
		{"", []string{"copy"}, "en"},
		{"not a locale!", []string{"copy"}, "en"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			routed = ""
			if err := r.Parse(context.Background(), tt.locale, tt.args); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if routed != tt.want {
				t.Errorf("routed to %q tree, want %q", routed, tt.want)
			}
		})
	}
}

func TestTranslatedErrors(t *testing.T) {
	var routed string
	r, err := New("en", builders(&routed))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = r.Parse(context.Background(), "fr_FR.UTF-8", []string{"copier", "--zzz"})
	var pe *argrouter.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Parse() error = %v, want *argrouter.ParseError", err)
	}
	if pe.Message != "Argument inconnu" {
		t.Errorf("Message = %q, want Argument inconnu", pe.Message)
	}
}

func TestNewErrors(t *testing.T) {
	var routed string
	if _, err := New("de", builders(&routed)); err == nil {
		t.Error("New() with a fallback lacking a builder succeeded")
	}

	bad := builders(&routed)
	bad["es"] = func(language.Tag) (*argrouter.Root, error) {
		return argrouter.New(argrouter.Mode(argrouter.NoneName("copiar")))
	}
	_, err := New("en", bad)
	var ve *argrouter.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("New() error = %v, want a wrapped *argrouter.ValidationError", err)
	}
	if !strings.Contains(err.Error(), "es") {
		t.Errorf("New() error = %q, want it to name the language", err)
	}
}

func TestSystemLocale(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"LANG", map[string]string{"LANG": "en_GB.UTF-8"}, "en-GB"},
		{"LC_ALL wins", map[string]string{"LC_ALL": "fr_FR", "LANG": "en_US.UTF-8"}, "fr-FR"},
		{"LC_MESSAGES over LANG", map[string]string{"LC_MESSAGES": "ja_JP.eucJP", "LANG": "en_US"}, "ja-JP"},
		{"C is unset", map[string]string{"LC_ALL": "C", "LANG": "de_DE@euro"}, "de-DE"},
		{"nothing", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
				t.Setenv(k, tt.env[k])
			}
			if got := SystemLocale(); got != tt.want {
				t.Errorf("SystemLocale() = %q, want %q", got, tt.want)
			}
		})
	}
}
