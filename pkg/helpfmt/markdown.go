// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package helpfmt

import (
	"fmt"
	"strings"

	"github.com/yeetrun/argrouter/pkg/argrouter"
	"gopkg.in/yaml.v3"
)

// Markdown renders d as a Markdown reference, every mode included, for
// documentation sites and LLM consumption.
func Markdown(d argrouter.HelpDescriptor, info argrouter.HelpInfo) string {
	var b strings.Builder

	title := info.Program
	if d.Kind != argrouter.KindRoot && d.Label != "" {
		title = strings.TrimSpace(title + " " + d.Label)
	}
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString(" CLI Reference\n\n")

	if d.Kind == argrouter.KindRoot {
		if info.Version != "" {
			fmt.Fprintf(&b, "Version: `%s`\n\n", normalizeVersion(info.Version))
		}
		if info.Intro != "" {
			b.WriteString(info.Intro)
			b.WriteString("\n\n")
		}
	} else if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}

	writeMarkdownBody(&b, d, 2)

	if d.Kind == argrouter.KindRoot && info.Addendum != "" {
		b.WriteString(info.Addendum)
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdownBody(b *strings.Builder, d argrouter.HelpDescriptor, level int) {
	h := strings.Repeat("#", level)
	args, opts, modes := sections(d)

	if len(args) > 0 {
		fmt.Fprintf(b, "%s Arguments\n\n", h)
		for _, a := range args {
			writeMarkdownEntry(b, a, level+1)
		}
	}
	if len(opts) > 0 {
		fmt.Fprintf(b, "%s Options\n\n", h)
		for _, o := range opts {
			writeMarkdownEntry(b, o, level+1)
			for _, c := range o.Children {
				fmt.Fprintf(b, "- `%s`", c.Label)
				if c.Description != "" {
					b.WriteString(": ")
					b.WriteString(c.Description)
				}
				b.WriteString("\n")
			}
			if len(o.Children) > 0 {
				b.WriteString("\n")
			}
		}
	}
	if len(modes) > 0 {
		fmt.Fprintf(b, "%s Modes\n\n", h)
		for _, m := range modes {
			fmt.Fprintf(b, "%s `%s`\n\n", strings.Repeat("#", level+1), m.Label)
			if m.Description != "" {
				b.WriteString(m.Description)
				b.WriteString("\n\n")
			}
			writeMarkdownBody(b, m, level+2)
		}
	}
}

func writeMarkdownEntry(b *strings.Builder, d argrouter.HelpDescriptor, level int) {
	fmt.Fprintf(b, "%s `%s`\n\n", strings.Repeat("#", min(level, 6)), d.Label)
	if d.Description != "" {
		b.WriteString(d.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(b, "- **Kind**: `%s`\n\n", d.Kind)
}

// Document is the structure YAML encodes.
type Document struct {
	Program argrouter.HelpInfo       `yaml:"program"`
	Help    argrouter.HelpDescriptor `yaml:"help"`
}

// YAML encodes d and info as a Document.
func YAML(d argrouter.HelpDescriptor, info argrouter.HelpInfo) ([]byte, error) {
	out, err := yaml.Marshal(Document{Program: info, Help: d})
	if err != nil {
		return nil, fmt.Errorf("failed to encode help: %w", err)
	}
	return out, nil
}
