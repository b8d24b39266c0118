// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package helpfmt renders argrouter help descriptors as terminal text,
// Markdown or YAML.
package helpfmt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/yeetrun/argrouter/pkg/argrouter"
)

// Column at which descriptions start, counting the indent.
const (
	optionColumn = 28
	modeColumn   = 16
)

// Text writes d as plain help text.
func Text(w io.Writer, d argrouter.HelpDescriptor, info argrouter.HelpInfo, opts Options) error {
	p := newPrinter(opts)
	p.render(d, info)
	_, err := io.WriteString(w, p.b.String())
	return err
}

type printer struct {
	b       strings.Builder
	width   int
	section *color.Color
	label   *color.Color
}

func newPrinter(opts Options) *printer {
	p := &printer{
		width:   opts.Width,
		section: color.New(color.Bold),
		label:   color.New(color.FgCyan),
	}
	if p.width <= 0 {
		p.width = DefaultWidth
	}
	for _, c := range []*color.Color{p.section, p.label} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// sections splits a descriptor's children for display. The children of
// an anonymous mode are shown as the parent's own.
func sections(d argrouter.HelpDescriptor) (args, opts, modes []argrouter.HelpDescriptor) {
	for _, c := range d.Children {
		switch {
		case c.Kind == argrouter.KindMode && c.Label == "":
			a, o, m := sections(c)
			args = append(args, a...)
			opts = append(opts, o...)
			modes = append(modes, m...)
		case c.Kind == argrouter.KindMode:
			modes = append(modes, c)
		case c.Kind == argrouter.KindPositional:
			args = append(args, c)
		default:
			opts = append(opts, c)
		}
	}
	return args, opts, modes
}

func (p *printer) render(d argrouter.HelpDescriptor, info argrouter.HelpInfo) {
	root := d.Kind == argrouter.KindRoot
	name := info.Program
	if !root && d.Label != "" {
		name = strings.TrimSpace(name + " " + d.Label)
	}

	header := name
	if root && info.Version != "" {
		header += " " + normalizeVersion(info.Version)
	}
	if header != "" {
		p.b.WriteString(p.section.Sprint(header))
		p.b.WriteString("\n\n")
	}
	intro := d.Description
	if root {
		intro = info.Intro
	}
	if intro != "" {
		p.paragraph(intro)
	}

	args, opts, modes := sections(d)

	usage := []string{name}
	if len(opts) > 0 {
		usage = append(usage, "[OPTIONS]")
	}
	if len(modes) > 0 {
		usage = append(usage, "MODE")
	}
	for _, a := range args {
		usage = append(usage, a.Label)
	}
	p.title("USAGE")
	p.b.WriteString("    " + strings.Join(usage, " ") + "\n\n")

	if len(args) > 0 {
		p.title("ARGUMENTS")
		for _, a := range args {
			p.entry(4, optionColumn, a.Label, a.Description)
		}
		p.b.WriteString("\n")
	}
	if len(opts) > 0 {
		p.title("OPTIONS")
		p.options(4, opts)
		p.b.WriteString("\n")
	}
	if len(modes) > 0 {
		p.title("MODES")
		for _, m := range modes {
			p.mode(4, m, info.Flatten)
		}
		p.b.WriteString("\n")
		if root {
			if flag := helpFlag(d); flag != "" {
				fmt.Fprintf(&p.b, "Run '%s %s MODE' for more information on a mode.\n", name, flag)
			}
		}
	}
	if root && info.Addendum != "" {
		if len(modes) > 0 {
			p.b.WriteString("\n")
		}
		p.paragraph(info.Addendum)
	}
}

func (p *printer) title(s string) {
	p.b.WriteString(p.section.Sprint(s + ":"))
	p.b.WriteString("\n")
}

func (p *printer) paragraph(s string) {
	for _, line := range wrap(s, p.width) {
		p.b.WriteString(line)
		p.b.WriteString("\n")
	}
	p.b.WriteString("\n")
}

func (p *printer) options(indent int, opts []argrouter.HelpDescriptor) {
	for _, o := range opts {
		p.entry(indent, optionColumn, o.Label, o.Description)
		if o.Kind == argrouter.KindOneOf || o.Kind == argrouter.KindAliasGroup {
			for _, c := range o.Children {
				p.entry(indent+4, optionColumn, c.Label, c.Description)
			}
		}
	}
}

func (p *printer) mode(indent int, m argrouter.HelpDescriptor, flatten bool) {
	p.entry(indent, modeColumn, m.Label, m.Description)
	if !flatten && !m.Flatten {
		return
	}
	args, opts, modes := sections(m)
	for _, a := range args {
		p.entry(indent+4, optionColumn, a.Label, a.Description)
	}
	p.options(indent+4, opts)
	for _, c := range modes {
		p.mode(indent+4, c, flatten)
	}
}

// entry writes label at indent and its description from column col,
// wrapped to the printer width.
func (p *printer) entry(indent, col int, label, desc string) {
	p.b.WriteString(strings.Repeat(" ", indent))
	p.b.WriteString(p.label.Sprint(label))
	if desc == "" {
		p.b.WriteString("\n")
		return
	}
	used := indent + lipgloss.Width(label)
	if used >= col {
		p.b.WriteString("\n")
		used = 0
	}
	lines := wrap(desc, p.width-col-1)
	p.b.WriteString(strings.Repeat(" ", col-used+1))
	p.b.WriteString(lines[0])
	p.b.WriteString("\n")
	for _, line := range lines[1:] {
		p.b.WriteString(strings.Repeat(" ", col+1))
		p.b.WriteString(line)
		p.b.WriteString("\n")
	}
}

// wrap splits text into lines of at most width cells, breaking between
// words. Words wider than width get a line of their own.
func wrap(text string, width int) []string {
	width = max(width, 20)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.Join(strings.Fields(para), " ")
		lines = append(lines, strings.Split(ansi.Wordwrap(para, width, ""), "\n")...)
	}
	return lines
}

func normalizeVersion(v string) string {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	return sv.String()
}

// helpFlag returns the first name of the help node among d's children.
func helpFlag(d argrouter.HelpDescriptor) string {
	for _, c := range d.Children {
		if c.Kind == argrouter.KindHelp {
			name, _, _ := strings.Cut(c.Label, ",")
			return name
		}
	}
	return ""
}

// Format selects the output of a Formatter.
type Format int

const (
	FormatText Format = iota
	FormatMarkdown
	FormatYAML
)

// Formatter is an argrouter.HelpFormatter; attach it to a help node to
// have help printed when the node is matched.
type Formatter struct {
	Format  Format
	Options Options

	// Detect replaces Options with Detect(w) when w is an *os.File.
	Detect bool
}

func (Formatter) Kind() argrouter.PolicyKind { return argrouter.PolicyHelpFormatter }

func (f Formatter) FormatHelp(w io.Writer, d argrouter.HelpDescriptor, info argrouter.HelpInfo) error {
	switch f.Format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(d, info))
		return err
	case FormatYAML:
		b, err := YAML(d, info)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	opts := f.Options
	if file, ok := w.(*os.File); ok && f.Detect {
		opts = Detect(file)
	}
	return Text(w, d, info, opts)
}
