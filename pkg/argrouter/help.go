// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argrouter

import (
	"fmt"
	"strings"
)

// HelpDescriptor is the help entry of a node and its subtree, for
// rendering by a help formatter.
type HelpDescriptor struct {
	Kind        Kind             `yaml:"kind" json:"kind"`
	Label       string           `yaml:"label" json:"label"`
	Description string           `yaml:"description,omitempty" json:"description,omitempty"`
	Flatten     bool             `yaml:"flatten,omitempty" json:"flatten,omitempty"`
	Children    []HelpDescriptor `yaml:"children,omitempty" json:"children,omitempty"`
}

// HelpInfo is the program level information carried by the help node.
type HelpInfo struct {
	Program  string `yaml:"program,omitempty" json:"program,omitempty"`
	Version  string `yaml:"version,omitempty" json:"version,omitempty"`
	Intro    string `yaml:"intro,omitempty" json:"intro,omitempty"`
	Addendum string `yaml:"addendum,omitempty" json:"addendum,omitempty"`

	// Flatten requests every nested mode be listed in full.
	Flatten bool `yaml:"flatten,omitempty" json:"flatten,omitempty"`
}

// Help returns the node's descriptor. It is computed on first use and
// safe to call concurrently.
func (n *Node) Help() HelpDescriptor {
	n.helpOnce.Do(func() {
		d := HelpDescriptor{
			Kind:        n.kind,
			Label:       n.label(),
			Description: n.description(),
			Flatten:     n.has(PolicyFlattenHelp),
		}
		for _, c := range n.children {
			d.Children = append(d.Children, c.Help())
		}
		n.help = d
	})
	return n.help
}

func (n *Node) label() string {
	switch n.kind {
	case KindRoot:
		return ""
	case KindMode:
		return n.none()
	case KindPositional:
		lo, hi := n.counts()
		return n.display() + countSuffix(lo, hi)
	case KindOneOf:
		return "One of: " + n.groupLabel()
	case KindAliasGroup:
		return "Alias group: " + n.groupLabel()
	case KindArg:
		return n.nameLabel() + " <" + n.valueName() + ">"
	case KindMultiArg:
		lo, hi := n.counts()
		return n.nameLabel() + " <" + n.valueName() + ">..." + countSuffix(lo, hi)
	}
	return n.nameLabel()
}

func (n *Node) nameLabel() string {
	var parts []string
	if s := n.long(); s != "" {
		parts = append(parts, "--"+s)
	}
	if s := n.short(); s != "" {
		parts = append(parts, "-"+s)
	}
	return strings.Join(parts, ",")
}

func (n *Node) groupLabel() string {
	parts := make([]string, 0, len(n.children))
	for _, c := range n.children {
		if l := c.nameLabel(); l != "" {
			parts = append(parts, l)
		} else {
			parts = append(parts, c.token().String())
		}
	}
	return strings.Join(parts, ",")
}

func (n *Node) valueName() string {
	if s := n.display(); s != "" {
		return s
	}
	return "VALUE"
}

func countSuffix(lo, hi int) string {
	switch {
	case lo == hi && lo == 1:
		return ""
	case lo == hi:
		return fmt.Sprintf(" [%d]", lo)
	case hi == Unbounded:
		return fmt.Sprintf(" [%d,N]", lo)
	default:
		return fmt.Sprintf(" [%d,%d]", lo, hi)
	}
}

// Help returns the descriptor of the root, or of the mode reached by
// following path through named modes.
func (r *Root) Help(path ...string) (HelpDescriptor, error) {
	n := r.node
	for _, p := range path {
		next := childMode(n, p)
		if next == nil {
			var names []string
			for _, c := range n.children {
				if c.kind == KindMode && c.none() != "" {
					names = append(names, c.none())
				}
			}
			return HelpDescriptor{}, r.unknown(Lex(p), names)
		}
		n = next
	}
	d := n.Help()
	if n == r.node {
		d.Label = r.helpInfo().Program
	}
	return d, nil
}

// HelpInfo returns the program information declared on the help node.
func (r *Root) HelpInfo() HelpInfo {
	return r.helpInfo()
}

func (r *Root) helpInfo() HelpInfo {
	h := r.help
	if h == nil {
		return HelpInfo{}
	}
	return HelpInfo{
		Program:  h.text(PolicyProgramName),
		Version:  h.text(PolicyProgramVersion),
		Intro:    h.text(PolicyProgramIntro),
		Addendum: h.text(PolicyProgramAddendum),
		Flatten:  h.has(PolicyFlattenHelp),
	}
}

func childMode(n *Node, name string) *Node {
	for _, c := range n.children {
		if c.kind == KindMode && c.none() != "" && c.none() == name {
			return c
		}
	}
	return nil
}
