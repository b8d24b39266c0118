// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argrouter parses command lines against a declared tree of
// flags, arguments and modes, and routes the parsed values to handlers.
//
// A tree is built once from nodes and policies, validated, and then
// reused for any number of parses:
//
//	root, err := argrouter.New(
//	    argrouter.Help(
//	        argrouter.LongName("help"),
//	        argrouter.ShortName("h"),
//	        argrouter.Description("Display this help and exit"),
//	        argrouter.ProgramName("arcp"),
//	        argrouter.ProgramVersion("1.0.0"),
//	    ),
//	    argrouter.Mode(
//	        argrouter.NoneName("copy"),
//	        argrouter.Description("Copy source files to destination"),
//	        argrouter.Flag(
//	            argrouter.LongName("force"),
//	            argrouter.ShortName("f"),
//	            argrouter.Description("Force overwrite existing files"),
//	        ),
//	        argrouter.Positional[string](
//	            argrouter.DisplayName("SRC"),
//	            argrouter.Description("Source file paths"),
//	            argrouter.Required(),
//	            argrouter.MinCount(1),
//	        ),
//	        argrouter.Router(func(ctx context.Context, v argrouter.Values) error {
//	            force := argrouter.Get[bool](v, "force")
//	            srcs := argrouter.Get[[]string](v, "SRC")
//	            ...
//	        }),
//	    ),
//	)
//	if err != nil {
//	    log.Fatal(err) // the tree itself is malformed
//	}
//	if err := root.Parse(ctx, os.Args[1:]); err != nil {
//	    ...
//	}
//
// # Token Syntax
//
//   - Long names: --force, --jobs=4, --jobs 4
//   - Short names: -f, -j4, -j 4, -j=4
//   - Bundles: -fv is -f -v; only the last character may take a value
//   - "--" ends option parsing; later tokens are positional
//   - Anything else is positional, including negative numbers
//
// # Parsing
//
// Parse first matches every token to a node of the selected mode,
// producing a queue of targets, then runs five phases over the whole
// queue: pre-parse (token rewriting), parse (value conversion and
// counting), validate (value bounds, dependencies, one-of groups,
// aliases), missing (defaults and required checks for unmatched nodes)
// and routing. The first error stops the parse and no router is called.
//
// Policies take part in a phase by implementing PreParsePhase,
// ParsePhase, ValidationPhase, MissingPhase or RoutingPhase.
//
// # Validation
//
// New checks the tree against DefaultRules and returns the first
// violation as a *ValidationError. A Validator with extra rules can be
// supplied with WithValidator.
package argrouter
