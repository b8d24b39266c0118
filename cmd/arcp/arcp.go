// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command arcp copies and moves files. It is a small demonstration of
// the argrouter package: modes sharing nodes through a list, a one-of
// group, counting flags, bounded values and translated help.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/yeetrun/argrouter/pkg/argrouter"
	"github.com/yeetrun/argrouter/pkg/cmdutil"
	"github.com/yeetrun/argrouter/pkg/fileutil"
	"github.com/yeetrun/argrouter/pkg/helpfmt"
	"github.com/yeetrun/argrouter/pkg/multilang"
	"github.com/yeetrun/argrouter/pkg/tui"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"golang.org/x/text/language"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

const maxJobs = 64

type app struct {
	cfg        *Config
	configPath string
	progress   bool // draw a progress line on stderr
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	log        *log.Logger
}

func newApp(cfg *Config, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		cfg:    cfg,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log: log.NewWithOptions(stderr, log.Options{
			Prefix: "arcp",
			Level:  log.WarnLevel,
		}),
	}
}

// commands builds the tree in every language arcp is translated to.
func (a *app) commands() (*multilang.Root, error) {
	builders := make(map[string]multilang.Builder, len(texts))
	for lang, tr := range texts {
		builders[lang] = func(language.Tag) (*argrouter.Root, error) {
			return a.newRoot(tr)
		}
	}
	return multilang.New("en", builders)
}

func (a *app) newRoot(tr text) (*argrouter.Root, error) {
	common := argrouter.List(
		argrouter.Flag(
			argrouter.LongName("force"),
			argrouter.ShortName("f"),
			argrouter.Description(tr.force),
		),
		argrouter.CountingFlag(
			argrouter.LongName("verbose"),
			argrouter.ShortName("v"),
			argrouter.Description(tr.verbose),
			argrouter.MaxCount(2),
		),
		argrouter.Positional[string](
			argrouter.DisplayName("DST"),
			argrouter.Description(tr.dst),
			argrouter.Required(),
			argrouter.FixedCount(1),
		),
	)

	params := []argrouter.Param{
		argrouter.Help(
			argrouter.LongName("help"),
			argrouter.ShortName("h"),
			argrouter.Description(tr.help),
			argrouter.ProgramName("arcp"),
			argrouter.ProgramVersion(version),
			argrouter.ProgramIntro(tr.intro),
			argrouter.ProgramAddendum(tr.addendum),
			argrouter.FlattenHelp(),
			helpfmt.Formatter{Detect: true},
			argrouter.Output(a.stdout),
		),
		argrouter.Flag(
			argrouter.LongName("version"),
			argrouter.Description(tr.version),
			argrouter.Router(a.printVersion),
		),
		argrouter.Mode(
			argrouter.NoneName("copy"),
			argrouter.Description(tr.copy),
			argrouter.OneOf(
				argrouter.DefaultValue(a.cfg.Dereference),
				argrouter.Flag(
					argrouter.LongName("dereference"),
					argrouter.ShortName("L"),
					argrouter.Description(tr.dereference),
				),
				argrouter.Flag(
					argrouter.LongName("no-dereference"),
					argrouter.ShortName("P"),
					argrouter.Description(tr.noDereference),
				),
			),
			argrouter.Arg[int](
				argrouter.LongName("jobs"),
				argrouter.ShortName("j"),
				argrouter.Description(tr.jobs),
				argrouter.DefaultValue(a.cfg.Jobs),
				argrouter.MinMaxValue(1, maxJobs),
			),
			common,
			argrouter.Positional[string](
				argrouter.DisplayName("SRC"),
				argrouter.Description(tr.copySrc),
				argrouter.Required(),
				argrouter.MinCount(1),
			),
			argrouter.Router(a.copyFiles),
		),
		argrouter.Mode(
			argrouter.NoneName("move"),
			argrouter.Description(tr.move),
			common,
			argrouter.Positional[string](
				argrouter.DisplayName("SRC"),
				argrouter.Description(tr.moveSrc),
				argrouter.Required(),
				argrouter.FixedCount(1),
			),
			argrouter.Router(a.moveFile),
		),
	}
	if tr.messages != nil {
		params = append(params, argrouter.Messages(tr.messages))
	}
	return argrouter.New(params...)
}

func (a *app) printVersion(context.Context, argrouter.Values) error {
	_, err := fmt.Fprintf(a.stdout, "arcp %s\n", version)
	return err
}

// setup applies the flags every mode shares and returns whether existing
// files may be overwritten without asking.
func (a *app) setup(v argrouter.Values) (force bool) {
	switch argrouter.Get[int](v, "verbose") {
	case 0:
	case 1:
		a.log.SetLevel(log.InfoLevel)
	default:
		a.log.SetLevel(log.DebugLevel)
	}
	if a.configPath != "" {
		a.log.Debug("loaded config", "path", a.configPath)
	}
	return argrouter.Get[bool](v, "force") || a.cfg.Force
}

type copyOp struct {
	src, dst string
}

func (a *app) copyFiles(ctx context.Context, v argrouter.Values) error {
	force := a.setup(v)
	// The group holds the given flag's value, true for either flag, or
	// the configured default when neither was given.
	deref := argrouter.Get[bool](v, "dereference|no-dereference") && !v.Matched("no-dereference")
	jobs := argrouter.Get[int](v, "jobs")
	dst := argrouter.Get[string](v, "DST")
	srcs := argrouter.Get[[]string](v, "SRC")

	ops, err := a.plan(dst, srcs, force)
	if err != nil {
		return err
	}
	a.log.Debug("copying", "files", len(ops), "jobs", jobs, "dereference", deref)

	var prog *tui.Progress
	if a.progress && a.log.GetLevel() > log.InfoLevel && len(ops) > 1 {
		prog = tui.NewProgress(a.stderr, "Copying", len(ops), tui.WithColor(color.New(color.FgCyan)))
		prog.Start()
		defer prog.Stop(true)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, op := range ops {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fileutil.CopyFile(op.src, op.dst, fileutil.Options{Dereference: deref}); err != nil {
				return err
			}
			if prog != nil {
				prog.Add(1)
			}
			a.log.Info("copied", "src", op.src, "dst", op.dst)
			return nil
		})
	}
	return g.Wait()
}

// plan resolves the target of each source and asks about existing
// targets. It runs before any copy starts.
func (a *app) plan(dst string, srcs []string, force bool) ([]copyOp, error) {
	fi, err := os.Stat(dst)
	intoDir := err == nil && fi.IsDir()
	if !intoDir && len(srcs) > 1 {
		return nil, fmt.Errorf("target %s is not a directory", dst)
	}
	var ops []copyOp
	for _, src := range srcs {
		target := dst
		if intoDir {
			target = filepath.Join(dst, filepath.Base(src))
		}
		same, err := fileutil.Identical(target, src)
		if err != nil {
			return nil, err
		}
		if same {
			a.log.Info("up to date", "path", target)
			continue
		}
		ok, err := a.mayOverwrite(target, force)
		if err != nil {
			return nil, err
		}
		if !ok {
			a.log.Warn("not overwriting", "path", target)
			continue
		}
		ops = append(ops, copyOp{src: src, dst: target})
	}
	return ops, nil
}

func (a *app) mayOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, err
	}
	return cmdutil.Confirm(a.stdin, a.stderr, fmt.Sprintf("Overwrite %s?", path))
}

func (a *app) moveFile(_ context.Context, v argrouter.Values) error {
	force := a.setup(v)
	src := argrouter.Get[string](v, "SRC")
	target := argrouter.Get[string](v, "DST")
	if fi, err := os.Stat(target); err == nil && fi.IsDir() {
		target = filepath.Join(target, filepath.Base(src))
	}
	ok, err := a.mayOverwrite(target, force)
	if err != nil {
		return err
	}
	if !ok {
		a.log.Warn("not overwriting", "path", target)
		return nil
	}
	if err := fileutil.Move(src, target); err != nil {
		return err
	}
	a.log.Info("moved", "src", src, "dst", target)
	return nil
}

var errorPrefix = color.New(color.FgRed, color.Bold)

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, errorPrefix.Sprint("error: "))
	fmt.Fprintln(w, err)
	var pe *argrouter.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintln(w, "Try 'arcp --help' for more information.")
	}
}

// run parses args with the tree for locale and returns the exit code.
func (a *app) run(ctx context.Context, locale string, args []string) int {
	cmds, err := a.commands()
	if err != nil {
		printCLIError(a.stderr, err)
		return cmdutil.ExitError
	}
	err = cmds.Parse(ctx, locale, args)
	code := cmdutil.ExitCode(err)
	if code != cmdutil.ExitOK {
		printCLIError(a.stderr, err)
	}
	return code
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(cmdutil.ExitError)
	}
	cfg, path, err := loadConfig(cwd, os.Getenv)
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(cmdutil.ExitError)
	}
	a := newApp(cfg, os.Stdin, os.Stdout, os.Stderr)
	a.configPath = path
	a.progress = term.IsTerminal(int(os.Stderr.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := a.run(ctx, multilang.SystemLocale(), os.Args[1:])
	stop()
	os.Exit(code)
}
