package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cbtc/pkg/compiler"
	"cbtc/pkg/config"
	"cbtc/pkg/diag"
	"cbtc/pkg/utils"
)

// errHalted is returned by a command after a halting diagnostic was emitted.
var errHalted = errors.New("compilation halted")

// app is the state shared by all subcommands of one invocation.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	opts   compiler.Options
	color  diag.ColorMode
	logger *slog.Logger

	exitCode int
}

// settings maps config keys to the persistent flags that override them.
var settings = map[string]string{
	"lexer.string_newline":  "string-newline",
	"parser.require_header": "require-header",
	"diagnostics.color":     "color",
	"log.level":             "log-level",
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:               "cbtc",
		Short:             "cbt compiler front end",
		Long:              "cbtc tokenizes and parses cbt source files and reports malformed input with source context.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: ./"+config.DefaultFile+" if present)")
	flags.String("color", "", "Color diagnostics: auto, always or never")
	flags.String("string-newline", "", "Newline inside a string literal: reject or terminate")
	flags.Bool("require-header", false, "Require the BEGIN PROGRAM. header")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	if err := bindFlags(a.v, flags); err != nil {
		panic(err)
	}
	a.v.SetEnvPrefix("CBTC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.tokensCmd(), a.parseCmd(), a.checkCmd())
	return root, a
}

// bindFlags binds --config and every entry of settings into v.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlag("config", flags.Lookup("config")); err != nil {
		return fmt.Errorf("binding --config: %w", err)
	}
	for key, flag := range settings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s to %s: %w", flag, key, err)
		}
	}
	return nil
}

// setup loads the config file and applies env and flag overrides, in that
// order of increasing precedence.
func (a *app) setup() error {
	cfg, err := config.LoadOrDefault(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if a.v.IsSet("lexer.string_newline") {
		cfg.Lexer.StringNewline = a.v.GetString("lexer.string_newline")
	}
	if a.v.IsSet("parser.require_header") {
		cfg.Parser.RequireHeader = a.v.GetBool("parser.require_header")
	}
	if a.v.IsSet("diagnostics.color") {
		cfg.Diagnostics.Color = a.v.GetString("diagnostics.color")
	}
	if a.v.IsSet("log.level") {
		cfg.Log.Level = a.v.GetString("log.level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	if a.opts, err = cfg.CompilerOptions(); err != nil {
		return err
	}
	if a.color, err = cfg.ColorMode(); err != nil {
		return err
	}
	if a.color == diag.ColorAuto {
		a.color = detectColor(a.stderr)
	}
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// detectColor enables color only for a terminal and when NO_COLOR is unset.
func detectColor(w io.Writer) diag.ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return diag.ColorNever
	}
	f, ok := w.(*os.File)
	if !ok {
		return diag.ColorNever
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return diag.ColorAlways
	}
	return diag.ColorNever
}

// compileFile loads path and runs the front end on it. Diagnostics go to
// stderr; errHalted is returned once one of them halts.
func (a *app) compileFile(path string) (*diag.Source, *compiler.Result, *diag.Emitter, error) {
	text, err := utils.LoadSource(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading source: %w", err)
	}
	src := diag.NewSource(path, text)
	em := diag.NewEmitter(a.stderr, a.color)

	start := time.Now()
	res, err := compiler.Compile(src, a.opts, em)
	a.logger.Debug("compiled", "file", path, "bytes", len(text), "lines", src.LineCount(), "duration", time.Since(start), "ok", err == nil)
	if err != nil {
		a.exitCode = em.ExitCode()
		if em.ShouldHalt() {
			return src, nil, em, errHalted
		}
		return src, nil, em, err
	}
	a.logger.Debug("front end finished", "tokens", len(res.Tokens), "statements", len(res.Stmts))
	return src, res, em, nil
}
