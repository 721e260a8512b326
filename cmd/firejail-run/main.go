// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// firejail-run runs commands in firejail sandboxes configured by presets.
//
// Usage:
//
//	firejail-run run [flags] -- <command> [args...]
//	firejail-run emit [flags] -- <command> [args...]
//	firejail-run check [flags]
//	firejail-run list-presets
//	firejail-run show-preset <name>
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/firejail"
	"github.com/bureau-foundation/firejail/lib/version"
	"github.com/bureau-foundation/firejail/preset"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := newLogger()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runCmd(args, logger)
	case "emit":
		err = emitCmd(args, logger)
	case "check":
		err = checkCmd(args, logger)
	case "list-presets":
		err = listPresetsCmd(args)
	case "show-preset":
		err = showPresetCmd(args)
	case "version", "--version", "-v":
		fmt.Printf("firejail-run %s\n", version.Info())
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		// Propagate the sandboxed command's exit code.
		if code, ok := firejail.IsExitError(err); ok {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`firejail-run - Run commands in firejail sandboxes

USAGE
    firejail-run <command> [flags] [-- <args>...]

COMMANDS
    run           Run a command in a sandbox
    emit          Print the launcher argument vector without running
    check         Check launcher availability and preset validity
    list-presets  List available presets
    show-preset   Show resolved preset details
    version       Show version

EXAMPLES
    # Run a shell with the hardened preset
    firejail-run run --preset=hardened -- bash

    # Print the exact launcher invocation
    firejail-run emit --preset=netless -- curl https://example.com

    # Add a bind mount and an environment variable
    firejail-run run --preset=hardened --bind=/var/data:/data --env=MODE=batch -- worker

ENVIRONMENT
    FIREJAIL_RUN_DEBUG  Enable debug logging

For more information, see: https://github.com/bureau-foundation/firejail
`)
}

// newLogger creates the CLI logger. A terminal on stderr gets
// human-readable text output; pipes get JSON for log collectors.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("FIREJAIL_RUN_DEBUG") != "" {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// loadPresets loads the built-in presets, then the standard search
// paths, then the explicit file (if any) so its definitions win.
func loadPresets(logger *slog.Logger, extraFile string) (*preset.Loader, error) {
	var loadLogger *slog.Logger
	if os.Getenv("FIREJAIL_RUN_DEBUG") != "" {
		loadLogger = logger
	}

	loader, err := preset.LoadFromSearchPathsWithLogger(loadLogger)
	if err != nil {
		return nil, err
	}

	if extraFile != "" {
		if err := loader.LoadFile(extraFile); err != nil {
			return nil, err
		}
	}

	return loader, nil
}

// commandOptions holds the flags shared by the run and emit commands.
type commandOptions struct {
	presetName  string
	presetsFile string
	launcher    string
	dir         string
	timeout     string
	verbose     bool
	clearEnv    bool
	enables     []string
	envs        []string
	unsetEnvs   []string
	binds       []string
	blacklists  []string
}

// addCommandFlags registers the shared sandbox configuration flags.
func addCommandFlags(fs *pflag.FlagSet, opts *commandOptions) {
	fs.StringVar(&opts.presetName, "preset", "", "Preset name to apply")
	fs.StringVar(&opts.presetsFile, "presets-file", "", "Extra preset config file (highest precedence)")
	fs.StringVar(&opts.launcher, "launcher", "", "Launcher binary override")
	fs.StringVar(&opts.dir, "dir", "", "Working directory for the target command")
	fs.StringVar(&opts.timeout, "timeout", "", "Kill the sandbox after this duration (e.g. 30s, 1h)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Let the launcher print its own diagnostics")
	fs.BoolVar(&opts.clearEnv, "clear-env", false, "Start from an empty environment")
	fs.StringArrayVar(&opts.enables, "enable", nil, "Sandbox switch to enable by name, repeatable")
	fs.StringArrayVar(&opts.envs, "env", nil, "Environment variable (KEY=VALUE), repeatable")
	fs.StringArrayVar(&opts.unsetEnvs, "unset-env", nil, "Environment variable to remove, repeatable")
	fs.StringArrayVar(&opts.binds, "bind", nil, "Bind mount (SOURCE:TARGET), repeatable")
	fs.StringArrayVar(&opts.blacklists, "blacklist", nil, "Path to make inaccessible, repeatable")
}

// buildCommand assembles the firejail invocation from the preset (if
// any) and the command-line overrides.
func buildCommand(opts commandOptions, command []string, logger *slog.Logger) (*firejail.Command, error) {
	c := firejail.New(command[0]).Args(command[1:]...)

	if opts.launcher != "" {
		c.Launcher(opts.launcher)
	}
	if opts.dir != "" {
		c.Dir(opts.dir)
	}

	if opts.presetName != "" {
		loader, err := loadPresets(logger, opts.presetsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load presets: %w", err)
		}
		p, err := loader.Resolve(opts.presetName)
		if err != nil {
			return nil, err
		}
		if err := p.Apply(c); err != nil {
			return nil, err
		}
	}

	if opts.verbose {
		c.Verbose()
	}
	for _, name := range opts.enables {
		if err := c.Enable(name); err != nil {
			return nil, err
		}
	}
	if opts.timeout != "" {
		d, err := time.ParseDuration(opts.timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", opts.timeout, err)
		}
		c.Timeout(d)
	}
	if opts.clearEnv {
		c.ClearEnv()
	}
	for _, env := range opts.envs {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			return nil, fmt.Errorf("invalid env format %q: must be KEY=VALUE", env)
		}
		c.SetEnv(key, value)
	}
	for _, key := range opts.unsetEnvs {
		c.UnsetEnv(key)
	}
	for _, bind := range opts.binds {
		source, target, ok := strings.Cut(bind, ":")
		if !ok {
			return nil, fmt.Errorf("invalid bind format %q: must be SOURCE:TARGET", bind)
		}
		c.Bind(source, target)
	}
	for _, path := range opts.blacklists {
		c.Blacklist(path)
	}

	return c, nil
}

// runCmd implements the "run" command.
func runCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("run", pflag.ExitOnError)

	var opts commandOptions
	addCommandFlags(fs, &opts)
	dryRun := fs.Bool("dry-run", false, "Print the launcher command without executing")

	fs.Usage = func() {
		fmt.Print(`firejail-run run - Run a command in a sandbox

USAGE
    firejail-run run [flags] -- <command> [args...]

FLAGS
`)
		fs.PrintDefaults()
		fmt.Print(`
EXAMPLES
    firejail-run run --preset=hardened -- bash
    firejail-run run --preset=netless --env=MODE=batch -- worker
    firejail-run run --preset=hardened --dry-run -- bash
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	command := fs.Args()
	if len(command) == 0 {
		return fmt.Errorf("command is required after --")
	}

	c, err := buildCommand(opts, command, logger)
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Println(strings.Join(c.ArgVector(), " \\\n  "))
		return nil
	}

	logger.Debug("executing launcher", "command", c.String())

	// Set up signal handling.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	c.Stdin(os.Stdin).Stdout(os.Stdout).Stderr(os.Stderr)
	return c.Run(ctx)
}

// emitCmd implements the "emit" command. On a terminal it prints the
// argument vector one entry per line for readability; piped output is
// space-joined so shells can substitute it directly.
func emitCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("emit", pflag.ExitOnError)

	var opts commandOptions
	addCommandFlags(fs, &opts)

	fs.Usage = func() {
		fmt.Print(`firejail-run emit - Print the launcher argument vector without running

USAGE
    firejail-run emit [flags] -- <command> [args...]

FLAGS
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	command := fs.Args()
	if len(command) == 0 {
		return fmt.Errorf("command is required after --")
	}

	c, err := buildCommand(opts, command, logger)
	if err != nil {
		return err
	}

	vector := c.ArgVector()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		for _, arg := range vector {
			fmt.Println(arg)
		}
	} else {
		fmt.Println(strings.Join(vector, " "))
	}
	return nil
}

// checkCmd implements the "check" command.
func checkCmd(args []string, logger *slog.Logger) error {
	fs := pflag.NewFlagSet("check", pflag.ExitOnError)

	presetsFile := fs.String("presets-file", "", "Extra preset config file to check")

	fs.Usage = func() {
		fmt.Print(`firejail-run check - Check launcher availability and preset validity

USAGE
    firejail-run check [flags]

FLAGS
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	failed := false

	capability := firejail.DetectCapability()
	if capability.Available {
		fmt.Printf("Launcher: %s\n", capability.Path)
		fmt.Printf("Version: %s\n", capability.Version)
	} else {
		fmt.Println("Launcher: not found")
		failed = true
	}

	loader, err := loadPresets(logger, *presetsFile)
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	names := loader.List()
	fmt.Printf("\nPresets (%d):\n", len(names))
	for _, name := range names {
		p, err := loader.Resolve(name)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			fmt.Printf("  %s: %v\n", name, err)
			failed = true
			continue
		}
		fmt.Printf("  %s: ok\n", name)
	}

	if failed {
		return fmt.Errorf("check failed")
	}
	return nil
}

// listPresetsCmd implements the "list-presets" command.
func listPresetsCmd(args []string) error {
	loader, err := preset.LoadFromSearchPaths()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	fmt.Println("Available presets:")
	for _, name := range loader.List() {
		p, err := loader.Resolve(name)
		if err != nil {
			fmt.Printf("  %s (error: %v)\n", name, err)
			continue
		}
		fmt.Printf("  %s - %s\n", name, p.Description)
	}

	return nil
}

// showPresetCmd implements the "show-preset" command.
func showPresetCmd(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("preset name required")
	}
	name := args[0]

	loader, err := preset.LoadFromSearchPaths()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	p, err := loader.Resolve(name)
	if err != nil {
		return err
	}

	fmt.Printf("Preset: %s\n", p.Name)
	fmt.Printf("Description: %s\n", p.Description)
	fmt.Println()

	if len(p.Switches) > 0 {
		fmt.Println("Switches:")
		for _, s := range p.Switches {
			fmt.Printf("  %s\n", s)
		}
		fmt.Println()
	}

	if p.CapsDropAll || len(p.CapsKeep) > 0 || len(p.CapsDrop) > 0 {
		fmt.Println("Capabilities:")
		if p.CapsDropAll {
			fmt.Println("  drop: all")
		}
		if len(p.CapsKeep) > 0 {
			fmt.Printf("  keep: %s\n", strings.Join(p.CapsKeep, ", "))
		}
		if len(p.CapsDrop) > 0 {
			fmt.Printf("  drop: %s\n", strings.Join(p.CapsDrop, ", "))
		}
		fmt.Println()
	}

	network := p.Net != "" || p.IP != "" || p.Netfilter != "" || len(p.DNS) > 0 || len(p.Protocols) > 0
	if network {
		fmt.Println("Network:")
		if p.Net != "" {
			fmt.Printf("  net: %s\n", p.Net)
		}
		if p.IP != "" {
			fmt.Printf("  ip: %s\n", p.IP)
		}
		if p.Netfilter != "" {
			fmt.Printf("  netfilter: %s\n", p.Netfilter)
		}
		if len(p.DNS) > 0 {
			fmt.Printf("  dns: %s\n", strings.Join(p.DNS, ", "))
		}
		if len(p.Protocols) > 0 {
			fmt.Printf("  protocols: %s\n", strings.Join(p.Protocols, ", "))
		}
		fmt.Println()
	}

	if len(p.Env) > 0 || len(p.UnsetEnv) > 0 || p.ClearEnv {
		fmt.Println("Environment:")
		if p.ClearEnv {
			fmt.Println("  (cleared)")
		}
		for k, v := range p.Env {
			fmt.Printf("  %s=%s\n", k, v)
		}
		for _, k := range p.UnsetEnv {
			fmt.Printf("  unset %s\n", k)
		}
		fmt.Println()
	}

	// Preview the full invocation for a placeholder command.
	c := firejail.New("<command>")
	if err := p.Apply(c); err != nil {
		return fmt.Errorf("preset does not apply cleanly: %w", err)
	}
	fmt.Println("Invocation:")
	fmt.Printf("  %s\n", c.String())

	return nil
}
