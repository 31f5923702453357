// Package main implements the libcamera-cgen CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/electwix/libcamera-cgen/internal/cli"
	"github.com/electwix/libcamera-cgen/internal/diagnostics"
	"github.com/electwix/libcamera-cgen/internal/logging"
	"github.com/electwix/libcamera-cgen/internal/pipeline"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitWrite  = 2
	exitStale  = 3
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args)
	if err != nil {
		if cli.IsHelp(err) {
			_, _ = fmt.Fprintln(stdout, err.Error())
			return exitOK
		}
		_, _ = fmt.Fprintln(stderr, err.Error())
		return exitFailed
	}
	if len(opts.Args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(opts.Args, " "))
		return exitFailed
	}

	logger := logging.NewSlogAdapter(logging.New(logging.Options{
		Verbose: opts.Verbose,
		Writer:  stderr,
	}))

	env := pipeline.Environment{
		Logger: logger,
		Writer: pipeline.NewOSWriter(),
		Stdout: stdout,
	}

	pipe := pipeline.Pipeline{Env: env}
	summary, runErr := pipe.Run(ctx, pipeline.RunOptions{
		ConfigPath:    opts.ConfigPath,
		RequireConfig: opts.ConfigSet,
		OutOverride:   opts.Out,
		GoOut:         opts.GoOut,
		Check:         opts.Check,
		DryRun:        opts.DryRun,
		StrictConfig:  opts.StrictConfig,
	})

	printDiagnostics(stderr, summary.Diagnostics)

	if runErr != nil {
		var diagErr *pipeline.DiagnosticsError
		if !errors.As(runErr, &diagErr) {
			_, _ = fmt.Fprintln(stderr, runErr.Error())
		}
		var staleErr *pipeline.StaleError
		if errors.As(runErr, &staleErr) {
			return exitStale
		}
		var writeErr *pipeline.WriteError
		if errors.As(runErr, &writeErr) {
			return exitWrite
		}
		return exitFailed
	}

	if opts.DryRun {
		for _, file := range summary.Files {
			path := file.Path
			if path == "" {
				path = pipeline.StdoutPath
			}
			_, _ = fmt.Fprintln(stdout, path)
		}
	}

	return exitOK
}

// printDiagnostics writes diagnostics that are not already surfaced through
// the logger. Configuration and catalog warnings are logged by the pipeline,
// so only errors are repeated here.
func printDiagnostics(w io.Writer, diags []diagnostics.Diagnostic) {
	errs := make([]diagnostics.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.IsError() {
			errs = append(errs, d)
		}
	}
	_ = diagnostics.Write(w, errs)
}
