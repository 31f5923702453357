// Package pipeline orchestrates configuration loading, catalog validation and
// header generation.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/electwix/libcamera-cgen/internal/catalog"
	"github.com/electwix/libcamera-cgen/internal/cheader"
	"github.com/electwix/libcamera-cgen/internal/config"
	"github.com/electwix/libcamera-cgen/internal/diagnostics"
	"github.com/electwix/libcamera-cgen/internal/gobind"
	"github.com/electwix/libcamera-cgen/internal/logging"
)

// StdoutPath names the header output when no file is configured.
const StdoutPath = "<stdout>"

// Environment captures external dependencies used by the pipeline.
type Environment struct {
	Logger logging.Logger
	Writer Writer
	// Stdout receives the header when no output file is configured.
	Stdout io.Writer
	// Catalog replaces the configured catalog files when set.
	Catalog catalog.Provider
	Hooks   Hooks
}

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// Pipeline orchestrates configuration loading, catalog validation and
// generation.
type Pipeline struct {
	Env Environment
}

// File is one generated output. An empty Path means standard output.
type File struct {
	Path    string
	Content []byte
}

// Summary captures generated files and diagnostics collected during a run.
type Summary struct {
	Files       []File
	Written     []string
	Unchanged   []string
	Stale       []string
	Diagnostics []diagnostics.Diagnostic
}

// RunOptions configures a pipeline execution.
type RunOptions struct {
	ConfigPath string
	// RequireConfig makes a missing configuration file an error.
	RequireConfig bool
	OutOverride   string
	GoOut         string
	Check         bool
	DryRun        bool
	StrictConfig  bool
}

// DiagnosticsError indicates that errors were reported via diagnostics.
type DiagnosticsError struct {
	Diagnostic diagnostics.Diagnostic
	Cause      error
}

func (e *DiagnosticsError) Error() string {
	return e.Diagnostic.Error()
}

func (e *DiagnosticsError) Unwrap() error {
	return e.Cause
}

// WriteError wraps failures encountered while writing generated files.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// StaleError reports files whose content differs from the generated output.
type StaleError struct {
	Paths []string
}

func (e *StaleError) Error() string {
	return "generated files are out of date: " + strings.Join(e.Paths, ", ")
}

// NewOSWriter returns a Writer that performs atomic writes on the local filesystem.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".libcamera-cgen-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// Run executes the pipeline according to the provided options.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (summary Summary, err error) {
	diags := diagnostics.NewCollection()
	logger := p.Env.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	defer func() {
		summary.Diagnostics = diags.All()
		if hookErr := runHook(ctx, p.Env.Hooks.AfterWrite, summary); hookErr != nil && err == nil {
			err = fmt.Errorf("after write hook: %w", hookErr)
		}
	}()

	fail := func(cause error) error {
		first, ok := diags.FirstError()
		if !ok {
			return cause
		}
		return &DiagnosticsError{Diagnostic: first, Cause: cause}
	}
	configError := func(path string, cause error) error {
		diags.Add(diagnostics.Error(cause.Error()).
			WithCode(diagnostics.CodeConfig).
			At(path, 1, 1).
			WithSource("config").
			Build())
		return fail(cause)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath
	}
	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return summary, configError(configPath, fmt.Errorf("resolve config path: %w", err))
	}
	baseDir := filepath.Dir(absConfigPath)

	var plan config.JobPlan
	loadResult, err := config.Load(absConfigPath, config.LoadOptions{Strict: opts.StrictConfig})
	switch {
	case err == nil:
		plan = loadResult.Plan
		logger.Debug("loaded configuration", "path", absConfigPath)
	case errors.Is(err, fs.ErrNotExist) && !opts.RequireConfig:
		logger.Debug("no configuration file, using built-in catalog", "path", absConfigPath)
	default:
		return summary, configError(absConfigPath, err)
	}
	for _, warning := range loadResult.Warnings {
		d := diagnostics.Warning(warning).
			WithCode(diagnostics.CodeConfig).
			At(absConfigPath, 1, 1).
			WithSource("config").
			Build()
		logging.Diagnostic(logger, d)
		diags.Add(d)
	}

	if opts.OutOverride != "" {
		plan.Out = resolveOverride(baseDir, opts.OutOverride)
	}
	if opts.GoOut != "" {
		plan.GoOut = resolveOverride(baseDir, opts.GoOut)
	}
	if opts.Check && plan.Out == "" {
		return summary, configError(absConfigPath, errors.New("check mode needs an output file; set out or pass -out"))
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	sources := catalog.Sources{Controls: plan.Controls, Properties: plan.Properties}
	if err := runHook(ctx, p.Env.Hooks.BeforeLoad, sources); err != nil {
		return summary, fmt.Errorf("before load hook: %w", err)
	}

	provider := p.Env.Catalog
	if provider == nil {
		loaded, catalogDiags := catalog.Load(sources)
		diags.AddAll(catalogDiags)
		for _, w := range catalogDiags.Warnings() {
			logging.Diagnostic(logger, w)
		}
		if loaded == nil {
			return summary, fail(nil)
		}
		provider = loaded
	}
	logger.Debug("catalog ready",
		"controls", len(provider.Controls()),
		"properties", len(provider.Properties()))

	if err := runHook(ctx, p.Env.Hooks.AfterLoad, provider); err != nil {
		return summary, fmt.Errorf("after load hook: %w", err)
	}

	var header bytes.Buffer
	if err := cheader.Write(&header, provider); err != nil {
		return summary, fmt.Errorf("generate header: %w", err)
	}
	summary.Files = append(summary.Files, File{Path: plan.Out, Content: header.Bytes()})

	if plan.GoOut != "" {
		gen, err := gobind.New(gobind.Options{Package: plan.GoPackage, Path: plan.GoOut})
		if err != nil {
			return summary, configError(absConfigPath, err)
		}
		src, err := gen.Generate(ctx, provider)
		if err != nil {
			return summary, fmt.Errorf("generate go bindings: %w", err)
		}
		summary.Files = append(summary.Files, File{Path: plan.GoOut, Content: src})
	}

	if err := runHook(ctx, p.Env.Hooks.AfterGenerate, summary.Files); err != nil {
		return summary, fmt.Errorf("after generate hook: %w", err)
	}

	if opts.DryRun {
		return summary, nil
	}

	if opts.Check {
		for _, file := range summary.Files {
			same, cmpErr := fileMatches(file.Path, file.Content)
			if cmpErr != nil {
				return summary, &WriteError{Path: file.Path, Err: cmpErr}
			}
			if !same {
				summary.Stale = append(summary.Stale, file.Path)
			}
		}
		if len(summary.Stale) > 0 {
			return summary, &StaleError{Paths: append([]string(nil), summary.Stale...)}
		}
		return summary, nil
	}

	if err := runHook(ctx, p.Env.Hooks.BeforeWrite, summary.Files); err != nil {
		return summary, fmt.Errorf("before write hook: %w", err)
	}

	writer := p.Env.Writer
	if writer == nil {
		writer = NewOSWriter()
	}

	for _, file := range summary.Files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if file.Path == "" {
			if err := p.writeStdout(file.Content); err != nil {
				return summary, &WriteError{Path: StdoutPath, Err: err}
			}
			summary.Written = append(summary.Written, StdoutPath)
			continue
		}
		same, cmpErr := fileMatches(file.Path, file.Content)
		if cmpErr != nil {
			return summary, &WriteError{Path: file.Path, Err: cmpErr}
		}
		if same {
			logger.Debug("output unchanged", "path", file.Path)
			summary.Unchanged = append(summary.Unchanged, file.Path)
			continue
		}
		if err := writer.WriteFile(file.Path, file.Content); err != nil {
			return summary, &WriteError{Path: file.Path, Err: err}
		}
		logger.Info("wrote output", "path", file.Path, "bytes", len(file.Content))
		summary.Written = append(summary.Written, file.Path)
	}

	return summary, nil
}

func (p *Pipeline) writeStdout(data []byte) error {
	out := p.Env.Stdout
	if out == nil {
		out = os.Stdout
	}
	_, err := out.Write(data)
	return err
}

func resolveOverride(baseDir, path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return filepath.Clean(path)
}

func fileMatches(path string, content []byte) (bool, error) {
	if path == "" {
		return false, nil
	}
	existing, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
