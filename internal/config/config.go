// Package config loads and validates the libcamera-cgen configuration.
package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/electwix/libcamera-cgen/internal/fileset"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "libcamera-cgen.toml"

// GoConfig captures the optional Go bindings output.
type GoConfig struct {
	Package string `toml:"package"`
	Out     string `toml:"out"`
}

// Config mirrors the expected libcamera-cgen TOML schema:
//
//	controls = ["control_ids_core.yaml", "control_ids_draft.yaml"]
//	properties = ["property_ids_*.yaml"]
//	out = "include/libcamera/control_ids.h"
//
//	[go]
//	package = "controls"
//	out = "controls/controls_gen.go"
type Config struct {
	Controls   []string `toml:"controls"`
	Properties []string `toml:"properties"`
	Out        string   `toml:"out"`
	Go         GoConfig `toml:"go"`
}

// JobPlan is the fully-resolved configuration used by downstream stages.
// Empty pattern lists select the built-in catalog and an empty Out means
// standard output.
type JobPlan struct {
	Controls   []string
	Properties []string
	Out        string
	GoPackage  string
	GoOut      string
}

// LoadOptions tunes config loading behavior.
type LoadOptions struct {
	Strict   bool
	Resolver *fileset.Resolver
}

// Result wraps a loaded job plan alongside any non-fatal warnings.
type Result struct {
	Plan     JobPlan
	Warnings []string
}

var knownKeys = map[string]map[string]struct{}{
	"": {
		"controls":   {},
		"properties": {},
		"out":        {},
		"go":         {},
	},
	"go": {
		"package": {},
		"out":     {},
	},
}

// Load reads, validates, and resolves a libcamera-cgen configuration file.
func Load(path string, opts LoadOptions) (Result, error) {
	var res Result

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	unknownKeys, err := collectUnknownKeys(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if len(unknownKeys) > 0 {
		message := fmt.Sprintf("%s: unknown configuration keys: %s", path, strings.Join(unknownKeys, ", "))
		if opts.Strict {
			return res, errors.New(message)
		}
		res.Warnings = append(res.Warnings, message)
	}

	out, err := resolveOut(path, "out", cfg.Out)
	if err != nil {
		return res, err
	}
	goOut, err := resolveOut(path, "go.out", cfg.Go.Out)
	if err != nil {
		return res, err
	}
	if err := validatePackage(path, cfg.Go.Package); err != nil {
		return res, err
	}

	var resolver fileset.Resolver
	if opts.Resolver != nil {
		resolver = *opts.Resolver
	} else if len(cfg.Controls) > 0 || len(cfg.Properties) > 0 {
		resolver, err = fileset.NewOSResolver(filepath.Dir(path))
		if err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
	}

	controls, err := resolvePatterns(resolver, "controls", cfg.Controls)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	properties, err := resolvePatterns(resolver, "properties", cfg.Properties)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	res.Plan = JobPlan{
		Controls:   controls,
		Properties: properties,
		Out:        out,
		GoPackage:  cfg.Go.Package,
		GoOut:      goOut,
	}
	return res, nil
}

// collectUnknownKeys reports keys outside the schema as sorted dotted paths.
func collectUnknownKeys(data []byte) ([]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	unknown := make([]string, 0)
	for key, value := range raw {
		if _, ok := knownKeys[""][key]; !ok {
			unknown = append(unknown, key)
			continue
		}
		nested, ok := knownKeys[key]
		if !ok {
			continue
		}
		table, ok := value.(map[string]any)
		if !ok {
			continue
		}
		for sub := range table {
			if _, ok := nested[sub]; !ok {
				unknown = append(unknown, key+"."+sub)
			}
		}
	}
	slices.Sort(unknown)
	return unknown, nil
}

func validatePackage(path, pkg string) error {
	if pkg == "" {
		return nil
	}
	if !token.IsIdentifier(pkg) || token.Lookup(pkg) != token.IDENT {
		return fmt.Errorf("%s: invalid go.package name %q", path, pkg)
	}
	return nil
}

func resolveOut(path, field, out string) (string, error) {
	if out == "" {
		return "", nil
	}
	if filepath.IsAbs(out) {
		return "", fmt.Errorf("%s: %s must be a relative path", path, field)
	}

	cleaned := filepath.Clean(out)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %s must not traverse upwards", path, field)
	}

	baseDir := filepath.Dir(path)
	return filepath.Join(baseDir, cleaned), nil
}

func resolvePatterns(resolver fileset.Resolver, field string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	paths, err := resolver.Resolve(patterns)
	if err != nil {
		var noMatchErr fileset.NoMatchError
		if errors.As(err, &noMatchErr) {
			return nil, fmt.Errorf("%s patterns matched no files: %s", field, strings.Join(noMatchErr.Patterns, ", "))
		}

		var patternErr fileset.PatternError
		if errors.As(err, &patternErr) {
			return nil, fmt.Errorf("%s: invalid glob pattern %q: %w", field, patternErr.Pattern, patternErr.Err)
		}

		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return paths, nil
}
