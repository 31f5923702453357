// Package fileset handles file path resolution and glob expansion.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Resolver resolves glob patterns against an fs.FS and rewrites the discovered
// paths using a join function. Catalog files are concatenated in the order the
// patterns list them, so results keep pattern order.
type Resolver struct {
	fsys fs.FS
	join func(name string) string
}

// ErrNoPatterns indicates that Resolve was invoked without any glob patterns.
var ErrNoPatterns = errors.New("fileset: no patterns provided")

// PatternError wraps syntax issues reported while evaluating a glob pattern.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error.
func (e PatternError) Unwrap() error { return e.Err }

// NoMatchError describes which patterns failed to yield any results.
type NoMatchError struct {
	Patterns []string
}

// Error implements the error interface.
func (e NoMatchError) Error() string {
	return "patterns matched no files: " + strings.Join(e.Patterns, ", ")
}

// NewResolver constructs a Resolver against the provided filesystem without any
// path rewriting, preserving the original match names. Useful for tests.
func NewResolver(fsys fs.FS) Resolver {
	return Resolver{
		fsys: fsys,
		join: func(name string) string { return name },
	}
}

// NewOSResolver constructs a Resolver rooted at base that returns absolute OS
// paths for each match.
func NewOSResolver(base string) (Resolver, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return Resolver{}, fmt.Errorf("resolve base %q: %w", base, err)
	}

	info, err := os.Stat(absBase)
	if err != nil {
		return Resolver{}, fmt.Errorf("stat base %q: %w", absBase, err)
	}
	if !info.IsDir() {
		return Resolver{}, fmt.Errorf("base %q is not a directory", absBase)
	}

	return Resolver{
		fsys: os.DirFS(absBase),
		join: func(name string) string {
			if filepath.IsAbs(name) {
				return filepath.Clean(name)
			}
			return filepath.Join(absBase, filepath.FromSlash(name))
		},
	}, nil
}

// Resolve evaluates each glob pattern in turn. Matches of a single pattern are
// sorted; across patterns the configured order is kept and a path matched by
// more than one pattern stays at its first position.
func (r Resolver) Resolve(patterns []string) ([]string, error) {
	if r.fsys == nil {
		return nil, errors.New("fileset: resolver has no filesystem")
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	var (
		paths   []string
		missing []string
		seen    = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		matches, err := r.glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			missing = append(missing, pattern)
			continue
		}
		for _, match := range matches {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}

	if len(missing) > 0 {
		return nil, NoMatchError{Patterns: missing}
	}
	return paths, nil
}

// glob returns the sorted, joined matches of a single pattern.
func (r Resolver) glob(pattern string) ([]string, error) {
	matches, err := fs.Glob(r.fsys, filepath.ToSlash(pattern))
	if err != nil {
		return nil, PatternError{Pattern: pattern, Err: err}
	}
	slices.Sort(matches)

	join := r.join
	if join == nil {
		join = func(name string) string { return name }
	}
	for i, match := range matches {
		matches[i] = join(match)
	}
	return matches, nil
}
