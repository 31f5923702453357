package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/libcamera-cgen/internal/fileset"
)

func TestLoadSuccess(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeCatalog(t, tempDir, "yaml/control_ids_core.yaml")
	writeCatalog(t, tempDir, "yaml/control_ids_draft.yaml")
	writeCatalog(t, tempDir, "yaml/property_ids.yaml")

	configPath := writeConfig(t, tempDir, `
controls = ["yaml/control_ids_draft.yaml", "yaml/control_ids_*.yaml"]
properties = ["yaml/property_ids.yaml"]
out = "include/control_ids.h"

[go]
package = "controls"
out = "controls/controls_gen.go"
`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}

	want := JobPlan{
		Controls: []string{
			filepath.Join(tempDir, "yaml", "control_ids_draft.yaml"),
			filepath.Join(tempDir, "yaml", "control_ids_core.yaml"),
		},
		Properties: []string{filepath.Join(tempDir, "yaml", "property_ids.yaml")},
		Out:        filepath.Join(tempDir, "include", "control_ids.h"),
		GoPackage:  "controls",
		GoOut:      filepath.Join(tempDir, "controls", "controls_gen.go"),
	}
	if diff := cmp.Diff(want, result.Plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	configPath := writeConfig(t, t.TempDir(), `# nothing configured`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(JobPlan{}, result.Plan); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithResolver(t *testing.T) {
	t.Parallel()

	resolver := fileset.NewResolver(fstest.MapFS{
		"a.yaml": &fstest.MapFile{Mode: fs.ModePerm},
		"b.yaml": &fstest.MapFile{Mode: fs.ModePerm},
	})
	configPath := writeConfig(t, t.TempDir(), `controls = ["b.yaml", "*.yaml"]`)

	result, err := Load(configPath, LoadOptions{Resolver: &resolver})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !slices.Equal(result.Plan.Controls, []string{"b.yaml", "a.yaml"}) {
		t.Fatalf("unexpected controls: %v", result.Plan.Controls)
	}
	if result.Plan.Properties != nil {
		t.Fatalf("properties should stay unset, got %v", result.Plan.Properties)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  string
		message string
	}{
		{"absolute out", `out = "/tmp/control_ids.h"`, "out must be a relative path"},
		{"upward out", `out = "../control_ids.h"`, "out must not traverse upwards"},
		{"upward go out", "[go]\nout = \"../x/controls.go\"", "go.out must not traverse upwards"},
		{"invalid package", "[go]\npackage = \"not-valid\"", `invalid go.package name "not-valid"`},
		{"keyword package", "[go]\npackage = \"func\"", `invalid go.package name "func"`},
		{"missing catalog", `controls = ["missing/*.yaml"]`, "controls patterns matched no files: missing/*.yaml"},
		{"bad glob", `properties = ["["]`, `properties: invalid glob pattern "["`},
		{"bad toml", `controls = [`, "libcamera-cgen.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := writeConfig(t, t.TempDir(), tt.config)
			_, err := Load(configPath, LoadOptions{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Fatalf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), DefaultPath), LoadOptions{})
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func TestLoadStrictUnknownKeys(t *testing.T) {
	t.Parallel()

	configPath := writeConfig(t, t.TempDir(), `
extra = "value"

[go]
package = "controls"
flavour = "mild"
`)

	_, err := Load(configPath, LoadOptions{Strict: true})
	if err == nil {
		t.Fatal("expected strict mode to reject unknown keys")
	}
	if !strings.Contains(err.Error(), "unknown configuration keys: extra, go.flavour") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadNonStrictUnknownKeysWarning(t *testing.T) {
	t.Parallel()

	configPath := writeConfig(t, t.TempDir(), `
extra = "value"

[go]
package = "controls"
flavour = "mild"
`)

	result, err := Load(configPath, LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if result.Plan.GoPackage != "controls" {
		t.Fatalf("unexpected go package %q", result.Plan.GoPackage)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	warning := result.Warnings[0]
	if !strings.Contains(warning, "unknown configuration keys") {
		t.Fatalf("warning missing unknown keys message: %q", warning)
	}
	if !strings.Contains(warning, "extra") || !strings.Contains(warning, "go.flavour") {
		t.Fatalf("warning should mention offending keys, got: %q", warning)
	}
}

func writeCatalog(tb testing.TB, dir, name string) {
	tb.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("controls: []\n"), 0o600); err != nil {
		tb.Fatalf("write catalog: %v", err)
	}
}

func writeConfig(tb testing.TB, dir, contents string) string {
	tb.Helper()

	path := filepath.Join(dir, DefaultPath)
	clean := strings.TrimSpace(contents) + "\n"
	if err := os.WriteFile(path, []byte(clean), 0o600); err != nil {
		tb.Fatalf("write config: %v", err)
	}
	return path
}
