package cli

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := Options{ConfigPath: DefaultConfig}
	if diff := cmp.Diff(want, opts, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverrides(t *testing.T) {
	args := []string{
		"--config", "project.toml",
		"--out", "include/control_ids.h",
		"--go-out", "controls/controls.go",
		"--check",
		"--strict-config",
		"-v",
		"extra",
	}

	opts, err := Parse(args)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := Options{
		ConfigPath:   "project.toml",
		ConfigSet:    true,
		Out:          "include/control_ids.h",
		GoOut:        "controls/controls.go",
		Check:        true,
		StrictConfig: true,
		Verbose:      true,
		Args:         []string{"extra"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("Options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShortConfig(t *testing.T) {
	opts, err := Parse([]string{"-c", "alt.toml", "-dry-run"})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if opts.ConfigPath != "alt.toml" || !opts.ConfigSet || !opts.DryRun {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestParseInvalidFlag(t *testing.T) {
	_, err := Parse([]string{"--unknown"})
	if err == nil {
		t.Fatalf("Parse expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "Usage of libcamera-cgen") {
		t.Fatalf("error = %q, want usage string", err.Error())
	}
	if IsHelp(err) {
		t.Fatalf("error unexpectedly wraps flag.ErrHelp")
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"})
	if !IsHelp(err) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("IsHelp and errors.Is disagree for %v", err)
	}
}

func TestParseCheckWithDryRun(t *testing.T) {
	_, err := Parse([]string{"-check", "-dry-run"})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mutually exclusive error, got %v", err)
	}
}

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("libcamera-cgen", flag.ContinueOnError)
	fs.String("flag", "value", "test flag")

	usage := Usage(fs)
	if !strings.Contains(usage, "Usage of libcamera-cgen:") {
		t.Fatalf("usage missing header: %q", usage)
	}
	if !strings.Contains(usage, "-flag") {
		t.Fatalf("usage missing flag definition: %q", usage)
	}
	if Usage(nil) != "" {
		t.Fatal("Usage(nil) should be empty")
	}
}
