package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// DefaultConfig is the configuration file read when -config is not given.
const DefaultConfig = "libcamera-cgen.toml"

type Options struct {
	ConfigPath string
	// ConfigSet reports whether -config/-c was passed explicitly. A missing
	// default configuration file is not an error; a missing explicit one is.
	ConfigSet    bool
	Out          string
	GoOut        string
	Check        bool
	DryRun       bool
	StrictConfig bool
	Verbose      bool
	Args         []string
}

func Parse(args []string) (Options, error) {
	opts := Options{
		ConfigPath: DefaultConfig,
	}

	fs := flag.NewFlagSet("libcamera-cgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", opts.ConfigPath, "Path to configuration file")
	fs.StringVar(&opts.Out, "out", "", "Write the C header to this file instead of standard output")
	fs.StringVar(&opts.GoOut, "go-out", "", "Also write Go bindings to this file")
	fs.BoolVar(&opts.Check, "check", false, "Compare generated output with the files on disk and fail when they differ")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Generate output without writing files")
	fs.BoolVar(&opts.StrictConfig, "strict-config", false, "Treat configuration warnings as errors")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging")

	if err := fs.Parse(args); err != nil {
		return Options{}, fmt.Errorf("%w\n\n%s", err, Usage(fs))
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "c" {
			opts.ConfigSet = true
		}
	})
	if opts.Check && opts.DryRun {
		return Options{}, fmt.Errorf("-check and -dry-run are mutually exclusive\n\n%s", Usage(fs))
	}

	opts.Args = fs.Args()
	return opts, nil
}

// IsHelp reports whether err came from an explicit -h or -help request.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func Usage(fs *flag.FlagSet) string {
	if fs == nil {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "Usage of %s:\n", fs.Name())
	out := fs.Output()
	fs.SetOutput(&buf)
	fs.PrintDefaults()
	fs.SetOutput(out)
	return buf.String()
}
