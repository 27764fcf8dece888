package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jo-hoe/quadsplit/internal/config"
	"github.com/jo-hoe/quadsplit/internal/pipeline"
)

// errUsage marks command-line mistakes, which exit with status 2.
var errUsage = errors.New("usage error")

type options struct {
	inputDir   string
	outputDir  string
	margin     float64
	configPath string
	logLevel   string
	// set holds the names of flags given explicitly on the command line
	set map[string]bool
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("quadsplit", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Split 2x2 composite images into quadrants and generate metadata.\n\nUsage of %s:\n", fs.Name())
		fs.PrintDefaults()
	}

	opts := &options{set: make(map[string]bool)}
	fs.StringVar(&opts.inputDir, "input_dir", "", "Directory of input 2x2 composite images (required)")
	fs.StringVar(&opts.outputDir, "output_dir", "", "Directory to write cropped quadrants and metadata (required)")
	fs.Float64Var(&opts.margin, "margin", config.Default().Margin, "Margin fraction inside each quadrant, between 0 and 0.25")
	fs.StringVar(&opts.configPath, "config", "", "Optional YAML configuration file")
	fs.StringVar(&opts.logLevel, "log_level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	var missing []string
	if opts.inputDir == "" {
		missing = append(missing, "--input_dir")
	}
	if opts.outputDir == "" {
		missing = append(missing, "--output_dir")
	}
	if len(missing) > 0 {
		fs.Usage()
		return nil, fmt.Errorf("%w: missing required flags: %s", errUsage, strings.Join(missing, ", "))
	}
	return opts, nil
}

// loadConfig reads the optional config file; an explicit --margin wins over it.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.set["margin"] {
		cfg.Margin = opts.margin
	}
	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func run(args []string) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	return p.Run(opts.inputDir, opts.outputDir, cfg.Margin)
}

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errUsage):
		fmt.Fprintf(os.Stderr, "quadsplit: %v\n", err)
		os.Exit(2)
	default:
		log.Fatalf("quadsplit: %v", err)
	}
}
