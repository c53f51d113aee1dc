// pwforge is a command-line password generator with a strength meter and
// a short local history of recently generated passwords.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/eduardolat/pwforge/internal/config"
	"github.com/eduardolat/pwforge/internal/generator"
	"github.com/eduardolat/pwforge/internal/history"
	"github.com/eduardolat/pwforge/internal/kvstore"
	"github.com/eduardolat/pwforge/internal/render"
	"github.com/eduardolat/pwforge/internal/session"
	"github.com/eduardolat/pwforge/internal/version"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// errConflictingFlags indicates flags that cannot be combined
var errConflictingFlags = errors.New("conflicting flags")

// ASCII art banner for the CLI
const banner = `
                   __
 _ ____      __   / _| ___  _ __ __ _  ___
| '_ \ \ /\ / /  | |_ / _ \| '__/ _' |/ _ \
| |_) \ V  V /   |  _| (_) | | | (_| |  __/
| .__/ \_/\_/    |_|  \___/|_|  \__, |\___|
|_|                             |___/
`

// options holds the parsed command-line flags
type options struct {
	configPath   string
	length       int
	upper        bool
	lower        bool
	numbers      bool
	symbols      bool
	classList    string
	classes      []generator.Class
	count        int
	showHistory  bool
	clearHistory bool
	noHistory    bool
	noColor      bool
	noEstimate   bool
	showVersion  bool
	debug        bool
	quiet        bool
	silent       bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// Optional .env with PWFORGE_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Error: failed to load .env: %v\n", err)
		return ExitFailure
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitFailure
	}

	if opts.showVersion {
		fmt.Fprint(stdout, banner)
		fmt.Fprintln(stdout, version.String())
		return ExitSuccess
	}

	// Setup logger with hierarchy: debug > default > quiet > silent
	var logLevel slog.Level
	switch {
	case opts.debug:
		logLevel = slog.LevelDebug
	case opts.silent:
		logLevel = slog.LevelError
	case opts.quiet:
		logLevel = slog.LevelWarn
	default:
		logLevel = slog.LevelInfo
	}

	// stdout carries passwords, logs go to stderr
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, configPath, err := loadConfig(opts)
	if err != nil {
		logger.Error("failed to load configuration",
			"path", configPath,
			"error", err)
		return ExitFailure
	}

	if opts.noHistory {
		disabled := false
		cfg.History.Enabled = &disabled
	}
	if opts.noEstimate {
		disabled := false
		cfg.Display.Estimate = &disabled
	}

	logger.Debug("configuration loaded",
		"config", configPath,
		"history_enabled", cfg.History.IsEnabled(),
		"history_path", cfg.History.GetPath(),
		"history_slot", cfg.History.GetSlot())

	var store history.Store
	if opts.noHistory {
		store = history.NewMemoryStore()
	} else {
		kv := kvstore.NewFileStore(cfg.History.GetPath(), cfg.History.GetQuarantineRetention(), logger)
		logger.Debug("history store opened", "path", kv.Path())
		store = history.NewBlobStore(kv, cfg.History.GetSlot(), logger)
	}

	sess := session.New(cfg, logger, store, generator.New())
	colorEnabled := cfg.Display.IsColorEnabled() && !opts.noColor && render.IsTerminal(stdout)
	printer := render.New(stdout, colorEnabled)

	if opts.clearHistory {
		if err := sess.ClearHistory(); err != nil {
			logger.Error("failed to clear history", "error", err)
			return ExitFailure
		}
		return ExitSuccess
	}

	if opts.showHistory {
		printer.History(sess.History())
		return ExitSuccess
	}

	req := buildRequest(cfg, opts)

	if opts.count == 1 {
		result, err := sess.Generate(req)
		if result != nil {
			printer.Result(result)
		}
		return exitCode(logger, err)
	}

	results, err := sess.GenerateBatch(req, opts.count)
	printer.Passwords(results)
	if len(results) > 0 && results[len(results)-1].Warning != "" {
		printer.Result(results[len(results)-1])
	}
	return exitCode(logger, err)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("pwforge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{set: make(map[string]bool)}
	fs.StringVar(&opts.configPath, "config", "", "Path to the configuration file")
	fs.IntVar(&opts.length, "length", config.DefaultLength, "Password length")
	fs.IntVar(&opts.length, "l", config.DefaultLength, "Password length (shorthand)")
	fs.BoolVar(&opts.upper, "upper", true, "Include uppercase letters (A-Z)")
	fs.BoolVar(&opts.lower, "lower", true, "Include lowercase letters (a-z)")
	fs.BoolVar(&opts.numbers, "numbers", true, "Include digits (0-9)")
	fs.BoolVar(&opts.symbols, "symbols", true, "Include symbols")
	fs.StringVar(&opts.classList, "classes", "", "Comma-separated classes to use: upper,lower,digits,symbols")
	fs.IntVar(&opts.count, "count", 1, "Number of passwords to generate")
	fs.IntVar(&opts.count, "c", 1, "Number of passwords (shorthand)")
	fs.BoolVar(&opts.showHistory, "history", false, "Show recently generated passwords and exit")
	fs.BoolVar(&opts.clearHistory, "clear-history", false, "Delete the saved history and exit")
	fs.BoolVar(&opts.noHistory, "no-history", false, "Do not read or write the history")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.noEstimate, "no-estimate", false, "Do not show the entropy estimate")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information and exit")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging (most verbose)")
	fs.BoolVar(&opts.quiet, "quiet", false, "Show only warnings and errors")
	fs.BoolVar(&opts.silent, "silent", false, "Show only errors (most quiet)")

	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprint(w, banner)
		fmt.Fprintf(w, "\nPassword Generator\n\n")
		fmt.Fprintf(w, "Usage:\n")
		fmt.Fprintf(w, "  pwforge [options]\n\n")
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(w, "\nCharacter classes default to the config file (all enabled when absent);\n")
		fmt.Fprintf(w, "only flags given on the command line override it. --classes replaces the\n")
		fmt.Fprintf(w, "configured set; --upper and friends are applied after it.\n")
		fmt.Fprintf(w, "\nEnvironment (also read from ./.env):\n")
		fmt.Fprintf(w, "  %-22s Configuration file path\n", config.EnvConfigPath)
		fmt.Fprintf(w, "  %-22s History store path\n", config.EnvHistoryPath)
		fmt.Fprintf(w, "\nExamples:\n")
		fmt.Fprintf(w, "  pwforge                          # 16 characters, all classes\n")
		fmt.Fprintf(w, "  pwforge -l 24 --symbols=false    # 24 characters, no symbols\n")
		fmt.Fprintf(w, "  pwforge --classes lower,digits   # Lowercase letters and digits only\n")
		fmt.Fprintf(w, "  pwforge -c 5 --no-history        # 5 passwords, nothing saved\n")
		fmt.Fprintf(w, "  pwforge --history                # Last 10 passwords\n")
		fmt.Fprintf(w, "\nExit Codes:\n")
		fmt.Fprintf(w, "  0  Success (including the no-classes warning)\n")
		fmt.Fprintf(w, "  1  Failure (invalid options, random source or history write failure)\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if opts.count < 1 {
		fmt.Fprintf(stderr, "Error: --count must be at least 1\n")
		return nil, session.ErrInvalidCount
	}

	if opts.clearHistory && opts.noHistory {
		fmt.Fprintf(stderr, "Error: --clear-history cannot be combined with --no-history\n")
		return nil, errConflictingFlags
	}

	if opts.set["classes"] {
		classes, err := generator.ParseClasses(opts.classList)
		if err != nil {
			fmt.Fprintf(stderr, "Error: --classes: %v\n", err)
			return nil, err
		}
		opts.classes = classes
	}

	return opts, nil
}

// loadConfig resolves the config path: flag, then environment, then the
// default location. Only the default location may be missing.
func loadConfig(opts *options) (*config.Config, string, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}

	var cfg *config.Config
	var err error
	if path == "" {
		path = config.DefaultConfigPath()
		cfg, err = config.LoadOrDefault(path)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, path, err
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, path, nil
}

// buildRequest starts from the configured defaults and applies the flags
// that were given explicitly, --classes before the per-class flags
func buildRequest(cfg *config.Config, opts *options) generator.Request {
	req := cfg.Defaults.Request()
	if opts.set["length"] || opts.set["l"] {
		req.Length = opts.length
	}
	if opts.set["classes"] {
		req = req.WithClasses(opts.classes...)
	}
	if opts.set["upper"] {
		req.Upper = opts.upper
	}
	if opts.set["lower"] {
		req.Lower = opts.lower
	}
	if opts.set["numbers"] {
		req.Numbers = opts.numbers
	}
	if opts.set["symbols"] {
		req.Symbols = opts.symbols
	}
	return req
}

func exitCode(logger *slog.Logger, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, session.ErrHistoryNotSaved) {
		logger.Error("password generated but history could not be saved", "error", err)
		return ExitFailure
	}
	logger.Error("generation failed", "error", err)
	return ExitFailure
}
