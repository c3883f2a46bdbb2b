// Package main is the entry point for vwindow, a terminal viewer that
// scrolls very large lists by rendering only the items near the viewport.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/vwindow/internal/app"
	"github.com/dshills/vwindow/internal/config"
	"github.com/dshills/vwindow/internal/config/loader"
	"github.com/dshills/vwindow/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultDumpHeight is the viewport used by -dump when none is configured.
const defaultDumpHeight = 600

type options struct {
	configPath string
	logLevel   string
	logFile    string
	dump       bool
	offset     float64
	height     float64
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, set := parseFlags()

	cfg, err := loadConfig(opts, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.dump {
		return dump(os.Stdout, cfg, opts, set)
	}

	logOut, err := app.OpenLogFile(cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logOut.Close()

	logger := app.NewSessionLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(cfg.Logging.Level),
		Output: logOut,
		Prefix: "vwindow",
	})
	logger.Info("vwindow %s starting", version)

	// Create application
	application, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Create terminal backend
	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		logger.Error("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger.Info("exiting")
	return 0
}

// loadConfig loads the file named by -config, or a vwindow.toml/.yaml in
// the working directory, and applies logging flags on top.
func loadConfig(opts options, set map[string]bool) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.Discover(loader.DefaultFS(), ".")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if set["log-level"] {
		cfg.Logging.Level = opts.logLevel
	}
	if set["log-file"] {
		cfg.Logging.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// dump renders one window as text and exits.
func dump(w io.Writer, cfg *config.Config, opts options, set map[string]bool) int {
	height := opts.height
	if !set["height"] {
		height = cfg.Display.ViewportExtent
		if height <= 0 {
			height = defaultDumpHeight
		}
	}

	out, err := app.Snapshot(cfg, opts.offset, height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(w, out)
	return 0
}

func parseFlags() (options, map[string]bool) {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&opts.dump, "dump", false, "Print one rendered window and exit")
	flag.Float64Var(&opts.offset, "offset", 0, "Scroll offset in pixels for -dump")
	flag.Float64Var(&opts.height, "height", defaultDumpHeight, "Viewport height in pixels for -dump")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vwindow - virtual list viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vwindow [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  j/k, Up/Down        Scroll one step\n")
		fmt.Fprintf(os.Stderr, "  f/b, PgDn/PgUp      Scroll one page\n")
		fmt.Fprintf(os.Stderr, "  g/G, Home/End       Jump to top or bottom\n")
		fmt.Fprintf(os.Stderr, "  NG, N Enter         Jump to item N\n")
		fmt.Fprintf(os.Stderr, "  r                   Reload the item script\n")
		fmt.Fprintf(os.Stderr, "  q, Esc              Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vwindow                             100000 generated items\n")
		fmt.Fprintf(os.Stderr, "  vwindow -c vwindow.toml             Items from config\n")
		fmt.Fprintf(os.Stderr, "  vwindow -dump -offset 5000          Print the window at 5000px\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("vwindow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	return opts, set
}
