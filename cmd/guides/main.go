// Package main is the entry point for the guides viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/guides/internal/app"
	"github.com/dshills/guides/internal/guides"
	"github.com/dshills/guides/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cliOptions holds everything parsed from the command line.
type cliOptions struct {
	app app.Options

	line, col   int
	print       bool
	json        bool
	color       string
	numbers     bool
	width       int
	logFile     string
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	cli, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if cli.showVersion {
		fmt.Fprintf(stdout, "guides %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	if cli.print || cli.json {
		return runPrint(cli, stdout, stderr)
	}
	return runViewer(cli, stderr)
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	cli := &cliOptions{}
	fs := flag.NewFlagSet("guides", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cli.app.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&cli.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.IntVar(&cli.line, "line", 1, "Cursor line (1-based)")
	fs.IntVar(&cli.col, "col", 1, "Cursor column (1-based)")
	fs.IntVar(&cli.app.TabSize, "tab", 0, "Tab width (0 uses the configured tabSize)")
	fs.BoolVar(&cli.print, "print", false, "Print the file with its guides and exit")
	fs.BoolVar(&cli.print, "p", false, "Print the file with its guides and exit (shorthand)")
	fs.BoolVar(&cli.json, "json", false, "Print the scan as JSON and exit")
	fs.StringVar(&cli.color, "color", "auto", "Color print output (auto, always, never)")
	fs.BoolVar(&cli.numbers, "numbers", false, "Show line numbers in print output")
	fs.IntVar(&cli.width, "width", 0, "Print width (0 uses the terminal width)")
	fs.BoolVar(&cli.app.Watch, "watch", true, "Reload configuration files when they change")
	fs.StringVar(&cli.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cli.logFile, "log-file", "", "Write viewer logs to this file")
	fs.BoolVar(&cli.showVersion, "version", false, "Show version information")
	fs.BoolVar(&cli.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "guides - indentation guide viewer\n\n")
		fmt.Fprintf(stderr, "Usage: guides [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  guides main.py                  View a file\n")
		fmt.Fprintf(stderr, "  guides -p -line 12 main.py      Print guides around line 12\n")
		fmt.Fprintf(stderr, "  guides -json -line 12 main.py   Print the scan as JSON\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validate log level
	switch cli.app.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", cli.app.LogLevel)
	}

	switch cli.color {
	case "auto", "always", "never":
	default:
		return nil, fmt.Errorf("invalid color mode %q (must be auto, always, or never)", cli.color)
	}

	if cli.line < 1 || cli.col < 1 {
		return nil, fmt.Errorf("line and col are 1-based, got %d:%d", cli.line, cli.col)
	}
	if cli.app.TabSize < 0 || cli.width < 0 {
		return nil, errors.New("tab and width must not be negative")
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cli.app.File = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one file, got %d", fs.NArg())
	}

	cli.app.Cursor = guides.Position{Line: cli.line - 1, Col: cli.col - 1}
	return cli, nil
}

// runPrint scans once and writes the result to stdout.
func runPrint(cli *cliOptions, stdout, stderr io.Writer) int {
	if cli.app.File == "" {
		fmt.Fprintf(stderr, "Error: %v\n", app.ErrNoDocument)
		return exitUsage
	}
	cli.app.LogOutput = stderr
	cli.app.Watch = false

	application, err := app.New(cli.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer application.Shutdown()

	if cli.json {
		err = application.Report().WriteJSON(stdout)
	} else {
		tty, width := terminal(stdout)
		if cli.width > 0 {
			width = cli.width
		}
		err = application.WriteText(stdout, app.TextOptions{
			Width:       width,
			Color:       cli.color == "always" || (cli.color == "auto" && tty),
			LineNumbers: cli.numbers,
		})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", app.NewOperationError("print", cli.app.File, err))
		return exitError
	}
	return exitOK
}

// terminal reports whether w is a terminal and its width.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, app.DefaultTextWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return true, app.DefaultTextWidth
	}
	return true, width
}

// runViewer runs the interactive viewer until the user quits.
func runViewer(cli *cliOptions, stderr io.Writer) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintf(stderr, "Error: the viewer needs a terminal; use -print or -json\n")
		return exitUsage
	}

	// Logs would corrupt the screen, so they go to a file or nowhere.
	cli.app.LogOutput = io.Discard
	if cli.logFile != "" {
		f, err := os.OpenFile(cli.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", app.NewOperationError("open", cli.logFile, err))
			return exitError
		}
		defer f.Close()
		cli.app.LogOutput = f
	}

	// Create application
	application, err := app.New(cli.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return exitError
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Create terminal backend
	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return exitError
	}
	if err := application.SetBackend(screen); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return exitError
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the application
	if err := application.Run(ctx); err != nil {
		// Check if it's a normal quit using errors.Is for wrapped errors
		if errors.Is(err, app.ErrQuit) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	return exitOK
}
