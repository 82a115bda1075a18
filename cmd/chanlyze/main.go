// Package main is the entry point for chanlyze, a YouTube channel analytics
// TUI. It initializes configuration, services, and runs the Bubble Tea
// program, or answers a single headless query as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guychenya/chanlyze/internal/app"
	"github.com/guychenya/chanlyze/internal/config"
	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/models"
	"github.com/guychenya/chanlyze/internal/services"
	"github.com/guychenya/chanlyze/internal/services/youtube"
	"github.com/guychenya/chanlyze/internal/ui/tabs/analyze"
	"github.com/guychenya/chanlyze/internal/ui/tabs/compare"
	"github.com/guychenya/chanlyze/internal/ui/tabs/quota"
	"github.com/guychenya/chanlyze/internal/version"
)

// defaultSearchResults is the number of channels --search returns.
const defaultSearchResults = 10

// mode selects what a single invocation does.
type mode int

const (
	modeTUI mode = iota
	modeVersion
	modeHelp
	modeAnalyze
	modeCompare
	modeSearch
)

func (m mode) String() string {
	switch m {
	case modeTUI:
		return "tui"
	case modeVersion:
		return "version"
	case modeHelp:
		return "help"
	case modeAnalyze:
		return "analyze"
	case modeCompare:
		return "compare"
	case modeSearch:
		return "search"
	default:
		return "unknown"
	}
}

// invocation is the parsed command line.
type invocation struct {
	mode mode
	args []string
}

var errUsage = errors.New("invalid arguments, see --help")

func parseArgs(args []string) (invocation, error) {
	if len(args) == 0 {
		return invocation{mode: modeTUI}, nil
	}

	need := func(m mode, n int) (invocation, error) {
		if len(args)-1 != n {
			return invocation{}, fmt.Errorf("%s expects %d argument(s): %w", args[0], n, errUsage)
		}
		return invocation{mode: m, args: args[1:]}, nil
	}

	switch args[0] {
	case "-v", "--version":
		return invocation{mode: modeVersion}, nil
	case "-h", "--help":
		return invocation{mode: modeHelp}, nil
	case "--analyze":
		return need(modeAnalyze, 1)
	case "--compare":
		return need(modeCompare, 2)
	case "--search":
		return need(modeSearch, 1)
	}
	return invocation{}, fmt.Errorf("unknown flag %q: %w", args[0], errUsage)
}

func main() {
	inv, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	switch inv.mode {
	case modeVersion:
		fmt.Println(version.Info())
		return
	case modeHelp:
		printUsage()
		return
	}

	if err := run(inv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(inv invocation) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file. Headless runs log to
	// stderr and keep stdout for JSON.
	logOut := io.Writer(os.Stderr)
	if inv.mode == modeTUI {
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger.Init(cfg.LogLevel, logOut)
	logger.Info("Starting chanlyze", "version", version.GetVersion(), "mode", inv.mode)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	if inv.mode != modeTUI {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runHeadless(ctx, svcManager, inv, os.Stdout)
	}

	return runTUI(cfg, svcManager)
}

func runTUI(cfg *config.Config, svcManager *services.Manager) error {
	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		analyze.New(state),
		compare.New(state),
		quota.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// analyzer is the part of the service manager the headless modes use.
type analyzer interface {
	Analyze(ctx context.Context, channelURL string) (*models.Analysis, error)
	Compare(ctx context.Context, firstURL, secondURL string) (*models.ComparisonReport, error)
	Search(ctx context.Context, query string, maxResults int) (*youtube.SearchResult, error)
}

// runHeadless answers one query and writes the result to w as indented JSON.
func runHeadless(ctx context.Context, svc analyzer, inv invocation, w io.Writer) error {
	var (
		result any
		err    error
	)
	switch inv.mode {
	case modeAnalyze:
		result, err = svc.Analyze(ctx, inv.args[0])
	case modeCompare:
		result, err = svc.Compare(ctx, inv.args[0], inv.args[1])
	case modeSearch:
		result, err = svc.Search(ctx, inv.args[0], defaultSearchResults)
	default:
		return fmt.Errorf("mode %s is not headless", inv.mode)
	}
	if err != nil {
		if youtube.IsRetryable(err) {
			return fmt.Errorf("%s (temporary failure, run again)", app.DescribeError(err))
		}
		return errors.New(app.DescribeError(err))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`chanlyze - YouTube channel analytics in the terminal

Usage:
  chanlyze [flags]

Flags:
  -h, --help                 Show this help message
  -v, --version              Show version information
  --analyze <url>            Analyze one channel and print JSON
  --compare <url> <url>      Compare two channels and print JSON
  --search <query>           Search channels and print JSON

Keyboard Shortcuts:
  1-3             Switch between tabs (Analyze, Compare, Quota)
  Tab/Shift+Tab   Navigate between tabs
  / or i          Edit the URL input
  Enter           Submit
  Esc             Leave a text field
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  YOUTUBE_API_KEY          YouTube Data API v3 key
  YOUTUBE_API_KEY_FILE     File holding the key (watched for changes)
  DATABASE_PATH            SQLite database path
  DAILY_QUOTA_LIMIT        Daily quota budget in units (default: 10000)
  CACHE_TTL                Response cache lifetime (default: 30m)
  REQUEST_TIMEOUT          Per-request timeout (default: 30s)
  MAX_VIDEOS               Uploads fetched per channel (default: 50)
  API_REQUESTS_PER_SECOND  Outgoing request rate (default: 5)
  NOTIFICATIONS            Desktop notifications on quota alerts (default: true)
  LOG_LEVEL                debug, info, warn or error (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/chanlyze/.env
  - ~/.chanlyze/.env`)
}
