// Package main is the entry point for the consumable usage dashboard.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gunmagohkin/co2-dashboard-daily/internal/app"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/config"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/logger"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/services"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/tabs/daily"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/tabs/info"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/tabs/machines"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/tabs/overview"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/ui/tabs/weekly"
	"github.com/gunmagohkin/co2-dashboard-daily/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Set up file logging; the terminal belongs to the TUI
	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	// 3. Initialize the service manager
	// This starts the plant roster watcher and record fetching
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 5. Initialize tabs with shared state
	// Each tab receives the shared application state for consistent data access
	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state),  // Tab 0: Overview - monthly summary and trend
		daily.New(state),     // Tab 1: Daily - day-by-day pivot table
		weekly.New(state),    // Tab 2: Weekly - week-bucketed aggregates
		machines.New(state),  // Tab 3: Machines - per-machine shares
		info.New(state, cfg), // Tab 4: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 6. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 7. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	// 8. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		// Send quit message to the program
		p.Send(tea.Quit())
	}()

	// 9. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`ggdash - Factory consumable usage dashboard

Usage:
  ggdash [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-5             Switch between tabs (Overview, Daily, Weekly, Machines, Info)
  Tab/Shift+Tab   Navigate between tabs
  [ / ]           Previous / next month
  c               Cycle consumable category
  p               Cycle plant
  t               Toggle daily/weekly timeframe
  j/k, Up/Down    Navigate lists
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  KINTONE_DOMAIN           Record store domain
  KINTONE_APP_ID           Record store app id
  KINTONE_API_TOKEN        Record store API token
  GGDASH_DB_PATH           SQLite cache path
  GGDASH_PLANTS_PATH       Plant roster JSON file path
  GGDASH_REFRESH_INTERVAL  Record polling interval (default: 5m)
  GGDASH_MOCK_FALLBACK     Generate sample data when offline (default: true)

Configuration:
  The application looks for .env files in the current directory and
  ~/.config/ggdash/.env`)
}
