package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/riftlane/internal/platform/tui"
	"github.com/vovakirdan/riftlane/internal/sim"
	"github.com/vovakirdan/riftlane/internal/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the map grow in the terminal",
	Long: `Open the map viewer. Waves advance on a timer; press ? for all keys.

Log output goes to ~/.riftlane/riftlane.log while the viewer owns the screen.

Examples:
  riftlane watch
  riftlane watch --preset dense --seed 42
  riftlane watch --fps 20 --log-level debug`,
	Run: runWatch,
}

func runWatch(_ *cobra.Command, _ []string) {
	// Stderr would tear the viewer, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	logFile, err := openLogFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	} else {
		logOut = logFile
	}
	logger, err := newLogger(logOut, "riftlane")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, preset, err := loadPresetRift()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	width, height := terminalSize()
	world := sim.New(sim.Options{Config: cfg, Seed: flagSeed, Logger: logger})
	runErr := tui.Run(world, store, runtimeConfig(width, height), preset)

	if store != nil {
		store.Close()
	}
	if logFile != nil {
		logFile.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalSize reports the stdout terminal size, or 80x24 when unknown.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openLogFile opens ~/.riftlane/riftlane.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".riftlane")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "riftlane.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
