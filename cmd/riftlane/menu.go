package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/platform/tui"
	"github.com/vovakirdan/riftlane/internal/sim"
	"github.com/vovakirdan/riftlane/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a preset interactively",
	Long: `Start with a preset picker. Leaving the viewer returns to the picker,
and Tab opens the archived runs.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Open a fresh map with the preset
  Tab          - Saved runs
  Q            - Quit

Examples:
  riftlane menu
  riftlane menu --seed 42`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	var logOut io.Writer = io.Discard
	if f, err := openLogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	logger, err := newLogger(logOut, "riftlane")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	base, err := loadRift()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig(terminalSize())

	for {
		result, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = result.Config

		if result.Quit {
			return
		}

		if result.WantsRuns {
			goBack, runsErr := tui.RunRuns(store, cfg.ScreenW, cfg.ScreenH)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue
			}
			return
		}

		rift := base
		config.ApplyPreset(&rift, result.Preset)
		world := sim.New(sim.Options{
			Config: rift,
			Seed:   flagSeed,
			Logger: logger.With("preset", result.Preset),
		})
		if err := tui.Run(world, store, cfg, result.Preset); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
	}
}
