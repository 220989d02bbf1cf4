// riftlane grows rift corridors around a core and lets you watch them.
//
// Usage:
//
//	riftlane simulate --waves 60   - Run the map headless and print a summary
//	riftlane watch                 - Watch the map grow in the terminal
//	riftlane menu                  - Pick a preset interactively
//	riftlane serve                 - Serve the viewer over SSH
//	riftlane runs [id]             - List archived runs or show one
//
// Global flags:
//
//	--seed <value>      - RNG seed for reproducible maps
//	--config <path>     - Rule table YAML (default: search chain)
//	--preset <name>     - sparse, normal, dense or frantic
//	--db <path>         - Run archive (default: ~/.riftlane/runs.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/core"
)

var (
	// Global flags
	flagSeed     int64
	flagConfig   string
	flagPreset   string
	flagDBPath   string
	flagLogLevel string
	flagFPS      int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "riftlane",
	Short: "Riftlane - procedural rift corridors for a grid defense map",
	Long: `Riftlane grows enemy corridors outward from a core as waves advance.
Corridors enter the core through four gap sectors, keep clear of hardpoints,
and later corridors merge into earlier ones instead of crowding the core.

Available commands:
  simulate - Run the map headless for a number of waves
  watch    - Watch the map grow in the terminal
  menu     - Interactive preset picker
  serve    - Start SSH server for remote viewers
  runs     - Browse archived runs

Examples:
  riftlane simulate --waves 80 --map
  riftlane watch --preset dense --seed 42
  riftlane serve --ssh :2222
  riftlane runs --limit 5`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to rule table YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "normal", "Map preset: sparse, normal, dense, frantic")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.riftlane/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 10, "Viewer tick rate (ticks per second)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
}

// newLogger builds a logger at the --log-level threshold.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadRift loads the rule tables without applying a preset.
func loadRift() (config.RiftConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.RiftConfig{}, err
	}
	return cfg, nil
}

// loadPresetRift loads the rule tables and applies --preset.
func loadPresetRift() (config.RiftConfig, config.Preset, error) {
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.RiftConfig{}, "", err
	}
	cfg, err := loadRift()
	if err != nil {
		return config.RiftConfig{}, "", err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, preset, nil
}

// runtimeConfig returns viewer settings for the given terminal size.
func runtimeConfig(width, height int) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
