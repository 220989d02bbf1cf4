package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/riftlane/internal/platform/tui"
	"github.com/vovakirdan/riftlane/internal/sim"
	"github.com/vovakirdan/riftlane/internal/storage"
)

var (
	flagWaves   int
	flagShowMap bool
	flagSave    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the map headless for a number of waves",
	Long: `Advance a fresh map wave by wave and report what was built.

Placement failures are logged and the map keeps going; after enough
failures in a row placement turns aggressive on its own.

Examples:
  riftlane simulate --waves 100
  riftlane simulate --seed 7 --map
  riftlane simulate --preset frantic --save`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagWaves, "waves", 60, "Number of waves to simulate")
	simulateCmd.Flags().BoolVar(&flagShowMap, "map", false, "Print the final map")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Archive the final map in the runs database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger, err := newLogger(os.Stderr, "riftlane")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, preset, err := loadPresetRift()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	world := sim.New(sim.Options{Config: cfg, Seed: flagSeed, Logger: logger})
	if err := world.CalculatePath(); err != nil {
		logger.Error("first corridor failed", "err", err)
	}
	for wave := 1; wave <= flagWaves; wave++ {
		// Failures are logged by the world and retried next wave.
		//nolint:errcheck
		world.Tick(wave)
	}

	sum := world.Summary()
	fmt.Printf("Seed %d, preset %s, wave %d\n", world.Seed(), preset, sum.Wave)
	fmt.Println()
	fmt.Printf("  Corridors  %d of %d expected (%d direct, %d merged, %d mutated)\n",
		sum.Corridors, sum.Expected, sum.Direct, sum.Merged, sum.Mutated)
	fmt.Printf("  Map        %dx%d cells, %d hardpoints\n", sum.Cols, sum.Rows, len(world.Hardpoints()))
	fmt.Printf("  Failures   %d in a row\n", sum.Failures)
	if err := world.LastError(); err != nil {
		fmt.Printf("  Last error %v\n", err)
	}
	fmt.Println()

	fmt.Printf("  %-3s  %-4s  %-4s  %-6s  %-9s  %s\n", "#", "Zone", "Tier", "Length", "Route", "Spawn")
	fmt.Printf("  %-3s  %-4s  %-4s  %-6s  %-9s  %s\n", "-", "----", "----", "------", "-----", "-----")
	for i, p := range world.Paths() {
		route := "direct"
		if p.Junction >= 0 {
			route = fmt.Sprintf("merge@%d", p.Junction)
		}
		line := fmt.Sprintf("  %-3d  %-4d  %-4d  %-6d  %-9s  %s", i, p.Zone, p.Tier, len(p.Cells), route, p.Spawn())
		if p.Mutation != nil {
			line += "  " + p.Mutation.Name
		}
		fmt.Println(line)
	}

	if flagShowMap {
		fmt.Println()
		fmt.Println(tui.PlainMap(world))
	}

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
			os.Exit(1)
		}
		id, err := store.SaveWorld(world, string(preset))
		store.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
		fmt.Printf("Saved as run #%d\n", id)
	}
}
