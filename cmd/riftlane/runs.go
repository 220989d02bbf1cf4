package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/riftlane/internal/platform/tui"
	"github.com/vovakirdan/riftlane/internal/storage"
)

var (
	flagLimit  int
	flagDelete bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List archived runs, or show one",
	Long: `Without an argument, list the most recent archived runs.
With a run id, show that run and its corridors.

Examples:
  riftlane runs
  riftlane runs --limit 5
  riftlane runs 12
  riftlane runs 12 --delete`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to list")
	runsCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the given run")
}

func runRuns(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 0 {
		err = listRuns(store)
	} else {
		err = showRun(store, args[0])
	}
	store.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listRuns(store *storage.Store) error {
	runs, err := store.RecentRuns(flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Archived runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs saved yet.")
		fmt.Println()
		fmt.Println("Run 'riftlane simulate --save' to archive one.")
		return nil
	}

	header := []string{"Run", "Preset", "Seed", "Wave", "Lanes", "D/M", "Saved"}
	fmt.Printf("  %-5s  %-8s  %-20s  %-5s  %-6s  %-6s  %s\n", toAny(header)...)
	fmt.Printf("  %-5s  %-8s  %-20s  %-5s  %-6s  %-6s  %s\n", "---", "------", "----", "----", "-----", "---", "-----")
	for _, row := range tui.RunRows(runs) {
		fmt.Printf("  %-5s  %-8s  %-20s  %-5s  %-6s  %-6s  %s\n", toAny([]string(row))...)
	}
	return nil
}

func showRun(store *storage.Store, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", arg)
	}

	if flagDelete {
		if err := store.DeleteRun(id); err != nil {
			return err
		}
		fmt.Printf("Deleted run #%d\n", id)
		return nil
	}

	run, err := store.RunByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no run #%d", id)
	}
	if err != nil {
		return err
	}
	corridors, err := store.Corridors(id)
	if err != nil {
		return err
	}

	fmt.Printf("Run #%d - %s, seed %d, saved %s\n", run.ID, run.Preset, run.Seed, run.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println()
	fmt.Printf("  Wave %d, %d of %d corridors (%d direct, %d merged, %d mutated)\n",
		run.Wave, run.Corridors, run.Expected, run.Direct, run.Merged, run.Mutated)
	fmt.Printf("  Map %dx%d, %d towers, %d credits, %d failures in a row\n",
		run.Cols, run.Rows, run.Towers, run.Credits, run.Failures)
	fmt.Println()
	for _, c := range corridors {
		fmt.Printf("  %s\n", tui.CorridorLine(c))
	}
	return nil
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
