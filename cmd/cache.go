package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tidbyt.dev/departures/downloader"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manages cached documents",
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes cached documents older than a cutoff",
	Args:  cobra.NoArgs,
	RunE:  prune,
}

var olderThan time.Duration

func init() {
	pruneCmd.Flags().DurationVarP(&olderThan, "older-than", "o", 24*time.Hour, "Delete documents retrieved longer ago than this")
	cacheCmd.AddCommand(pruneCmd)
}

func prune(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	pruner, ok := e.Downloader.(downloader.Pruner)
	if !ok {
		fmt.Printf("Nothing to prune for %s cache\n", e.Config.Cache.Backend)
		return nil
	}

	n, err := pruner.Prune(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("pruning %s cache: %w", e.Config.Cache.Backend, err)
	}

	fmt.Printf("Deleted %d documents\n", n)
	return nil
}
