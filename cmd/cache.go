package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/worklog/internal/cache"
)

var cacheOlderThan int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached Gemini summaries",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cacheOlderThan < 0 {
			return fmt.Errorf("--older-than must not be negative")
		}
		path, err := cache.DefaultPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache is empty")
			return nil
		}

		store, err := cache.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		// A cutoff in the future removes everything.
		cutoff := now().Add(time.Minute)
		if cacheOlderThan > 0 {
			cutoff = now().AddDate(0, 0, -cacheOlderThan)
		}
		n, err := store.Purge(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached summaries\n", n)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().IntVar(&cacheOlderThan, "older-than", 0, "only delete summaries older than this many days")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
