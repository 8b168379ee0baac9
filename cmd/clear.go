package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// clearCmd removes every cached original, transcript and summary.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached originals, transcripts and summaries",
	Example: `  # Wipe the artifact cache
  a2t clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := internal.NewStore(config)
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}

		if err := internal.CleanupTempDir(config.TempDir); err != nil {
			return err
		}

		if !config.Quiet {
			fmt.Println("Cache cleared")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
