package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// watchCmd monitors a directory and processes new media files as they land.
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and process new media files automatically",
	Example: `  # Process every recording dropped into ~/recordings
  a2t watch ~/recordings`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		watcher := internal.NewWatcher(app)

		return watcher.Watch(cmd.Context(), args[0])
	},
}

func init() {
	internal.AddOpenAIFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
