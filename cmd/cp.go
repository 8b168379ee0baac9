package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [media file or YouTube URL]",
	Short: "Copy a transcript to the clipboard",
	Example: `  # Copy the transcript of a local recording
  a2t cp lecture.mp3

  # Copy the transcript of a YouTube video
  a2t cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		transcript, err := fetchTranscript(cmd, app, args[0])
		if err != nil {
			return err
		}

		if err := clipboard.WriteAll(transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	internal.AddOpenAIFlags(cpCmd)
	rootCmd.AddCommand(cpCmd)
}
