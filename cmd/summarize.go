package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [media file or YouTube URL]",
	Short: "Generate a topic and summary for a media file",
	Example: `  # Summarize a local recording (transcribes it first if needed)
  a2t summarize lecture.mp3

  # Summarize a YouTube video
  a2t summarize "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Use a specific OpenAI model
  a2t summarize lecture.mp3 --model gpt-4o`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		in, err := app.Ingest(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if _, err := app.Transcribe(cmd.Context(), in); err != nil {
			return err
		}

		result, err := app.Summarize(cmd.Context(), in.ID)
		if err != nil {
			return err
		}

		rendered, err := internal.RenderMarkdown(internal.FormatSummary(result))
		if err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}

		fmt.Println(rendered)
		return nil
	},
}

func init() {
	internal.AddOpenAIFlags(summarizeCmd)
	rootCmd.AddCommand(summarizeCmd)
}
