package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// fetchTranscript ingests the given file or URL and returns its transcript,
// reusing the cached one when the content has been transcribed before.
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg string) (string, error) {
	in, err := app.Ingest(cmd.Context(), arg)
	if err != nil {
		return "", err
	}

	return app.Transcribe(cmd.Context(), in)
}
