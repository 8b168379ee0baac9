package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// serveCmd runs the HTTP API used by browser frontends.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for browser frontends",
	Long: `Serve exposes the transcription and summarization pipeline over HTTP.

Endpoints:
  POST   /api/files                   upload a media file or submit a YouTube URL
  GET    /api/files/{id}              processing state for a file
  POST   /api/files/{id}/transcript   run transcription
  GET    /api/files/{id}/transcript   download the transcript
  POST   /api/files/{id}/summary      run summarization
  GET    /api/files/{id}/summary      download the summary
  DELETE /api/session                 clear session state`,
	Example: `  # Serve on the configured address (default :8501)
  a2t serve

  # Serve on a custom address
  a2t serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateOpenAIRequirements(cmd, config); err != nil {
			return err
		}

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			config.ListenAddr = addr
		}

		app := internal.NewApp(config)
		server := internal.NewServer(app)

		if !config.Quiet {
			fmt.Printf("Listening on %s\n", config.ListenAddr)
		}
		return server.ListenAndServe(config.ListenAddr)
	},
}

func init() {
	internal.AddOpenAIFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
