package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model to use for summaries")
	cmd.Flags().StringP("language", "l", "", "Target language code for transcription (e.g. pl, en)")
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose

	if quietFlag := cmd.Flags().Lookup("quiet"); quietFlag != nil {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if quiet {
			config.Quiet = true
		}
	}

	return nil
}

// ValidateOpenAIRequirements validates OpenAI API key and model from command flags and config
func ValidateOpenAIRequirements(cmd *cobra.Command, config *Config) error {
	// Check OpenAI API key
	if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
		return err
	}

	// Handle model flag if provided
	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateModel(modelFlag); err != nil {
			return err
		}
		config.SummaryModel = modelFlag
	} else if err := ValidateModel(config.SummaryModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	// Handle language flag if provided
	if languageFlag := cmd.Flags().Lookup("language"); languageFlag != nil && languageFlag.Changed {
		language, _ := cmd.Flags().GetString("language")
		if language != "" {
			config.Language = language
		}
	}

	return nil
}
