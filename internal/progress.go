package internal

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// UIManager handles user-facing output: progress bars, status messages and
// verbose diagnostics. All pipeline components report through it so quiet
// mode can silence everything in one place.
type UIManager interface {
	NewProgressBar(total int, description string) ProgressBar
	NewSpinner(description string) ProgressBar

	Verbose(format string, args ...any)
	Printf(format string, args ...any)
	Println(args ...any)
}

// ProgressBar abstracts progress bar operations
type ProgressBar interface {
	Advance()
	Describe(description string)
	Finish()
}

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	verbose bool
	quiet   bool
}

func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
	}
}

func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	if ui.quiet {
		return &silentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &visibleProgressBar{bar: bar}
}

func (ui *StandardUIManager) NewSpinner(description string) ProgressBar {
	if ui.quiet {
		return &silentProgressBar{bar: progressbar.DefaultSilent(-1)}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &visibleProgressBar{bar: bar}
}

func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose {
		fmt.Printf(format, args...)
	}
}

func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Printf(format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Println(args...)
	}
}

// visibleProgressBar wraps the actual progress bar
type visibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *visibleProgressBar) Advance() {
	_ = v.bar.Add(1)
}

func (v *visibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *visibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

// silentProgressBar swallows all progress output
type silentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *silentProgressBar) Advance() {
	_ = s.bar.Add(1)
}

func (s *silentProgressBar) Describe(description string) {}

func (s *silentProgressBar) Finish() {
	_ = s.bar.Finish()
}
