package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// App holds the application state and dependencies
type App struct {
	youtube    *YouTube
	media      *Media
	store      *Store
	sessions   *SessionStore
	pipeline   *Pipeline
	summarizer *Summarizer
	errlog     *ErrorLog
	client     SpeechClient
	runner     CommandRunner
	config     *Config
	ui         UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	app := &App{
		youtube:  NewYouTube(config.Verbose),
		store:    NewStore(config),
		sessions: NewSessionStore(),
		errlog:   NewErrorLog(config.ErrorLogPath),
		client:   NewOpenAIClient(config.OpenAIAPIKey, config.SummaryModel),
		runner:   &DefaultCommandRunner{},
		config:   config,
		ui:       NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	app.media = NewMedia(app.runner, config.TempDir, config.Verbose)
	app.pipeline = NewPipeline(app.client, config, app.ui)
	app.summarizer = NewSummarizer(app.client, config, app.errlog, app.ui)

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithSpeechClient sets a custom speech API client
func WithSpeechClient(client SpeechClient) AppOption {
	return func(a *App) {
		a.client = client
	}
}

// WithCommandRunner sets a custom external command runner
func WithCommandRunner(runner CommandRunner) AppOption {
	return func(a *App) {
		a.runner = runner
	}
}

// WithYouTube sets a custom YouTube downloader
func WithYouTube(youtube *YouTube) AppOption {
	return func(a *App) {
		a.youtube = youtube
	}
}

// Store exposes the artifact store, e.g. for the clear command.
func (app *App) Store() *Store {
	return app.store
}

// Sessions exposes the per-session state store.
func (app *App) Sessions() *SessionStore {
	return app.sessions
}

// IngestResult identifies a materialized media file.
type IngestResult struct {
	ID   ContentIdentity
	Ext  string
	Path string
}

// Ingest takes a local file path or a YouTube URL, validates it, and
// materializes the media bytes in the content-addressed store. Ingesting
// the same content twice is free.
func (app *App) Ingest(ctx context.Context, arg string) (IngestResult, error) {
	if err := app.store.EnsureLayout(); err != nil {
		return IngestResult{}, fmt.Errorf("creating artifact directories: %w", err)
	}

	var data []byte
	var ext string
	var err error

	if IsYouTubeURL(arg) {
		data, ext, err = app.youtube.DownloadAudio(ctx, arg)
		if err != nil {
			return IngestResult{}, fmt.Errorf("downloading audio: %w", err)
		}
	} else {
		ext = strings.ToLower(filepath.Ext(arg))
		data, err = os.ReadFile(arg)
		if err != nil {
			return IngestResult{}, fmt.Errorf("reading media file: %w", err)
		}
	}

	in, err := app.IngestBytes(data, ext)
	if err != nil {
		return IngestResult{}, err
	}

	app.ui.Verbose("Ingested %s as %s\n", arg, in.ID)
	return in, nil
}

// IngestBytes validates and materializes raw media bytes. This is the
// common path behind local files, YouTube downloads and HTTP uploads.
func (app *App) IngestBytes(data []byte, ext string) (IngestResult, error) {
	if err := app.store.EnsureLayout(); err != nil {
		return IngestResult{}, fmt.Errorf("creating artifact directories: %w", err)
	}

	ext = strings.ToLower(ext)
	if !IsAllowedExtension(ext) {
		return IngestResult{}, fmt.Errorf("unsupported format %q (allowed: %s)", ext, strings.Join(AllowedExtensions, ", "))
	}
	if int64(len(data)) > app.config.MaxSegmentBytes {
		return IngestResult{}, fmt.Errorf("file exceeds the %d MiB upload limit", app.config.MaxSegmentBytes>>20)
	}

	id := Identify(data)
	path, err := app.store.Materialize(id, data, ext)
	if err != nil {
		return IngestResult{}, err
	}

	app.sessions.Track(id, ext)
	if app.store.HasTranscript(id) {
		app.sessions.MarkTranscribed(id, ext)
	}

	return IngestResult{ID: id, Ext: ext, Path: path}, nil
}

// TranscribeByID transcribes a previously ingested file located by its
// content identity.
func (app *App) TranscribeByID(ctx context.Context, id ContentIdentity) (string, error) {
	path, ext, err := app.store.FindOriginal(id)
	if err != nil {
		return "", err
	}
	app.sessions.Track(id, ext)
	return app.Transcribe(ctx, IngestResult{ID: id, Ext: ext, Path: path})
}

// Transcribe produces the transcript for an ingested file, reusing the
// cached one when it exists. A fresh run chunks the original into time
// windows and feeds them through the transcription pipeline.
func (app *App) Transcribe(ctx context.Context, in IngestResult) (string, error) {
	if app.store.HasTranscript(in.ID) {
		app.ui.Verbose("Using cached transcript for %s\n", in.ID)
		return app.store.LoadTranscript(in.ID)
	}

	if err := app.sessions.BeginTranscription(in.ID); err != nil {
		return "", err
	}

	segments, err := app.media.SplitWindows(ctx, in.Path, app.config.WindowSeconds)
	if err != nil {
		app.sessions.FinishTranscription(in.ID, false)
		return "", err
	}

	transcript, report, err := app.pipeline.Transcribe(ctx, segments)
	if err != nil {
		app.sessions.FinishTranscription(in.ID, false)
		return "", err
	}

	if !report.Clean() {
		app.ui.Printf("Skipped segments: %d empty, %d oversized, %d failed\n",
			len(report.Empty), len(report.Oversized), len(report.Failed))
	}

	if err := app.store.SaveTranscript(in.ID, transcript); err != nil {
		app.sessions.FinishTranscription(in.ID, false)
		return "", err
	}

	app.sessions.FinishTranscription(in.ID, true)
	return transcript, nil
}

// Summarize turns the stored transcript for an identity into a topic and
// summary pair. Failures come back as renderable text in the result, not
// as an error; only a missing transcript is an error.
func (app *App) Summarize(ctx context.Context, id ContentIdentity) (SummaryResult, error) {
	transcript, err := app.store.LoadTranscript(id)
	if err != nil {
		return SummaryResult{}, fmt.Errorf("no transcript for %s: transcribe it first", id)
	}
	app.sessions.MarkTranscribed(id, "")

	if err := app.sessions.BeginSummary(id); err != nil {
		return SummaryResult{}, err
	}

	result := app.summarizer.Summarize(ctx, transcript)
	if !result.Failed {
		if err := app.store.SaveSummary(id, result.Topic, result.Summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	app.sessions.FinishSummary(id, result)

	return result, nil
}

// Process is the complete workflow: ingest -> transcribe -> summarize.
func (app *App) Process(ctx context.Context, arg string) error {
	in, err := app.Ingest(ctx, arg)
	if err != nil {
		return err
	}

	if _, err := app.Transcribe(ctx, in); err != nil {
		return err
	}

	result, err := app.Summarize(ctx, in.ID)
	if err != nil {
		return err
	}

	rendered, err := RenderMarkdown(FormatSummary(result))
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	fmt.Println(rendered)
	return nil
}

// FormatSummary lays out a summary result as markdown.
func FormatSummary(result SummaryResult) string {
	return fmt.Sprintf("# %s\n\n%s\n", result.Topic, result.Summary)
}
