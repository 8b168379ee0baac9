package internal

import (
	"context"
	"strings"
	"testing"
)

func newTestApp(t *testing.T, client *fakeSpeechClient, runner *fakeRunner) *App {
	t.Helper()
	return NewApp(newTestConfig(t), WithSpeechClient(client), WithCommandRunner(runner))
}

func TestIngestBytesValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		ext     string
		wantErr string
	}{
		{"allowed audio", []byte("ok"), ".mp3", ""},
		{"allowed video", []byte("ok"), ".webm", ""},
		{"uppercase extension", []byte("ok"), ".MP4", ""},
		{"unsupported extension", []byte("ok"), ".exe", "unsupported format"},
		{"no extension", []byte("ok"), "", "unsupported format"},
		{"oversized upload", make([]byte, 32), ".mp3", "upload limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			config := newTestConfig(t)
			config.MaxSegmentBytes = 16
			app := NewApp(config, WithSpeechClient(&fakeSpeechClient{}), WithCommandRunner(newFakeRunner("1.0", nil)))

			in, err := app.IngestBytes(tt.data, tt.ext)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("IngestBytes: %v", err)
				}
				if in.ID != Identify(tt.data) {
					t.Errorf("id = %q, want content identity", in.ID)
				}
				if in.Ext != strings.ToLower(tt.ext) {
					t.Errorf("ext = %q, want lowercased %q", in.Ext, tt.ext)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTranscribeReusesCachedTranscript(t *testing.T) {
	t.Parallel()

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) { return "spoken words", nil },
	}
	runner := newFakeRunner("10.000000", []byte("segment"))
	app := newTestApp(t, client, runner)

	in, err := app.IngestBytes([]byte("media"), ".mp3")
	if err != nil {
		t.Fatalf("IngestBytes: %v", err)
	}

	first, err := app.Transcribe(context.Background(), in)
	if err != nil {
		t.Fatalf("first Transcribe: %v", err)
	}
	second, err := app.Transcribe(context.Background(), in)
	if err != nil {
		t.Fatalf("second Transcribe: %v", err)
	}

	if first != second {
		t.Errorf("cached transcript %q differs from fresh %q", second, first)
	}
	if client.transcribeCalls != 1 {
		t.Errorf("API called %d times across two runs, want 1: the second must hit the cache", client.transcribeCalls)
	}
	if len(runner.cutCalls) != 1 {
		t.Errorf("ffmpeg ran %d times across two runs, want 1", len(runner.cutCalls))
	}
}

func TestIngestMarksCachedTranscript(t *testing.T) {
	t.Parallel()

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) { return "words", nil },
	}
	app := newTestApp(t, client, newFakeRunner("10.000000", []byte("segment")))

	in, err := app.IngestBytes([]byte("media"), ".mp3")
	if err != nil {
		t.Fatalf("IngestBytes: %v", err)
	}
	if _, err := app.Transcribe(context.Background(), in); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	// A later session of the same app sees the transcript on disk.
	app.Sessions().Clear()
	in, err = app.IngestBytes([]byte("media"), ".mp3")
	if err != nil {
		t.Fatalf("re-ingesting: %v", err)
	}
	record, ok := app.Sessions().Get(in.ID)
	if !ok {
		t.Fatal("re-ingested file not tracked")
	}
	if record.State != StateTranscribed {
		t.Errorf("state = %v, want transcribed for content with a cached transcript", record.State)
	}
}

func TestSummarizeRequiresTranscript(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &fakeSpeechClient{}, newFakeRunner("1.0", nil))

	if _, err := app.Summarize(context.Background(), "unknown"); err == nil {
		t.Error("summarizing without a transcript should fail")
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	got := FormatSummary(SummaryResult{Topic: "The topic", Summary: "The summary."})
	want := "# The topic\n\nThe summary.\n"
	if got != want {
		t.Errorf("FormatSummary = %q, want %q", got, want)
	}
}
