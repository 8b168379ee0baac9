package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestConfig returns a config rooted in a fresh temp directory with
// limits small enough to exercise every pipeline path cheaply.
func newTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()

	return &Config{
		SummaryModel:     "gpt-4o-mini",
		Language:         "pl",
		SummaryTimeout:   time.Minute,
		SlowNoticeAfter:  time.Hour,
		Quiet:            true,
		WindowSeconds:    DefaultWindowSeconds,
		FragmentChars:    DefaultFragmentChars,
		MaxSegmentBytes:  MaxSegmentBytes,
		SummaryMaxTokens: 300,
		ConfigDir:        filepath.Join(dir, "config"),
		DataDir:          filepath.Join(dir, "data"),
		CacheDir:         filepath.Join(dir, "cache"),
		TempDir:          filepath.Join(dir, "cache", "segments"),
		OriginalsDir:     filepath.Join(dir, "data", "originals"),
		TranscriptsDir:   filepath.Join(dir, "data", "transcripts"),
		SummariesDir:     filepath.Join(dir, "data", "summaries"),
		ErrorLogPath:     filepath.Join(dir, "data", "errors.log"),
	}
}

// fakeSpeechClient scripts the speech API boundary.
type fakeSpeechClient struct {
	transcribeFn    func(call int) (string, error)
	completeFn      func(call int, prompt string) (string, error)
	transcribeCalls int
	prompts         []string
}

func (f *fakeSpeechClient) Transcribe(ctx context.Context, file *os.File, language string) (string, error) {
	call := f.transcribeCalls
	f.transcribeCalls++
	if f.transcribeFn == nil {
		return "", errors.New("unexpected transcription call")
	}
	return f.transcribeFn(call)
}

func (f *fakeSpeechClient) Complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if f.completeFn == nil {
		return "", errors.New("unexpected completion call")
	}
	return f.completeFn(call, prompt)
}

// fakeRunner scripts ffprobe and ffmpeg. Every ffmpeg invocation writes
// payload bytes to the output path (the final argument), like the real
// tool would.
type fakeRunner struct {
	duration  string
	payload   []byte
	failCutAt int // index of the ffmpeg call to fail, -1 for none
	probeErr  error
	cutCalls  [][]string
}

func newFakeRunner(duration string, payload []byte) *fakeRunner {
	return &fakeRunner{duration: duration, payload: payload, failCutAt: -1}
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	switch name {
	case "ffprobe":
		if r.probeErr != nil {
			return []byte("probe failed"), r.probeErr
		}
		return []byte(r.duration + "\n"), nil
	case "ffmpeg":
		call := len(r.cutCalls)
		r.cutCalls = append(r.cutCalls, args)
		if call == r.failCutAt {
			return []byte("cut failed"), errors.New("exit status 1")
		}
		output := args[len(args)-1]
		return nil, os.WriteFile(output, r.payload, 0o644)
	}
	return nil, fmt.Errorf("unexpected command %s", name)
}

// writeSegment creates a real temp segment file for pipeline tests.
func writeSegment(t *testing.T, dir string, index int, content string) Segment {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("segment_%03d.mp3", index))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing segment: %v", err)
	}
	return Segment{Index: index, Path: path, Size: int64(len(content)), Suffix: ".mp3"}
}
