package internal

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCleanTranscript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"removes a filler word", "To jest um test", "To jest test"},
		{"only fillers collapse to nothing", "um uh em yhm", ""},
		{"collapses whitespace runs", "Test   z  wieloma   spacjami", "Test z wieloma spacjami"},
		{"stretched sounds", "no aaa to yyy jest nagranie", "no to jest nagranie"},
		{"filler case-insensitive", "UM okay UH then EM", "okay then"},
		{"fillers inside words survive", "umbrella uhlan emka", "umbrella uhlan emka"},
		{"trims edges", "  \t hej \n ", "hej"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CleanTranscript(tt.input)
			if got != tt.want {
				t.Errorf("CleanTranscript(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := CleanTranscript(got); again != got {
				t.Errorf("not idempotent: second pass turned %q into %q", got, again)
			}
		})
	}
}

func TestTranscribeJoinsSegmentsInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	segments := []Segment{
		writeSegment(t, dir, 0, "first audio"),
		writeSegment(t, dir, 1, "second audio"),
	}

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) {
			return []string{"hello ", "world "}[call], nil
		},
	}
	pipeline := NewPipeline(client, newTestConfig(t), NewUIManager(false, true))

	transcript, report, err := pipeline.Transcribe(context.Background(), segments)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript != "hello\nworld" {
		t.Errorf("transcript = %q, want %q", transcript, "hello\nworld")
	}
	if !report.Clean() {
		t.Errorf("report not clean: %+v", report)
	}
	for _, segment := range segments {
		if FileExists(segment.Path) {
			t.Errorf("segment file %q not removed", segment.Path)
		}
	}
}

func TestTranscribeToleratesSegmentFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	segments := []Segment{
		writeSegment(t, dir, 0, "a"),
		writeSegment(t, dir, 1, "b"),
		writeSegment(t, dir, 2, "c"),
	}

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) {
			if call == 1 {
				return "", errors.New("api unavailable")
			}
			return []string{"one", "", "three"}[call], nil
		},
	}
	pipeline := NewPipeline(client, newTestConfig(t), NewUIManager(false, true))

	transcript, report, err := pipeline.Transcribe(context.Background(), segments)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript != "one\nthree" {
		t.Errorf("transcript = %q, want %q", transcript, "one\nthree")
	}
	if !reflect.DeepEqual(report.Failed, []int{1}) {
		t.Errorf("failed segments = %v, want [1]", report.Failed)
	}
	for _, segment := range segments {
		if FileExists(segment.Path) {
			t.Errorf("segment file %q not removed after failure", segment.Path)
		}
	}
}

func TestTranscribeSkipsEmptyAndOversized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	segments := []Segment{
		writeSegment(t, dir, 0, ""),
		writeSegment(t, dir, 1, "this one is far too large"),
		writeSegment(t, dir, 2, "ok"),
	}

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) { return "usable text", nil },
	}
	config := newTestConfig(t)
	config.MaxSegmentBytes = 10
	pipeline := NewPipeline(client, config, NewUIManager(false, true))

	transcript, report, err := pipeline.Transcribe(context.Background(), segments)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript != "usable text" {
		t.Errorf("transcript = %q, want %q", transcript, "usable text")
	}
	if !reflect.DeepEqual(report.Empty, []int{0}) {
		t.Errorf("empty segments = %v, want [0]", report.Empty)
	}
	if !reflect.DeepEqual(report.Oversized, []int{1}) {
		t.Errorf("oversized segments = %v, want [1]", report.Oversized)
	}
	if client.transcribeCalls != 1 {
		t.Errorf("API called %d times, want 1: skipped segments must not reach the API", client.transcribeCalls)
	}
}

func TestTranscribeBlankResultIsFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	segments := []Segment{writeSegment(t, dir, 0, "audio")}

	client := &fakeSpeechClient{
		// Nothing but fillers and whitespace left after cleanup.
		transcribeFn: func(call int) (string, error) { return " um  uh ", nil },
	}
	pipeline := NewPipeline(client, newTestConfig(t), NewUIManager(false, true))

	_, report, err := pipeline.Transcribe(context.Background(), segments)
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("err = %v, want ErrNoTranscript", err)
	}
	if !reflect.DeepEqual(report.Failed, []int{0}) {
		t.Errorf("failed segments = %v, want [0]", report.Failed)
	}
}

func TestTranscribeAllSegmentsFailed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	segments := []Segment{
		writeSegment(t, dir, 0, "a"),
		writeSegment(t, dir, 1, "b"),
	}

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) { return "", errors.New("boom") },
	}
	pipeline := NewPipeline(client, newTestConfig(t), NewUIManager(false, true))

	_, report, err := pipeline.Transcribe(context.Background(), segments)
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("err = %v, want ErrNoTranscript", err)
	}
	if !reflect.DeepEqual(report.Failed, []int{0, 1}) {
		t.Errorf("failed segments = %v, want [0 1]", report.Failed)
	}
}

// End to end over the split and transcription stages with a scripted
// ffmpeg and speech API: a 420s file with 300s windows becomes two
// segments of 300s and 120s, then one joined transcript.
func TestSplitAndTranscribe(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner("420.000000", []byte("segment bytes"))
	media := NewMedia(runner, t.TempDir(), false)

	segments, err := media.SplitWindows(context.Background(), "talk.mp4", 300)
	if err != nil {
		t.Fatalf("SplitWindows: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Length != 300 || segments[1].Length != 120 {
		t.Errorf("segment lengths = %v, %v, want 300, 120", segments[0].Length, segments[1].Length)
	}

	client := &fakeSpeechClient{
		transcribeFn: func(call int) (string, error) {
			return []string{"hello ", "world "}[call], nil
		},
	}
	pipeline := NewPipeline(client, newTestConfig(t), NewUIManager(false, true))

	transcript, report, err := pipeline.Transcribe(context.Background(), segments)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript != "hello\nworld" {
		t.Errorf("transcript = %q, want %q", transcript, "hello\nworld")
	}
	if !report.Clean() {
		t.Errorf("report not clean: %+v", report)
	}
}
