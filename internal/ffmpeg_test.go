package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDuration(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner("420.137000", nil)
	media := NewMedia(runner, t.TempDir(), false)

	duration, err := media.Duration(context.Background(), "talk.mp3")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if duration != 420.137 {
		t.Errorf("duration = %v, want 420.137", duration)
	}
}

func TestDurationProbeFailure(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner("", nil)
	runner.probeErr = os.ErrPermission
	media := NewMedia(runner, t.TempDir(), false)

	if _, err := media.Duration(context.Background(), "talk.mp3"); err == nil {
		t.Error("Duration should fail when ffprobe fails")
	}
}

func TestSplitWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		duration    string
		window      int
		wantStarts  []float64
		wantLengths []float64
	}{
		{
			name:        "splits across the window boundary",
			duration:    "400.000000",
			window:      300,
			wantStarts:  []float64{0, 300},
			wantLengths: []float64{300, 100},
		},
		{
			name:        "exact multiple keeps full final window",
			duration:    "900.000000",
			window:      300,
			wantStarts:  []float64{0, 300, 600},
			wantLengths: []float64{300, 300, 300},
		},
		{
			name:        "short file yields one short window",
			duration:    "10.500000",
			window:      300,
			wantStarts:  []float64{0},
			wantLengths: []float64{10.5},
		},
		{
			name:        "zero duration still yields one window",
			duration:    "0.000000",
			window:      300,
			wantStarts:  []float64{0},
			wantLengths: []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := newFakeRunner(tt.duration, []byte("segment data"))
			media := NewMedia(runner, t.TempDir(), false)

			segments, err := media.SplitWindows(context.Background(), "/media/talk.mp3", tt.window)
			if err != nil {
				t.Fatalf("SplitWindows: %v", err)
			}

			if len(segments) != len(tt.wantStarts) {
				t.Fatalf("got %d segments, want %d", len(segments), len(tt.wantStarts))
			}
			for i, segment := range segments {
				if segment.Index != i {
					t.Errorf("segment %d has index %d", i, segment.Index)
				}
				if segment.Start != tt.wantStarts[i] {
					t.Errorf("segment %d start = %v, want %v", i, segment.Start, tt.wantStarts[i])
				}
				if segment.Length != tt.wantLengths[i] {
					t.Errorf("segment %d length = %v, want %v", i, segment.Length, tt.wantLengths[i])
				}
				if segment.Suffix != ".mp3" {
					t.Errorf("segment %d suffix = %q, want .mp3", i, segment.Suffix)
				}
				if !FileExists(segment.Path) {
					t.Errorf("segment %d file %q was not created", i, segment.Path)
				}
				if segment.Size != int64(len("segment data")) {
					t.Errorf("segment %d size = %d, want %d", i, segment.Size, len("segment data"))
				}
			}
		})
	}
}

func TestSplitWindowsStreamCopies(t *testing.T) {
	t.Parallel()

	runner := newFakeRunner("400.000000", []byte("x"))
	media := NewMedia(runner, t.TempDir(), false)

	if _, err := media.SplitWindows(context.Background(), "talk.mp3", 300); err != nil {
		t.Fatalf("SplitWindows: %v", err)
	}

	for i, args := range runner.cutCalls {
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-c copy") {
			t.Errorf("cut %d does not stream-copy: %q", i, joined)
		}
	}
	if got := strings.Join(runner.cutCalls[1], " "); !strings.Contains(got, "-ss 300") || !strings.Contains(got, "-t 100") {
		t.Errorf("second cut has wrong time range: %q", got)
	}
}

func TestSplitWindowsCutFailureCleansUp(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	runner := newFakeRunner("900.000000", []byte("x"))
	runner.failCutAt = 1
	media := NewMedia(runner, tempDir, false)

	_, err := media.SplitWindows(context.Background(), "talk.mp3", 300)
	if err == nil {
		t.Fatal("SplitWindows should fail when a cut fails")
	}
	if !strings.Contains(err.Error(), "segment 1") {
		t.Errorf("error %q does not name the failing segment", err)
	}

	entries, readErr := os.ReadDir(tempDir)
	if readErr != nil {
		t.Fatalf("reading temp dir: %v", readErr)
	}
	for _, entry := range entries {
		t.Errorf("leftover segment file %q after failed split", filepath.Join(tempDir, entry.Name()))
	}
}
