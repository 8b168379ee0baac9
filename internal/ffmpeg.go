package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Segment is one time-bounded slice of the source media, produced by
// SplitWindows and consumed exactly once by the transcription pipeline.
type Segment struct {
	Index  int
	Path   string
	Start  float64
	Length float64
	Size   int64
	Suffix string
}

// Media handles probing and cutting of audio/video files using FFmpeg
type Media struct {
	cmdRunner CommandRunner
	tempDir   string
	verbose   bool
}

// NewMedia creates a new media processor
func NewMedia(cmdRunner CommandRunner, tempDir string, verbose bool) *Media {
	return &Media{
		cmdRunner: cmdRunner,
		tempDir:   tempDir,
		verbose:   verbose,
	}
}

// Duration returns the media file duration in seconds
func (m *Media) Duration(ctx context.Context, mediaFile string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	output, err := m.cmdRunner.Run(ctx, "ffprobe",
		"-i", mediaFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")

	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}

	return duration, nil
}

// SplitWindows cuts a media file into fixed-length time windows of
// windowSeconds each. Windows are contiguous and exhaustive: window i
// starts at i*windowSeconds and only the final window is shorter. Even a
// zero-length or sub-window file yields one segment. Any cut failure
// removes the partial output and aborts the whole split with the offending
// segment index.
func (m *Media) SplitWindows(ctx context.Context, mediaFile string, windowSeconds int) ([]Segment, error) {
	if err := EnsureDirs(m.tempDir); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	duration, err := m.Duration(ctx, mediaFile)
	if err != nil {
		return nil, fmt.Errorf("probing media duration: %w", err)
	}

	window := float64(windowSeconds)
	numSegments := int(math.Ceil(duration / window))
	if numSegments < 1 {
		numSegments = 1
	}

	if m.verbose {
		fmt.Printf("Splitting %.1fs of media into %d window(s) of %ds\n", duration, numSegments, windowSeconds)
	}

	suffix := strings.ToLower(filepath.Ext(mediaFile))
	segments := make([]Segment, 0, numSegments)

	for i := range numSegments {
		start := float64(i) * window
		length := window
		if i == numSegments-1 {
			length = duration - start
		}

		output := filepath.Join(m.tempDir, fmt.Sprintf("%s_segment_%03d%s", filepath.Base(mediaFile), i, suffix))

		if err := m.cut(ctx, mediaFile, start, length, output); err != nil {
			cleanupFiles(output)
			for _, seg := range segments {
				cleanupFiles(seg.Path)
			}
			return nil, fmt.Errorf("cutting segment %d: %w", i, err)
		}

		info, err := os.Stat(output)
		if err != nil {
			for _, seg := range segments {
				cleanupFiles(seg.Path)
			}
			return nil, fmt.Errorf("inspecting segment %d: %w", i, err)
		}

		segments = append(segments, Segment{
			Index:  i,
			Path:   output,
			Start:  start,
			Length: length,
			Size:   info.Size(),
			Suffix: suffix,
		})
	}

	return segments, nil
}

// cut extracts a sub-range from a media file. The stream is copied, not
// re-encoded; that keeps cuts cheap and bit-faithful.
func (m *Media) cut(ctx context.Context, mediaFile string, start, length float64, output string) error {
	ctx, cancel := context.WithTimeout(ctx, CutTimeout)
	defer cancel()

	cmdOutput, err := m.cmdRunner.Run(ctx, "ffmpeg",
		"-v", "quiet",
		"-y",
		"-i", mediaFile,
		"-ss", strconv.FormatFloat(start, 'f', -1, 64),
		"-t", strconv.FormatFloat(length, 'f', -1, 64),
		"-c", "copy",
		output)

	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	return nil
}
