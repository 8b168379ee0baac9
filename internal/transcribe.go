package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// ErrNoTranscript is returned when every segment failed or was empty and no
// usable text came out of the pipeline.
var ErrNoTranscript = errors.New("transcription produced no usable text; check the file format and try again")

var (
	fillerRE = regexp.MustCompile(`(?i)\b(?:em|yhm|um|uh|a{2,}|y{2,})\b`)
	spaceRE  = regexp.MustCompile(`\s+`)
)

// CleanTranscript removes common speech artifacts from raw transcription
// output: the filler words em/yhm/um/uh, stretched "aaa"/"yyy" sounds, and
// runs of whitespace. The transform is pure and idempotent.
func CleanTranscript(text string) string {
	text = fillerRE.ReplaceAllString(text, "")
	text = spaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// PipelineReport records which segments contributed nothing to the
// transcript and why. Indices refer to Segment.Index.
type PipelineReport struct {
	Empty     []int
	Oversized []int
	Failed    []int
}

// Clean reports whether every segment transcribed successfully.
func (r *PipelineReport) Clean() bool {
	return len(r.Empty) == 0 && len(r.Oversized) == 0 && len(r.Failed) == 0
}

// Pipeline turns ordered media segments into one transcript via the speech
// API. Segments are processed strictly sequentially and each temporary
// segment file is deleted after its attempt, success or not.
type Pipeline struct {
	client          SpeechClient
	language        string
	maxSegmentBytes int64
	slowNoticeAfter time.Duration
	ui              UIManager
}

// NewPipeline creates a transcription pipeline.
func NewPipeline(client SpeechClient, config *Config, ui UIManager) *Pipeline {
	return &Pipeline{
		client:          client,
		language:        config.Language,
		maxSegmentBytes: config.MaxSegmentBytes,
		slowNoticeAfter: config.SlowNoticeAfter,
		ui:              ui,
	}
}

// Transcribe runs every segment through the speech API in index order and
// returns the newline-joined cleaned texts. A failing segment is recorded
// and skipped, not fatal; only a transcript with no usable text at all is
// an error (ErrNoTranscript). A blank transcription counts as a failure,
// not as valid silence.
func (p *Pipeline) Transcribe(ctx context.Context, segments []Segment) (string, *PipelineReport, error) {
	report := &PipelineReport{}

	// Long runs get a one-off notice. The timer dies with this call.
	notice := time.AfterFunc(p.slowNoticeAfter, func() {
		p.ui.Printf("Transcription is still running, large files take a while...\n")
	})
	defer notice.Stop()

	var bar ProgressBar
	if len(segments) > 1 {
		bar = p.ui.NewProgressBar(len(segments), "Transcribing segments")
	}

	texts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if bar != nil {
			bar.Describe(fmt.Sprintf("Transcribing segment %d/%d", segment.Index+1, len(segments)))
		}

		text, status, err := p.transcribeSegment(ctx, segment)
		switch status {
		case segmentFailed:
			fmt.Fprintf(os.Stderr, "Warning: segment %d failed: %v\n", segment.Index, err)
			report.Failed = append(report.Failed, segment.Index)
		case segmentEmpty:
			report.Empty = append(report.Empty, segment.Index)
		case segmentOversized:
			report.Oversized = append(report.Oversized, segment.Index)
		default:
			texts = append(texts, text)
		}

		if bar != nil {
			bar.Advance()
		}
	}

	if bar != nil {
		bar.Finish()
	}

	transcript := strings.Join(texts, "\n")
	if transcript == "" {
		return "", report, ErrNoTranscript
	}
	return transcript, report, nil
}

type segmentStatus int

const (
	segmentOK segmentStatus = iota
	segmentEmpty
	segmentOversized
	segmentFailed
)

// transcribeSegment handles one segment and always removes its temporary
// file afterwards. A removal failure is logged, never propagated.
func (p *Pipeline) transcribeSegment(ctx context.Context, segment Segment) (text string, status segmentStatus, err error) {
	defer func() {
		if removeErr := os.Remove(segment.Path); removeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove segment file %s: %v\n", segment.Path, removeErr)
		}
	}()

	if segment.Size == 0 {
		p.ui.Verbose("Segment %d is empty, skipping\n", segment.Index)
		return "", segmentEmpty, nil
	}
	if segment.Size > p.maxSegmentBytes {
		p.ui.Verbose("Segment %d exceeds %d bytes, skipping\n", segment.Index, p.maxSegmentBytes)
		return "", segmentOversized, nil
	}

	file, err := os.Open(segment.Path)
	if err != nil {
		return "", segmentFailed, fmt.Errorf("opening segment file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close segment file %s: %v\n", segment.Path, closeErr)
		}
	}()

	raw, err := p.client.Transcribe(ctx, file, p.language)
	if err != nil {
		return "", segmentFailed, err
	}

	cleaned := CleanTranscript(raw)
	if cleaned == "" {
		// A blank transcription is a processing failure, not valid silence.
		return "", segmentFailed, errors.New("transcription returned no text")
	}
	return cleaned, segmentOK, nil
}
