package internal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Fixed user-facing failure strings. Summarization failures are domain
// expected (quota, oversized input) and rendered as text, never raised.
const (
	fallbackTopic    = "Could not generate a topic"
	fallbackSummary  = "Could not generate a summary"
	quotaTopic       = "Insufficient account balance"
	quotaSummary     = "The OpenAI account behind this API key is out of quota. Top up billing and try again."
	failedTopic      = "Summary generation failed"
	noPartialsTopic  = "No fragment summaries produced"
	noPartialsDetail = "None of the transcript fragments produced a summary. Try again or contact the administrator."
)

// SummaryResult is a one-sentence topic and a 3-5 sentence summary. Failed
// results still carry renderable text in both fields.
type SummaryResult struct {
	Topic   string
	Summary string
	Failed  bool
}

// Summarizer turns a transcript of any length into a topic and summary
// pair. Short texts are summarized in one request; long texts go through a
// two-level map-reduce over fixed-size character fragments.
type Summarizer struct {
	client        SpeechClient
	fragmentChars int
	maxTokens     int64
	timeout       time.Duration
	errlog        *ErrorLog
	ui            UIManager
}

// NewSummarizer creates a summarizer.
func NewSummarizer(client SpeechClient, config *Config, errlog *ErrorLog, ui UIManager) *Summarizer {
	return &Summarizer{
		client:        client,
		fragmentChars: config.FragmentChars,
		maxTokens:     config.SummaryMaxTokens,
		timeout:       config.SummaryTimeout,
		errlog:        errlog,
		ui:            ui,
	}
}

// complete runs one completion request under the configured per-request
// timeout.
func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.client.Complete(ctx, prompt, s.maxTokens)
}

const topicSummaryPrompt = "Give a one-sentence topic and then a 3-5 sentence summary of the following transcript:\n"

// Summarize produces the topic and summary for a transcript. Texts longer
// than the fragment window are summarized hierarchically; any fragment
// failure aborts the whole run immediately, so a partial summary can never
// masquerade as a complete one.
func (s *Summarizer) Summarize(ctx context.Context, text string) SummaryResult {
	runes := []rune(text)
	if len(runes) <= s.fragmentChars {
		return s.summarizeDirect(ctx, text)
	}
	return s.summarizeFragments(ctx, runes)
}

// summarizeDirect handles text that fits in a single request.
func (s *Summarizer) summarizeDirect(ctx context.Context, text string) SummaryResult {
	content, err := s.complete(ctx, topicSummaryPrompt+text)
	if err != nil {
		return s.failure("summarize", err)
	}
	return s.finish("summarize", content)
}

// summarizeFragments is the hierarchical path: summarize each fragment in
// order, then reduce the collected partial summaries into one final pair.
func (s *Summarizer) summarizeFragments(ctx context.Context, runes []rune) SummaryResult {
	numFragments := (len(runes) + s.fragmentChars - 1) / s.fragmentChars
	s.ui.Verbose("Summarizing %d transcript fragments\n", numFragments)

	partials := make([]string, 0, numFragments)
	for i := 0; i < numFragments; i++ {
		end := (i + 1) * s.fragmentChars
		if end > len(runes) {
			end = len(runes)
		}
		fragment := string(runes[i*s.fragmentChars : end])

		prompt := fmt.Sprintf("Give a one-sentence topic and then a 3-5 sentence summary of fragment %d of a longer transcript:\n%s", i+1, fragment)
		content, err := s.complete(ctx, prompt)
		if err != nil {
			return s.failure(fmt.Sprintf("summarize fragment %d/%d", i+1, numFragments), err)
		}
		if strings.TrimSpace(content) == "" {
			return s.failure(fmt.Sprintf("summarize fragment %d/%d", i+1, numFragments),
				fmt.Errorf("empty response for fragment %d", i+1))
		}
		partials = append(partials, content)
	}

	// Cannot happen with the abort-on-failure rule above, but a silent
	// empty reduce would be worse than a visible failure.
	if len(partials) == 0 {
		s.errlog.Append("summarize", fmt.Errorf("no fragment summaries produced"))
		return SummaryResult{Topic: noPartialsTopic, Summary: noPartialsDetail, Failed: true}
	}

	reducePrompt := "Give a one-sentence topic and then a 3-5 sentence summary covering these fragment summaries:\n" +
		strings.Join(partials, "\n")

	spinner := s.ui.NewSpinner("Combining fragment summaries")
	content, err := s.complete(ctx, reducePrompt)
	spinner.Finish()
	if err != nil {
		return s.failure("summarize reduce", err)
	}
	return s.finish("summarize reduce", content)
}

// finish parses the final model response. An empty response is a failure
// like any other and lands in the error log.
func (s *Summarizer) finish(operation string, content string) SummaryResult {
	result := parseTopicSummary(content)
	if result.Failed {
		s.errlog.Append(operation, fmt.Errorf("empty response from model"))
	}
	return result
}

// failure logs the error and translates it into a renderable result. Quota
// exhaustion and rate limiting both mean the account needs attention, so
// they share the insufficient-balance pair.
func (s *Summarizer) failure(operation string, err error) SummaryResult {
	s.errlog.Append(operation, err)

	apiErr := classifyAPIError(err)
	if apiErr.Kind == APIErrorQuota || apiErr.Kind == APIErrorRateLimited {
		return SummaryResult{Topic: quotaTopic, Summary: quotaSummary, Failed: true}
	}
	return SummaryResult{
		Topic:   failedTopic,
		Summary: fmt.Sprintf("%s: %v", operation, err),
		Failed:  true,
	}
}

// parseTopicSummary splits a model response into topic and summary: the
// first line is the topic, the remaining lines joined by spaces are the
// summary.
func parseTopicSummary(content string) SummaryResult {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) == 0 {
		return SummaryResult{Topic: fallbackTopic, Summary: fallbackSummary, Failed: true}
	}

	result := SummaryResult{Topic: lines[0], Summary: fallbackSummary}
	if len(lines) > 1 {
		result.Summary = strings.Join(lines[1:], " ")
	}
	return result
}
