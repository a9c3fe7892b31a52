package tts

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// SegmentStatus tracks a segment through the dispatch lifecycle.
type SegmentStatus int

const (
	// StatusPending means the segment has not been admitted yet.
	StatusPending SegmentStatus = iota
	// StatusInFlight means a synthesis attempt is running.
	StatusInFlight
	// StatusRetrying means an attempt failed and a retry is scheduled.
	StatusRetrying
	// StatusCompleted is terminal; the segment produced audio.
	StatusCompleted
	// StatusFailed is terminal; the retry budget was exhausted.
	StatusFailed
)

// String returns the status name.
func (s SegmentStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in-flight"
	case StatusRetrying:
		return "retrying"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Segment is one contiguous slice of the input text, synthesized as an
// independent audio buffer. Index values form a contiguous 0-based
// range in text order. The status is mutated only by the dispatch job
// that owns the segment and is immutable once terminal.
type Segment struct {
	Index  int
	Text   string
	status SegmentStatus
}

// Status returns the segment's current lifecycle status.
func (s *Segment) Status() SegmentStatus {
	return s.status
}

// plan decides between direct and segmented conversion and produces the
// ordered segment sequence. Text at or under maxLen runes becomes a
// single segment without consulting the segmenter. Longer text is split
// by the segmenter; the returned spans are validated against the
// provider contract (monotonically increasing, within bounds, no text
// dropped) and whitespace-only slices are coalesced away.
func plan(ctx context.Context, text string, maxLen int, segmenter Segmenter) ([]Segment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	if utf8.RuneCountInString(text) <= maxLen {
		return []Segment{{Index: 0, Text: text}}, nil
	}

	spans, err := segmenter.Split(ctx, text, maxLen)
	if err != nil {
		return nil, segmentationError(err)
	}

	texts, err := validateSpans(text, spans)
	if err != nil {
		return nil, segmentationError(err)
	}

	segments := make([]Segment, len(texts))
	for i, t := range texts {
		segments[i] = Segment{Index: i, Text: t}
	}
	return segments, nil
}

// validateSpans enforces the segmentation provider contract and returns
// the trimmed, non-empty segment texts in source order.
func validateSpans(text string, spans []Span) ([]string, error) {
	if len(spans) == 0 {
		return nil, fmt.Errorf("provider returned no split points")
	}

	prev := 0
	texts := make([]string, 0, len(spans))
	for i, s := range spans {
		if s.Start < 0 || s.End > len(text) || s.Start > s.End {
			return nil, fmt.Errorf("split %d out of bounds: [%d, %d) in %d bytes",
				i, s.Start, s.End, len(text))
		}
		if s.Start < prev {
			return nil, fmt.Errorf("split %d not monotonically increasing: start %d before offset %d",
				i, s.Start, prev)
		}
		if gap := text[prev:s.Start]; strings.TrimSpace(gap) != "" {
			return nil, fmt.Errorf("split %d drops text %q", i, snippet(gap))
		}
		prev = s.End

		// Whitespace-only slices carry nothing to synthesize; coalesce
		// them away instead of rejecting the whole plan.
		slice := strings.TrimSpace(text[s.Start:s.End])
		if slice == "" {
			continue
		}
		texts = append(texts, slice)
	}

	if tail := text[prev:]; strings.TrimSpace(tail) != "" {
		return nil, fmt.Errorf("splits end before source text, dropping %q", snippet(tail))
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("all split slices are empty")
	}
	return texts, nil
}

// snippet shortens text for error messages.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	const max = 40
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
