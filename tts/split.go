package tts

import (
	"fmt"
	"strings"
)

// SplitDelimiter separates segments in a chat splitter's reply.
const SplitDelimiter = "|||"

// SplitSystemPrompt primes the chat model for semantic segmentation.
const SplitSystemPrompt = "You are an expert linguist. Split the text " +
	"the user provides into semantically coherent passages."

// BuildSplitPrompt renders the user prompt sent to a chat model to
// split text into segments of at most maxLen characters each.
func BuildSplitPrompt(text string, maxLen int) string {
	return fmt.Sprintf(
		"Split the following text into passages of at most %d characters each. "+
			"Keep each passage semantically complete, preferring natural sentence "+
			"boundaries (periods, question marks, exclamation marks). "+
			"Output the passages in their original order, separated by the marker %s. "+
			"Do not add any commentary and do not alter the text.\n\n"+
			"Text to split:\n%s",
		maxLen, SplitDelimiter, text)
}

// ParseSplitReply splits a chat model's reply on SplitDelimiter,
// trimming whitespace and dropping empty pieces. A reply without the
// delimiter is treated as a single piece.
func ParseSplitReply(reply string) []string {
	parts := strings.Split(reply, SplitDelimiter)
	pieces := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pieces = append(pieces, p)
	}
	if len(pieces) == 0 {
		if trimmed := strings.TrimSpace(reply); trimmed != "" {
			pieces = append(pieces, trimmed)
		}
	}
	return pieces
}

// SpansForPieces maps model-returned pieces back to spans of the source
// text, in order. Every piece must occur verbatim at the next position
// in the source (ignoring surrounding whitespace); anything else means
// the model rewrote or dropped text, which is a provider contract
// violation.
func SpansForPieces(text string, pieces []string) ([]Span, error) {
	spans := make([]Span, 0, len(pieces))
	offset := 0
	for i, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		idx := strings.Index(text[offset:], piece)
		if idx < 0 {
			return nil, fmt.Errorf("piece %d not found in source text: %q", i, snippet(piece))
		}
		if skipped := text[offset : offset+idx]; strings.TrimSpace(skipped) != "" {
			return nil, fmt.Errorf("piece %d skips source text: %q", i, snippet(skipped))
		}

		start := offset + idx
		spans = append(spans, Span{Start: start, End: start + len(piece)})
		offset = start + len(piece)
	}

	if len(spans) == 0 {
		return nil, fmt.Errorf("no usable pieces in reply")
	}
	if tail := text[offset:]; strings.TrimSpace(tail) != "" {
		return nil, fmt.Errorf("reply ends before source text: %q remains", snippet(tail))
	}
	return spans, nil
}
