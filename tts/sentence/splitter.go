// Package sentence provides a rule-based text splitter that needs no
// network access. It detects sentence boundaries and packs whole
// sentences into segments under the length cap, so it can stand in for
// the chat-based splitters when offline or unconfigured.
package sentence

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgnsrekt/text2audio/tts"
)

// Splitter splits plain text on sentence boundaries.
type Splitter struct {
	// Common abbreviations that do not end sentences.
	abbreviations map[string]bool
}

// NewSplitter creates a sentence splitter.
func NewSplitter() *Splitter {
	return &Splitter{abbreviations: makeAbbreviationMap()}
}

// Split implements tts.Segmenter. Whole sentences are packed greedily
// into spans of at most maxLen runes; a single sentence longer than
// maxLen is cut at word boundaries where possible. No text is dropped.
func (s *Splitter) Split(ctx context.Context, text string, maxLen int) ([]tts.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := s.sentenceSpans(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var spans []tts.Span
	cur := sentences[0]
	for _, next := range sentences[1:] {
		if utf8.RuneCountInString(text[cur.Start:next.End]) <= maxLen {
			cur.End = next.End
			continue
		}
		spans = append(spans, splitOversized(text, cur, maxLen)...)
		cur = next
	}
	spans = append(spans, splitOversized(text, cur, maxLen)...)

	return spans, nil
}

// sentenceSpans finds sentence boundaries and returns each sentence as
// a byte-offset span, excluding surrounding whitespace.
func (s *Splitter) sentenceSpans(text string) []tts.Span {
	var spans []tts.Span

	start := -1
	lastWordStart := 0
	skipUntil := 0
	for i, r := range text {
		if i < skipUntil {
			continue
		}
		if start < 0 {
			if unicode.IsSpace(r) {
				continue
			}
			start = i
			lastWordStart = i
		}
		if unicode.IsSpace(r) {
			lastWordStart = i + utf8.RuneLen(r)
			continue
		}

		if !isSentenceEnd(r) {
			continue
		}
		// ASCII terminal punctuation must be followed by whitespace, a
		// closing quote, or end of text. Full-width terminals stand on
		// their own; CJK text has no space after them.
		next, width := nextRune(text, i)
		if !isFullWidthTerminal(r) && width > 0 &&
			!unicode.IsSpace(next) && !isClosingQuote(next) && !isSentenceEnd(next) {
			continue
		}
		// A period after a known abbreviation does not end the sentence.
		if r == '.' && s.isAbbreviation(text[lastWordStart:i]) {
			continue
		}

		end := i + utf8.RuneLen(r)
		// Include a trailing closing quote in the sentence.
		if width > 0 && isClosingQuote(next) {
			end += width
		}
		spans = append(spans, tts.Span{Start: start, End: end})
		skipUntil = end
		start = -1
	}

	// Trailing text without terminal punctuation is still a sentence.
	if start >= 0 {
		end := len(text)
		for end > start {
			r, width := utf8.DecodeLastRuneInString(text[start:end])
			if !unicode.IsSpace(r) {
				break
			}
			end -= width
		}
		if end > start {
			spans = append(spans, tts.Span{Start: start, End: end})
		}
	}

	return spans
}

// splitOversized cuts a span that exceeds maxLen runes into pieces,
// preferring the last space inside the window over a hard cut.
func splitOversized(text string, span tts.Span, maxLen int) []tts.Span {
	if utf8.RuneCountInString(text[span.Start:span.End]) <= maxLen {
		return []tts.Span{span}
	}

	var out []tts.Span
	start := span.Start
	for start < span.End {
		rest := text[start:span.End]
		if utf8.RuneCountInString(rest) <= maxLen {
			out = append(out, tts.Span{Start: start, End: span.End})
			break
		}

		// Byte offset of the maxLen-th rune.
		cut := 0
		for n := 0; n < maxLen; n++ {
			_, width := utf8.DecodeRuneInString(rest[cut:])
			cut += width
		}
		if idx := strings.LastIndexFunc(rest[:cut], unicode.IsSpace); idx > 0 {
			cut = idx
		}
		out = append(out, tts.Span{Start: start, End: start + cut})

		start += cut
		for start < span.End {
			r, width := utf8.DecodeRuneInString(text[start:span.End])
			if !unicode.IsSpace(r) {
				break
			}
			start += width
		}
	}
	return out
}

func (s *Splitter) isAbbreviation(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	return s.abbreviations[word]
}

// nextRune returns the rune following the rune at byte offset i, or
// width 0 at end of text.
func nextRune(text string, i int) (rune, int) {
	_, w := utf8.DecodeRuneInString(text[i:])
	if i+w >= len(text) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(text[i+w:])
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

func isFullWidthTerminal(r rune) bool {
	switch r {
	case '。', '！', '？', '…':
		return true
	}
	return false
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '»', '”', '’', '」', '』':
		return true
	}
	return false
}

func makeAbbreviationMap() map[string]bool {
	words := []string{
		"mr", "mrs", "ms", "dr", "prof", "sr", "jr",
		"i.e", "e.g", "etc", "vs", "inc", "ltd", "co", "corp",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
		"st", "ave", "blvd", "dept", "est", "min", "sec",
		"u.s", "u.k", "u.n", "e.u",
	}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
