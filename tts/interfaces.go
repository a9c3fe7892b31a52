// Package tts converts arbitrary-length text into a single audio buffer
// by splitting the text into semantic segments, synthesizing each
// segment through an external speech provider, and assembling the
// results in original text order.
package tts

import (
	"context"

	"github.com/dgnsrekt/text2audio/tts/audio"
)

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Segmenter splits text into spans no longer than maxLen runes each,
// preserving source order and dropping no text. Implementations include
// the Zhipu and OpenAI chat splitters and the offline sentence splitter.
type Segmenter interface {
	Split(ctx context.Context, text string, maxLen int) ([]Span, error)
}

// VoiceParams carries per-request synthesis parameters.
type VoiceParams struct {
	Voice  Voice
	Speed  float64
	Volume float64
}

// Synthesizer converts one text segment into a decoded audio buffer.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, params VoiceParams) (*audio.Buffer, error)
}

// VoiceLister is optionally implemented by synthesizers that expose a
// closed set of supported voices. When implemented, the converter
// validates the configured voice before dispatch.
type VoiceLister interface {
	Voices() []Voice
}
