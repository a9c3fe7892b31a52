package zhipu

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/text2audio/tts"
)

// Splitter implements tts.Segmenter using GLM chat completions. The
// model returns the text split into delimiter-joined passages, which
// are mapped back onto spans of the source text.
type Splitter struct {
	client *Client
}

// NewSplitter creates a Splitter backed by the given client.
func NewSplitter(client *Client) *Splitter {
	return &Splitter{client: client}
}

// Split implements tts.Segmenter.
func (s *Splitter) Split(ctx context.Context, text string, maxLen int) ([]tts.Span, error) {
	prompt := tts.BuildSplitPrompt(text, maxLen)

	reply, err := s.client.ChatCompletion(ctx, tts.SplitSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("split request: %w", err)
	}

	pieces := tts.ParseSplitReply(reply)
	log.Debug("split reply parsed", "model", s.client.cfg.Model, "pieces", len(pieces))

	spans, err := tts.SpansForPieces(text, pieces)
	if err != nil {
		return nil, fmt.Errorf("split reply violates contract: %w", err)
	}
	return spans, nil
}
