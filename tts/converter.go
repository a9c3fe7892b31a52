package tts

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/text2audio/tts/audio"
)

// Converter runs the full text-to-audio pipeline: segment planning,
// bounded-parallel synthesis with per-segment retries, and ordered
// audio assembly. A Converter is safe for concurrent use; its
// configuration is fixed at construction.
type Converter struct {
	cfg       Config
	segmenter Segmenter
	synth     Synthesizer
	limiter   *rate.Limiter
	retry     retryPolicy
}

// New creates a Converter. Out-of-range configuration values are
// clamped into their documented bounds.
func New(segmenter Segmenter, synth Synthesizer, cfg Config) *Converter {
	cfg = cfg.normalized()

	c := &Converter{
		cfg:       cfg,
		segmenter: segmenter,
		synth:     synth,
		retry: retryPolicy{
			maxAttempts: cfg.MaxAttempts,
			baseDelay:   cfg.RetryDelay,
			sleep:       sleepContext,
		},
	}
	if cfg.RequestRate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 1)
	}
	return c
}

// Config returns the normalized configuration the converter runs with.
func (c *Converter) Config() Config {
	return c.cfg
}

// Convert turns text into a single assembled audio buffer. Partial
// results are never returned: either every segment synthesizes and the
// merged buffer comes back, or the first exhausted segment fails the
// whole conversion.
func (c *Converter) Convert(ctx context.Context, text string) (*audio.Buffer, error) {
	if err := c.validateVoice(); err != nil {
		return nil, err
	}

	segments, err := plan(ctx, text, c.cfg.MaxSegmentLength, c.segmenter)
	if err != nil {
		return nil, err
	}

	mode := "segmented"
	if len(segments) == 1 {
		mode = "direct"
	}
	log.Info("conversion planned",
		"mode", mode, "segments", len(segments), "parallelism", c.cfg.Parallelism)

	buffers, err := c.dispatch(ctx, segments)
	if err != nil {
		return nil, err
	}

	merged, err := audio.Merge(buffers)
	if err != nil {
		return nil, assemblyError(err)
	}

	log.Info("conversion assembled",
		"segments", len(segments), "frames", merged.Frames(), "duration", merged.Duration())
	return merged, nil
}

// ConvertToFile converts text and writes the result as a WAV file. The
// file is only written after the whole conversion succeeds.
func (c *Converter) ConvertToFile(ctx context.Context, text, path string) error {
	buf, err := c.Convert(ctx, text)
	if err != nil {
		return err
	}
	if err := audio.WriteFile(path, buf); err != nil {
		return writeError(err)
	}
	return nil
}

// validateVoice rejects voices outside the synthesizer's closed set
// before any provider is called.
func (c *Converter) validateVoice() error {
	lister, ok := c.synth.(VoiceLister)
	if !ok {
		return nil
	}
	for _, v := range lister.Voices() {
		if v == c.cfg.Voice {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidVoice, c.cfg.Voice)
}
