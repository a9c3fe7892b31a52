package audio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// Play plays the buffer on the default audio device and blocks until
// playback finishes or ctx is canceled. Only 16-bit PCM is supported.
//
// The oto context can be created once per process, so Play is intended
// for one-shot CLI use, not as a playback engine.
func Play(ctx context.Context, b *Buffer) error {
	if b.Format.BitDepth != 16 {
		return fmt.Errorf("%w: playback requires 16-bit PCM, got %d-bit",
			ErrUnsupportedFormat, b.Format.BitDepth)
	}
	if len(b.Data) == 0 {
		return ErrEmptyData
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   b.Format.SampleRate,
		ChannelCount: b.Format.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	log.Debug("starting playback", "format", b.Format, "duration", b.Duration())

	player := otoCtx.NewPlayer(bytes.NewReader(b.Data))
	player.Play()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			_ = player.Close()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}
	return nil
}
