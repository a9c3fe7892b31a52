package zhipu

import (
	"context"
	"fmt"

	"github.com/dgnsrekt/text2audio/tts"
	"github.com/dgnsrekt/text2audio/tts/audio"
)

// Synthesizer implements tts.Synthesizer using CogTTS. CogTTS accepts
// speed and volume natively, so no local post-processing is needed.
type Synthesizer struct {
	client *Client
}

// NewSynthesizer creates a Synthesizer backed by the given client.
func NewSynthesizer(client *Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize implements tts.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, params tts.VoiceParams) (*audio.Buffer, error) {
	wav, err := s.client.Speech(ctx, text, params)
	if err != nil {
		return nil, err
	}

	buf, err := audio.Decode(wav)
	if err != nil {
		return nil, fmt.Errorf("decode synthesis result: %w", err)
	}
	return buf, nil
}

// Voices returns the closed set of CogTTS voices.
func (s *Synthesizer) Voices() []tts.Voice {
	return []tts.Voice{
		tts.VoiceTongtong,
		tts.VoiceChuichui,
		tts.VoiceXiaochen,
		tts.VoiceJam,
		tts.VoiceKazi,
		tts.VoiceDouji,
		tts.VoiceLuodo,
	}
}
