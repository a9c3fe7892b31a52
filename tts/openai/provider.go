// Package openai implements the segmentation and speech synthesis
// providers on top of the OpenAI API via the go-openai SDK. Any
// OpenAI-compatible endpoint works through the BaseURL override.
package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/dgnsrekt/text2audio/tts"
	"github.com/dgnsrekt/text2audio/tts/audio"
)

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey  string
	BaseURL string // optional OpenAI-compatible endpoint

	// SplitModel is the chat model used for splitting.
	// Defaults to gpt-4o-mini.
	SplitModel string

	// SpeechModel is the TTS model. Defaults to tts-1.
	SpeechModel string
}

// Provider implements tts.Segmenter and tts.Synthesizer.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

// New creates a Provider with defaults applied.
func New(cfg Config) *Provider {
	if cfg.SplitModel == "" {
		cfg.SplitModel = goopenai.GPT4oMini
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = string(goopenai.TTSModel1)
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}
}

// Split implements tts.Segmenter via a chat completion.
func (p *Provider) Split(ctx context.Context, text string, maxLen int) ([]tts.Span, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.SplitModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: tts.SplitSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: tts.BuildSplitPrompt(text, maxLen)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("split request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("split response has no choices")
	}

	pieces := tts.ParseSplitReply(resp.Choices[0].Message.Content)
	log.Debug("split reply parsed", "model", p.cfg.SplitModel, "pieces", len(pieces))

	spans, err := tts.SpansForPieces(text, pieces)
	if err != nil {
		return nil, fmt.Errorf("split reply violates contract: %w", err)
	}
	return spans, nil
}

// Synthesize implements tts.Synthesizer. The speech endpoint has no
// volume parameter, so volume is applied locally as PCM gain.
func (p *Provider) Synthesize(ctx context.Context, text string, params tts.VoiceParams) (*audio.Buffer, error) {
	resp, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(p.cfg.SpeechModel),
		Input:          text,
		Voice:          goopenai.SpeechVoice(params.Voice),
		ResponseFormat: goopenai.SpeechResponseFormatWav,
		Speed:          params.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Close()

	wav, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}

	buf, err := audio.Decode(wav)
	if err != nil {
		return nil, fmt.Errorf("decode synthesis result: %w", err)
	}

	if params.Volume != 1.0 {
		buf, err = audio.Gain(buf, params.Volume)
		if err != nil {
			return nil, fmt.Errorf("apply volume: %w", err)
		}
	}
	return buf, nil
}

// Voices returns the closed set of OpenAI speech voices.
func (p *Provider) Voices() []tts.Voice {
	return []tts.Voice{
		tts.Voice(goopenai.VoiceAlloy),
		tts.Voice(goopenai.VoiceEcho),
		tts.Voice(goopenai.VoiceFable),
		tts.Voice(goopenai.VoiceOnyx),
		tts.Voice(goopenai.VoiceNova),
		tts.Voice(goopenai.VoiceShimmer),
	}
}
