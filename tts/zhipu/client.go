// Package zhipu implements the segmentation and speech synthesis
// providers against the Zhipu open platform: GLM chat completions for
// semantic splitting and CogTTS for synthesis.
package zhipu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgnsrekt/text2audio/tts"
)

// API endpoints.
const (
	// DefaultBaseURL is the standard Zhipu open platform endpoint.
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"

	// CodingPlanBaseURL is the coding-plan endpoint, billed against a
	// coding plan subscription instead of pay-as-you-go credit.
	CodingPlanBaseURL = "https://open.bigmodel.cn/api/coding/paas/v4"

	// SpeechModel is the CogTTS model identifier.
	SpeechModel = "cogtts"
)

// Config holds Zhipu client configuration.
type Config struct {
	APIKey  string
	BaseURL string // default: DefaultBaseURL, overridden by CodingPlan

	// Model is the chat model used for splitting.
	Model tts.Model

	// Thinking enables the model's thinking mode for splitting, which
	// can improve semantic coherence at the cost of latency.
	Thinking bool

	// CodingPlan routes chat requests through the coding-plan endpoint.
	CodingPlan bool

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the Zhipu API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client with defaults applied.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
		if cfg.CodingPlan {
			cfg.BaseURL = CodingPlanBaseURL
		}
	}
	if cfg.Model == "" {
		cfg.Model = tts.ModelGLM45Flash
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Thinking *thinking     `json:"thinking,omitempty"`
}

type thinking struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a system+user prompt pair and returns the
// model's reply text.
func (c *Client) ChatCompletion(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model: c.cfg.Model.String(),
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if c.cfg.Thinking {
		req.Thinking = &thinking{Type: "enabled"}
	}

	body, err := c.post(ctx, "/chat/completions", req)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat response has no content")
	}
	return resp.Choices[0].Message.Content, nil
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed"`
	Volume         float64 `json:"volume"`
	ResponseFormat string  `json:"response_format"`
}

// Speech synthesizes text with CogTTS and returns the WAV payload.
func (c *Client) Speech(ctx context.Context, text string, params tts.VoiceParams) ([]byte, error) {
	req := speechRequest{
		Model:          SpeechModel,
		Input:          text,
		Voice:          params.Voice.String(),
		Speed:          params.Speed,
		Volume:         params.Volume,
		ResponseFormat: "wav",
	}

	wav, err := c.post(ctx, "/audio/speech", req)
	if err != nil {
		return nil, err
	}
	if len(wav) == 0 {
		return nil, fmt.Errorf("received empty audio data")
	}
	return wav, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, string(body))
	}
	return body, nil
}
