package anthropic

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"archive-backend/internal/llm"
	"archive-backend/internal/shared/telemetry"
)

const defaultMaxTokens = 4096

// Config configures the Anthropic client.
type Config struct {
	APIKey      string
	Model       string
	VisionModel string
	BaseURL     string
	Timeout     time.Duration
}

// Client implements llm.Client using the Anthropic Messages API.
// Replies use the labeled-line format; there is no schema-constrained mode.
type Client struct {
	api         anthropic.Client
	model       string
	visionModel string
}

// NewClient constructs a new Anthropic client. Retries are disabled.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	vision := strings.TrimSpace(cfg.VisionModel)
	if vision == "" {
		vision = cfg.Model
	}
	return &Client{
		api:         anthropic.NewClient(opts...),
		model:       cfg.Model,
		visionModel: vision,
	}, nil
}

// ReadImage transcribes an image with the vision model.
func (c *Client) ReadImage(ctx context.Context, img llm.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("empty image")
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.visionModel),
		MaxTokens: defaultMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: llm.AssistantSystemPrompt()}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(img.MimeType, base64.StdEncoding.EncodeToString(img.Data)),
				anthropic.NewTextBlock(llm.OCRInstruction()),
			),
		},
	}
	return c.send(ctx, params, "ocr")
}

// Analyze runs the classification prompt.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: llm.AnalysisSystemPrompt()}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	return c.send(ctx, params, "analysis")
}

func (c *Client) send(ctx context.Context, params anthropic.MessageNewParams, purpose string) (string, error) {
	resp, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic %s: %w", purpose, err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	telemetry.Info("llm.response", map[string]any{
		"provider":      "anthropic",
		"purpose":       purpose,
		"model":         string(resp.Model),
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
	})
	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", fmt.Errorf("anthropic %s: empty content", purpose)
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
