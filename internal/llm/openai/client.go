package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"archive-backend/internal/llm"
	"archive-backend/internal/shared/telemetry"
)

// Config configures the OpenAI client.
type Config struct {
	APIKey      string
	Model       string
	VisionModel string
	BaseURL     string
	Timeout     time.Duration
	// Structured requests a JSON-schema constrained analysis reply.
	Structured bool
}

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	api         *openai.Client
	model       string
	visionModel string
	structured  bool
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = strings.TrimRight(base, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	vision := strings.TrimSpace(cfg.VisionModel)
	if vision == "" {
		vision = cfg.Model
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		visionModel: vision,
		structured:  cfg.Structured,
	}, nil
}

// StructuredReplies reports whether Analyze asks for a JSON reply.
func (c *Client) StructuredReplies() bool { return c.structured }

// ReadImage transcribes an image with the vision model.
func (c *Client) ReadImage(ctx context.Context, img llm.Image) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("empty image")
	}
	dataURL := "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	req := openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.AssistantSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: llm.OCRInstruction()},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	}
	return c.complete(ctx, req, "ocr")
}

// Analyze runs the classification prompt.
func (c *Client) Analyze(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llm.AnalysisSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if c.structured {
		req.Messages[1].Content = prompt + "\n\n" + llm.AnalysisJSONInstruction()
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "document_analysis",
				Schema: analysisSchema(),
				Strict: true,
			},
		}
	}
	return c.complete(ctx, req, "analysis")
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest, purpose string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", purpose, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai %s: response missing choices", purpose)
	}
	telemetry.Info("llm.response", map[string]any{
		"provider":          "openai",
		"purpose":           purpose,
		"model":             resp.Model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	})
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai %s: empty content", purpose)
	}
	return content, nil
}

func analysisSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"category": {Type: jsonschema.String, Enum: llm.CategoryLabels()},
			"summary":  {Type: jsonschema.String},
			"keywords": {Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}},
		},
		Required:             []string{"category", "summary", "keywords"},
		AdditionalProperties: false,
	}
}

var (
	_ llm.Client            = (*Client)(nil)
	_ llm.StructuredReplier = (*Client)(nil)
)
