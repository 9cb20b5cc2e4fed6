package llm

import (
	"context"
	"errors"
)

// Client abstracts the model provider used to read and analyze documents.
type Client interface {
	// ReadImage transcribes the text visible in an image.
	ReadImage(ctx context.Context, img Image) (string, error)
	// Analyze sends an analysis prompt and returns the raw model reply.
	Analyze(ctx context.Context, prompt string) (string, error)
}

// Image is a decoded image payload.
type Image struct {
	MimeType string
	Data     []byte
}

// StructuredReplier is implemented by clients that request a JSON reply
// matching the analysis schema.
type StructuredReplier interface {
	StructuredReplies() bool
}

// ErrNotConfigured is returned by UnconfiguredClient.
var ErrNotConfigured = errors.New("llm provider not configured")

// UnconfiguredClient stands in when no API key is set. Every call fails, so
// enrichment degrades instead of blocking uploads.
type UnconfiguredClient struct {
	Provider string
}

// ReadImage returns ErrNotConfigured.
func (UnconfiguredClient) ReadImage(ctx context.Context, img Image) (string, error) {
	return "", ErrNotConfigured
}

// Analyze returns ErrNotConfigured.
func (UnconfiguredClient) Analyze(ctx context.Context, prompt string) (string, error) {
	return "", ErrNotConfigured
}
