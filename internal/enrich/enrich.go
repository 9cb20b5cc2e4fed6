// Package enrich derives searchable text, a summary, an auto category and
// keywords for an uploaded document.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"archive-backend/internal/extract"
	"archive-backend/internal/llm"
	"archive-backend/internal/shared/metrics"
	"archive-backend/internal/shared/telemetry"
)

const (
	// MinTextLength is the shortest extracted text worth classifying.
	MinTextLength = 10
	// MaxStoredText caps the extracted text kept on a document.
	MaxStoredText = 5000
)

// File types accepted on upload.
const (
	FileTypeImage = "image"
	FileTypePDF   = "pdf"
	FileTypeWord  = "word"
)

// Result is the AI-derived part of a document.
type Result struct {
	ExtractedText string
	Summary       string
	AutoCategory  string
	Keywords      []string
}

// Skipped is returned when there is too little text to classify.
func Skipped() Result {
	return Result{AutoCategory: llm.Unclassified, Keywords: []string{}}
}

// Failed is returned when any enrichment step errors.
func Failed() Result {
	return Result{AutoCategory: llm.ClassificationError, Keywords: []string{}}
}

// Pipeline runs text extraction followed by model classification.
type Pipeline struct {
	LLM llm.Client
}

// New returns a pipeline backed by client.
func New(client llm.Client) *Pipeline {
	return &Pipeline{LLM: client}
}

// Enrich never returns an error: failures degrade to Failed().
func (p *Pipeline) Enrich(ctx context.Context, payload, fileType, title string) (res Result) {
	start := time.Now()
	metrics.IncEnrichStarted()
	defer func() {
		if rec := recover(); rec != nil {
			p.logFailure(fileType, fmt.Errorf("panic: %v", rec))
			res = Failed()
		}
		metrics.ObserveEnrichDurationMs(float64(time.Since(start).Milliseconds()))
	}()

	text, err := p.extractText(ctx, payload, fileType)
	if err != nil {
		p.logFailure(fileType, err)
		return Failed()
	}

	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		metrics.IncEnrichSkipped()
		telemetry.Info("enrich.skipped", map[string]any{
			"file_type":  fileType,
			"text_chars": utf8.RuneCountInString(text),
		})
		return Skipped()
	}

	reply, err := p.call(func() (string, error) {
		return p.LLM.Analyze(ctx, llm.AnalysisPrompt(title, text))
	})
	if err != nil {
		p.logFailure(fileType, err)
		return Failed()
	}

	analysis := llm.ParseAnalysis(reply)
	if s, ok := p.LLM.(llm.StructuredReplier); ok && s.StructuredReplies() && !strings.HasPrefix(strings.TrimSpace(reply), "{") {
		telemetry.Warn("enrich.structured_fallback", map[string]any{"file_type": fileType})
	}
	metrics.IncEnrichClassified()

	return Result{
		ExtractedText: llm.Truncate(text, MaxStoredText),
		Summary:       analysis.Summary,
		AutoCategory:  analysis.Category,
		Keywords:      analysis.Keywords,
	}
}

func (p *Pipeline) extractText(ctx context.Context, payload, fileType string) (string, error) {
	switch fileType {
	case FileTypeImage:
		mime, data, err := extract.Image(payload)
		if err != nil {
			return "", fmt.Errorf("decode image: %w", err)
		}
		return p.call(func() (string, error) {
			return p.LLM.ReadImage(ctx, llm.Image{MimeType: mime, Data: data})
		})
	case FileTypePDF:
		return extract.PDF(payload), nil
	case FileTypeWord:
		return extract.Word(payload), nil
	default:
		return "", nil
	}
}

func (p *Pipeline) call(fn func() (string, error)) (string, error) {
	if p.LLM == nil {
		return "", llm.ErrNotConfigured
	}
	start := time.Now()
	out, err := fn()
	metrics.ObserveLLMCall(float64(time.Since(start).Milliseconds()), err != nil)
	return out, err
}

func (p *Pipeline) logFailure(fileType string, err error) {
	metrics.IncEnrichFailed()
	telemetry.Error("enrich.failed", map[string]any{
		"file_type": fileType,
		"error":     err.Error(),
	})
}
