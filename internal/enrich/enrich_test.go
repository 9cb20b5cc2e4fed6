package enrich

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"archive-backend/internal/llm"
)

type fakeLLM struct {
	ocrText     string
	ocrErr      error
	reply       string
	analyzeErr  error
	panicOnCall bool

	ocrCalls     int
	analyzeCalls int
	lastPrompt   string
	lastImage    llm.Image
}

func (f *fakeLLM) ReadImage(ctx context.Context, img llm.Image) (string, error) {
	f.ocrCalls++
	f.lastImage = img
	return f.ocrText, f.ocrErr
}

func (f *fakeLLM) Analyze(ctx context.Context, prompt string) (string, error) {
	f.analyzeCalls++
	f.lastPrompt = prompt
	if f.panicOnCall {
		panic("sdk exploded")
	}
	return f.reply, f.analyzeErr
}

func docxPayload(t *testing.T, paragraphs ...string) string {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	body.WriteString("</w:body></w:document>")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

const labeledReply = "التصنيف: عقد إيجار\nالملخص: عقد إيجار أرض زراعية لمدة خمس سنوات.\nالكلمات المفتاحية: عقد، إيجار، أرض"

func TestEnrichWordDocument(t *testing.T) {
	fake := &fakeLLM{reply: labeledReply}
	p := New(fake)

	got := p.Enrich(context.Background(), docxPayload(t, "عقد إيجار أرض زراعية", "المؤجر: وزارة الزراعة"), FileTypeWord, "عقد 2024")

	want := Result{
		ExtractedText: "عقد إيجار أرض زراعية\nالمؤجر: وزارة الزراعة",
		Summary:       "عقد إيجار أرض زراعية لمدة خمس سنوات.",
		AutoCategory:  llm.CategoryLeaseContract,
		Keywords:      []string{"عقد", "إيجار", "أرض"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Enrich() = %+v, want %+v", got, want)
	}
	if fake.ocrCalls != 0 {
		t.Fatalf("expected no vision call for word documents")
	}
	if !strings.Contains(fake.lastPrompt, "عقد 2024") {
		t.Fatalf("expected title in prompt")
	}
}

func TestEnrichInvalidPDFIsUnclassified(t *testing.T) {
	fake := &fakeLLM{reply: labeledReply}
	p := New(fake)

	got := p.Enrich(context.Background(), base64.StdEncoding.EncodeToString([]byte("not a pdf")), FileTypePDF, "t")
	if !reflect.DeepEqual(got, Skipped()) {
		t.Fatalf("expected skipped result, got %+v", got)
	}
	if fake.analyzeCalls != 0 {
		t.Fatalf("expected no classification call, got %d", fake.analyzeCalls)
	}
}

func TestEnrichInvalidWordIsUnclassified(t *testing.T) {
	fake := &fakeLLM{reply: labeledReply}
	got := New(fake).Enrich(context.Background(), "!!!", FileTypeWord, "t")
	if got.AutoCategory != llm.Unclassified {
		t.Fatalf("expected unclassified, got %q", got.AutoCategory)
	}
	if got.ExtractedText != "" || got.Summary != "" || len(got.Keywords) != 0 {
		t.Fatalf("expected empty fields, got %+v", got)
	}
}

func TestEnrichShortImageTextSkipsClassification(t *testing.T) {
	fake := &fakeLLM{ocrText: "  ختم  "}
	got := New(fake).Enrich(context.Background(), base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nrest")), FileTypeImage, "صورة")

	if !reflect.DeepEqual(got, Skipped()) {
		t.Fatalf("expected skipped result, got %+v", got)
	}
	if fake.ocrCalls != 1 || fake.analyzeCalls != 0 {
		t.Fatalf("expected 1 vision call and no analysis, got %d/%d", fake.ocrCalls, fake.analyzeCalls)
	}
	if fake.lastImage.MimeType != "image/png" {
		t.Fatalf("expected png mime, got %q", fake.lastImage.MimeType)
	}
}

func TestEnrichTruncatesStoredText(t *testing.T) {
	long := strings.Repeat("أ", MaxStoredText+1234)
	fake := &fakeLLM{ocrText: long, reply: labeledReply}

	got := New(fake).Enrich(context.Background(), base64.StdEncoding.EncodeToString([]byte("img")), FileTypeImage, "t")
	if n := utf8.RuneCountInString(got.ExtractedText); n != MaxStoredText {
		t.Fatalf("expected %d stored characters, got %d", MaxStoredText, n)
	}
	if strings.Contains(fake.lastPrompt, strings.Repeat("أ", llm.PromptTextLimit+1)) {
		t.Fatalf("prompt should embed at most %d characters", llm.PromptTextLimit)
	}
}

func TestEnrichModelErrorDegrades(t *testing.T) {
	cases := map[string]*fakeLLM{
		"ocr error":      {ocrErr: errors.New("vision down")},
		"analysis error": {ocrText: "نص طويل بما يكفي للتحليل", analyzeErr: errors.New("timeout")},
		"panic":          {ocrText: "نص طويل بما يكفي للتحليل", panicOnCall: true},
	}
	for name, fake := range cases {
		t.Run(name, func(t *testing.T) {
			got := New(fake).Enrich(context.Background(), base64.StdEncoding.EncodeToString([]byte("img")), FileTypeImage, "t")
			if !reflect.DeepEqual(got, Failed()) {
				t.Fatalf("expected failed result, got %+v", got)
			}
		})
	}
}

func TestEnrichUnconfiguredClientDegrades(t *testing.T) {
	got := New(llm.UnconfiguredClient{}).Enrich(context.Background(), docxPayload(t, "نص طويل بما يكفي للتحليل"), FileTypeWord, "t")
	if got.AutoCategory != llm.ClassificationError {
		t.Fatalf("expected classification-error, got %q", got.AutoCategory)
	}
}

func TestEnrichUnknownFileTypeIsUnclassified(t *testing.T) {
	fake := &fakeLLM{reply: labeledReply}
	got := New(fake).Enrich(context.Background(), "aGVsbG8=", "spreadsheet", "t")
	if got.AutoCategory != llm.Unclassified {
		t.Fatalf("expected unclassified, got %q", got.AutoCategory)
	}
}

func TestEnrichReplyWithoutLabelsDefaultsToOther(t *testing.T) {
	fake := &fakeLLM{reply: "لا يمكن تحديد التصنيف"}
	got := New(fake).Enrich(context.Background(), docxPayload(t, "وثيقة طويلة بما يكفي"), FileTypeWord, "t")
	if got.AutoCategory != llm.CategoryOther || got.Summary != "" || len(got.Keywords) != 0 {
		t.Fatalf("expected defaults, got %+v", got)
	}
	if got.ExtractedText == "" {
		t.Fatalf("expected extracted text kept")
	}
}
