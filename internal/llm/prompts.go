package llm

import (
	_ "embed"
	"strings"
)

// PromptTextLimit caps how much extracted text is embedded in the analysis prompt.
const PromptTextLimit = 2000

var (
	//go:embed prompts/assistant_system.txt
	assistantSystem string
	//go:embed prompts/ocr.txt
	ocrInstruction string
	//go:embed prompts/analysis_system.txt
	analysisSystem string
	//go:embed prompts/analysis.txt
	analysisTemplate string
	//go:embed prompts/analysis_json.txt
	analysisJSONSuffix string
)

// AssistantSystemPrompt is the system message for image transcription.
func AssistantSystemPrompt() string { return strings.TrimSpace(assistantSystem) }

// OCRInstruction is the user instruction sent alongside an image.
func OCRInstruction() string { return strings.TrimSpace(ocrInstruction) }

// AnalysisSystemPrompt is the system message for classification.
func AnalysisSystemPrompt() string { return strings.TrimSpace(analysisSystem) }

// AnalysisJSONInstruction is appended to the analysis prompt when a JSON reply is requested.
func AnalysisJSONInstruction() string { return strings.TrimSpace(analysisJSONSuffix) }

// AnalysisPrompt renders the classification prompt for a document title and
// its extracted text. Only the first PromptTextLimit characters of text are used.
func AnalysisPrompt(title, text string) string {
	r := strings.NewReplacer(
		"{{title}}", title,
		"{{text}}", Truncate(text, PromptTextLimit),
		"{{categories}}", strings.Join(CategoryLabels(), "، "),
	)
	return strings.TrimSpace(r.Replace(analysisTemplate))
}

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
