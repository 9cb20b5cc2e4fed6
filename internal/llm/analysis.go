package llm

import (
	"encoding/json"
	"strings"
)

// Reply labels the analysis prompt asks the model to use.
const (
	LabelCategory = "التصنيف:"
	LabelSummary  = "الملخص:"
	LabelKeywords = "الكلمات المفتاحية:"
)

// KeywordSeparator is the Arabic comma used between keywords.
const KeywordSeparator = "،"

var (
	categoryLabels = []string{LabelCategory, "Category:"}
	summaryLabels  = []string{LabelSummary, "Summary:"}
	keywordLabels  = []string{LabelKeywords, "Keywords:"}
)

// Analysis is the parsed classification reply.
type Analysis struct {
	Category string   `json:"category"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// ParseAnalysis decodes a model reply. A JSON object reply is used when it
// decodes and names a category; anything else is scanned line by line for
// the labeled fields.
func ParseAnalysis(reply string) Analysis {
	if a, ok := parseJSONAnalysis(reply); ok {
		return a
	}
	return parseLabeledAnalysis(reply)
}

func parseJSONAnalysis(reply string) (Analysis, bool) {
	raw := strings.TrimSpace(reply)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return Analysis{}, false
	}
	var a Analysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Analysis{}, false
	}
	if strings.TrimSpace(a.Category) == "" {
		return Analysis{}, false
	}
	a.Category = NormalizeCategory(a.Category)
	a.Summary = strings.TrimSpace(a.Summary)
	a.Keywords = cleanKeywords(a.Keywords)
	return a, true
}

func parseLabeledAnalysis(reply string) Analysis {
	a := Analysis{Category: CategoryOther, Keywords: []string{}}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if rest, ok := cutAnyPrefix(line, categoryLabels); ok {
			a.Category = NormalizeCategory(rest)
		} else if rest, ok := cutAnyPrefix(line, summaryLabels); ok {
			a.Summary = rest
		} else if rest, ok := cutAnyPrefix(line, keywordLabels); ok {
			a.Keywords = SplitKeywords(rest)
		}
	}
	return a
}

// SplitKeywords splits a keyword line on the Arabic comma, trimming each
// entry and dropping empty ones.
func SplitKeywords(line string) []string {
	line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "[]"))
	return cleanKeywords(strings.Split(line, KeywordSeparator))
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func cutAnyPrefix(line string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(line, p); ok {
			return strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), "*")), true
		}
	}
	return "", false
}
