package llm

import "strings"

// Auto-category keys stored on documents.
const (
	CategoryTitleDeed       = "title-deed"
	CategoryLeaseContract   = "lease-contract"
	CategorySurveyMap       = "survey-map"
	CategoryTechnicalReport = "technical-report"
	CategoryServiceRequest  = "service-request"
	CategoryCertificate     = "certificate"
	CategoryOther           = "other"

	// Unclassified marks documents whose text was too short to analyze.
	Unclassified = "unclassified"
	// ClassificationError marks documents whose enrichment failed.
	ClassificationError = "classification-error"
)

type category struct {
	key     string
	label   string
	aliases []string
}

// categories is ordered as presented to the model.
var categories = []category{
	{CategoryTitleDeed, "سند ملكية", []string{"title deed", "deed"}},
	{CategoryLeaseContract, "عقد إيجار", []string{"عقد ايجار", "lease contract", "lease"}},
	{CategorySurveyMap, "خريطة مساحية", []string{"survey map", "map"}},
	{CategoryTechnicalReport, "تقرير فني", []string{"technical report", "report"}},
	{CategoryServiceRequest, "طلب خدمة", []string{"service request"}},
	{CategoryCertificate, "شهادة", []string{"certificate"}},
	{CategoryOther, "أخرى", []string{"اخرى", "other"}},
}

// CategoryKeys lists the closed set of auto-category keys.
func CategoryKeys() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.key
	}
	return out
}

// CategoryLabels lists the Arabic category names shown to the model.
func CategoryLabels() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.label
	}
	return out
}

// NormalizeCategory maps a model-supplied category name to its key.
// Unknown non-empty values are returned trimmed; empty values become "other".
func NormalizeCategory(raw string) string {
	clean := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "[]().\"'"))
	if clean == "" {
		return CategoryOther
	}
	folded := strings.ToLower(clean)
	for _, c := range categories {
		if folded == c.key || clean == c.label {
			return c.key
		}
		for _, alias := range c.aliases {
			if folded == alias {
				return c.key
			}
		}
	}
	return clean
}
