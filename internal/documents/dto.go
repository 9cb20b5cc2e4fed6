package documents

import (
	"fmt"
	"strings"
	"time"
)

type createRequest struct {
	Title       string `json:"title" binding:"required,max=500"`
	Description string `json:"description" binding:"max=5000"`
	FileType    string `json:"file_type" binding:"required,oneof=image pdf word"`
	FileData    string `json:"file_data" binding:"required"`
	Category    string `json:"category" binding:"max=200"`
	OwnerName   string `json:"owner_name" binding:"max=200"`
	LandType    string `json:"land_type" binding:"max=200"`
	Location    string `json:"location" binding:"max=500"`
	Notes       string `json:"notes" binding:"max=5000"`
	UploadedBy  string `json:"uploaded_by" binding:"required,max=200"`
}

func (r createRequest) toInput() CreateInput {
	return CreateInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		FileType:    r.FileType,
		FileData:    r.FileData,
		Category:    r.Category,
		OwnerName:   r.OwnerName,
		LandType:    r.LandType,
		Location:    r.Location,
		Notes:       r.Notes,
		UploadedBy:  r.UploadedBy,
	}
}

type updateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=500"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Category    *string `json:"category" binding:"omitempty,max=200"`
	OwnerName   *string `json:"owner_name" binding:"omitempty,max=200"`
	LandType    *string `json:"land_type" binding:"omitempty,max=200"`
	Location    *string `json:"location" binding:"omitempty,max=500"`
	Notes       *string `json:"notes" binding:"omitempty,max=5000"`
}

func (r updateRequest) toPatch() Patch {
	return Patch{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		OwnerName:   r.OwnerName,
		LandType:    r.LandType,
		Location:    r.Location,
		Notes:       r.Notes,
	}
}

// MaxSearchQueryLength bounds the free-text search term, in characters.
const MaxSearchQueryLength = 200

type searchRequest struct {
	// Query must be present; an empty string matches every document.
	Query    *string `json:"query" binding:"required,max=200"`
	Category string  `json:"category"`
	LandType string  `json:"land_type"`
	DateFrom string  `json:"date_from"`
	DateTo   string  `json:"date_to"`
}

func (r searchRequest) toQuery() (SearchQuery, error) {
	q := SearchQuery{Text: r.text(), Category: r.Category, LandType: r.LandType}
	if r.DateFrom != "" {
		t, _, err := parseDate(r.DateFrom)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: date_from: %v", ErrInvalidInput, err)
		}
		q.From = &t
	}
	if r.DateTo != "" {
		t, dateOnly, err := parseDate(r.DateTo)
		if err != nil {
			return SearchQuery{}, fmt.Errorf("%w: date_to: %v", ErrInvalidInput, err)
		}
		if dateOnly {
			// a bare date includes the whole day
			t = t.Add(24 * time.Hour)
		}
		q.To = &t
	}
	return q, nil
}

func (r searchRequest) text() string {
	if r.Query == nil {
		return ""
	}
	return *r.Query
}

// parseDate accepts RFC3339 timestamps or YYYY-MM-DD dates (UTC).
func parseDate(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	return t, true, nil
}

// DocumentResponse is the outward-facing representation of a document.
// FileData is only set on single-document responses.
type DocumentResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	FileType      string    `json:"file_type"`
	FileData      string    `json:"file_data,omitempty"`
	Category      string    `json:"category"`
	OwnerName     string    `json:"owner_name"`
	LandType      string    `json:"land_type"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
	ExtractedText string    `json:"extracted_text"`
	Summary       string    `json:"summary"`
	AutoCategory  string    `json:"auto_category"`
	Keywords      []string  `json:"keywords"`
	UploadedBy    string    `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(doc Document, withPayload bool) DocumentResponse {
	resp := DocumentResponse{
		ID:            doc.ID,
		Title:         doc.Title,
		Description:   doc.Description,
		FileType:      doc.FileType,
		Category:      doc.Category,
		OwnerName:     doc.OwnerName,
		LandType:      doc.LandType,
		Location:      doc.Location,
		Notes:         doc.Notes,
		ExtractedText: doc.ExtractedText,
		Summary:       doc.Summary,
		AutoCategory:  doc.AutoCategory,
		Keywords:      doc.Keywords,
		UploadedBy:    doc.UploadedBy,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	if withPayload {
		resp.FileData = doc.FileData
	}
	return resp
}

func toResponses(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d, false))
	}
	return out
}

// SearchResponse is the search result envelope.
type SearchResponse struct {
	Success bool               `json:"success"`
	Results []DocumentResponse `json:"results"`
	Count   int                `json:"count"`
}
