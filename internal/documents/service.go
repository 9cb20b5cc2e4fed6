package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"archive-backend/internal/enrich"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
	SearchLimit      = 100
)

// Enricher derives the AI fields of a document. It must not fail.
type Enricher interface {
	Enrich(ctx context.Context, payload, fileType, title string) enrich.Result
}

// Service contains business logic for documents.
type Service struct {
	Repo     Repo
	Enricher Enricher
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, enricher Enricher) *Service {
	return &Service{Repo: repo, Enricher: enricher, Now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput is the uploader-supplied part of a document.
type CreateInput struct {
	Title       string
	Description string
	FileType    string
	FileData    string
	Category    string
	OwnerName   string
	LandType    string
	Location    string
	Notes       string
	UploadedBy  string
}

// Create enriches the payload and stores the document. Enrichment runs
// detached from ctx cancellation so a client disconnect does not abort an
// in-flight model call.
func (s *Service) Create(ctx context.Context, in CreateInput) (Document, error) {
	switch in.FileType {
	case enrich.FileTypeImage, enrich.FileTypePDF, enrich.FileTypeWord:
	default:
		return Document{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidInput, in.FileType)
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.FileData) == "" {
		return Document{}, fmt.Errorf("%w: title and file_data are required", ErrInvalidInput)
	}

	res := s.Enricher.Enrich(context.WithoutCancel(ctx), in.FileData, in.FileType, in.Title)
	if res.AutoCategory == "" {
		res.AutoCategory = enrich.Skipped().AutoCategory
	}
	if res.Keywords == nil {
		res.Keywords = []string{}
	}

	now := s.now()
	doc := Document{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		FileType:      in.FileType,
		FileData:      in.FileData,
		Category:      in.Category,
		OwnerName:     in.OwnerName,
		LandType:      in.LandType,
		Location:      in.Location,
		Notes:         in.Notes,
		ExtractedText: res.ExtractedText,
		Summary:       res.Summary,
		AutoCategory:  res.AutoCategory,
		Keywords:      res.Keywords,
		UploadedBy:    in.UploadedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.Insert(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a document with its payload.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if !validID(id) {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns documents newest first. A non-positive limit uses the default.
func (s *Service) List(ctx context.Context, f Filter, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.Repo.List(ctx, f, limit)
}

// Update changes uploader metadata only.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Document, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Document{}, fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
	}
	if !validID(id) {
		return Document{}, ErrNotFound
	}
	return s.Repo.Update(ctx, id, p, s.now())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, id)
}

// Search returns at most SearchLimit matches, newest first.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]Document, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return nil, fmt.Errorf("%w: date_from must be before date_to", ErrInvalidInput)
	}
	return s.Repo.Search(ctx, q, SearchLimit)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// validID reports whether id can name a stored document. Ids are UUIDs, and
// the Postgres column rejects anything else with a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}
