// Package stats aggregates archive totals for the dashboard.
package stats

import (
	"context"
	"fmt"
	"time"

	"archive-backend/internal/documents"
)

// RecentLimit is the number of newest documents included in a summary.
const RecentLimit = 5

// DocumentCounter is the subset of documents.Repo used for statistics.
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
	CountByAutoCategory(ctx context.Context) (map[string]int, error)
	Recent(ctx context.Context, limit int) ([]documents.Document, error)
}

// UserCounter reports the number of registered users.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type RecentDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the statistics payload.
type Summary struct {
	TotalDocuments  int              `json:"total_documents"`
	TotalUsers      int              `json:"total_users"`
	ByCategory      map[string]int   `json:"by_category"`
	RecentDocuments []RecentDocument `json:"recent_documents"`
}

type Service struct {
	Documents DocumentCounter
	Users     UserCounter
}

func NewService(docs DocumentCounter, users UserCounter) *Service {
	return &Service{Documents: docs, Users: users}
}

// Summary collects totals, the per auto_category breakdown and the newest documents.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	totalDocs, err := s.Documents.Count(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count documents: %w", err)
	}
	totalUsers, err := s.Users.Count(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count users: %w", err)
	}
	byCategory, err := s.Documents.CountByAutoCategory(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count by category: %w", err)
	}
	if byCategory == nil {
		byCategory = map[string]int{}
	}
	recent, err := s.Documents.Recent(ctx, RecentLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("recent documents: %w", err)
	}

	out := Summary{
		TotalDocuments:  totalDocs,
		TotalUsers:      totalUsers,
		ByCategory:      byCategory,
		RecentDocuments: make([]RecentDocument, 0, len(recent)),
	}
	for _, d := range recent {
		out.RecentDocuments = append(out.RecentDocuments, RecentDocument{ID: d.ID, Title: d.Title, CreatedAt: d.CreatedAt})
	}
	return out, nil
}
