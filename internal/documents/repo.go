package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents. List, Search and
// Recent never populate FileData.
type Repo interface {
	Insert(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, f Filter, limit int) ([]Document, error)
	Update(ctx context.Context, id string, p Patch, updatedAt time.Time) (Document, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q SearchQuery, limit int) ([]Document, error)
	Recent(ctx context.Context, limit int) ([]Document, error)
	Count(ctx context.Context) (int, error)
	CountByAutoCategory(ctx context.Context) (map[string]int, error)
}
