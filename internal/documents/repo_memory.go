package documents

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

func (r *MemoryRepo) Insert(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc.clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc.clone(), nil
}

func (r *MemoryRepo) List(ctx context.Context, f Filter, limit int) ([]Document, error) {
	return r.collect(ctx, limit, func(d Document) bool {
		return matchesExact(d, f.Category, f.LandType)
	})
}

func (r *MemoryRepo) Update(ctx context.Context, id string, p Patch, updatedAt time.Time) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	p.apply(&doc)
	doc.UpdatedAt = updatedAt
	r.data[id] = doc
	return doc.clone(), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) Search(ctx context.Context, q SearchQuery, limit int) ([]Document, error) {
	needle := strings.ToLower(q.Text)
	return r.collect(ctx, limit, func(d Document) bool {
		if !matchesExact(d, q.Category, q.LandType) {
			return false
		}
		if q.From != nil && d.CreatedAt.Before(*q.From) {
			return false
		}
		if q.To != nil && !d.CreatedAt.Before(*q.To) {
			return false
		}
		return matchesText(d, needle)
	})
}

func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Document, error) {
	return r.collect(ctx, limit, func(Document) bool { return true })
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data), nil
}

func (r *MemoryRepo) CountByAutoCategory(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, d := range r.data {
		out[d.AutoCategory]++
	}
	return out, nil
}

// collect returns matching documents newest first, without payloads.
func (r *MemoryRepo) collect(ctx context.Context, limit int, keep func(Document) bool) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	docs := make([]Document, 0, len(r.data))
	for _, d := range r.data {
		if keep(d) {
			docs = append(docs, d.withoutPayload())
		}
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func matchesExact(d Document, category, landType string) bool {
	if category != "" && d.Category != category {
		return false
	}
	if landType != "" && d.LandType != landType {
		return false
	}
	return true
}

func matchesText(d Document, needle string) bool {
	for _, field := range []string{d.Title, d.Description, d.ExtractedText, d.OwnerName, d.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, k := range d.Keywords {
		if strings.Contains(strings.ToLower(k), needle) {
			return true
		}
	}
	return false
}

var _ Repo = (*MemoryRepo)(nil)
