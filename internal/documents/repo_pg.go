package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const summaryColumns = `id, title, description, file_type, category, owner_name, land_type, location, notes,
extracted_text, summary, auto_category, keywords, uploaded_by, created_at, updated_at`

// Insert adds a new document.
func (r *PGRepo) Insert(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    title,
    description,
    file_type,
    file_data,
    category,
    owner_name,
    land_type,
    location,
    notes,
    extracted_text,
    summary,
    auto_category,
    keywords,
    uploaded_by,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	keywords := doc.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.Title,
		nullableString(doc.Description),
		doc.FileType,
		doc.FileData,
		doc.Category,
		nullableString(doc.OwnerName),
		nullableString(doc.LandType),
		nullableString(doc.Location),
		nullableString(doc.Notes),
		doc.ExtractedText,
		doc.Summary,
		doc.AutoCategory,
		keywords,
		doc.UploadedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID returns a document including its payload.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + summaryColumns + `, file_data FROM documents WHERE id = $1`
	m := pgtype.NewMap()
	row := r.DB.QueryRowContext(ctx, query, id)
	var payload string
	doc, err := scanDocument(row, m, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	doc.FileData = payload
	return doc, nil
}

// List returns documents newest first, filtered by exact category and land type.
func (r *PGRepo) List(ctx context.Context, f Filter, limit int) ([]Document, error) {
	var w where
	w.eq("category", f.Category)
	w.eq("land_type", f.LandType)
	return r.query(ctx, w, limit)
}

// Update applies a metadata patch and returns the stored document.
func (r *PGRepo) Update(ctx context.Context, id string, p Patch, updatedAt time.Time) (Document, error) {
	sets := []string{"updated_at = $1"}
	args := []any{updatedAt}
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("title", p.Title)
	add("description", p.Description)
	add("category", p.Category)
	add("owner_name", p.OwnerName)
	add("land_type", p.LandType)
	add("location", p.Location)
	add("notes", p.Notes)
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE documents SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	if n == 0 {
		return Document{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a document permanently.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches the text literally and case-insensitively against the
// descriptive fields and keywords, intersected with the exact filters.
func (r *PGRepo) Search(ctx context.Context, q SearchQuery, limit int) ([]Document, error) {
	var w where
	w.eq("category", q.Category)
	w.eq("land_type", q.LandType)
	if q.From != nil {
		w.add("created_at >= $%d", *q.From)
	}
	if q.To != nil {
		w.add("created_at < $%d", *q.To)
	}
	if q.Text != "" {
		w.add(`(title ILIKE $%[1]d OR description ILIKE $%[1]d OR extracted_text ILIKE $%[1]d
  OR owner_name ILIKE $%[1]d OR location ILIKE $%[1]d
  OR EXISTS (SELECT 1 FROM unnest(keywords) AS k WHERE k ILIKE $%[1]d))`, "%"+escapeLike(q.Text)+"%")
	}
	return r.query(ctx, w, limit)
}

// Recent returns the newest documents.
func (r *PGRepo) Recent(ctx context.Context, limit int) ([]Document, error) {
	return r.query(ctx, where{}, limit)
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (r *PGRepo) CountByAutoCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT auto_category, COUNT(*) FROM documents GROUP BY auto_category`)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("count by category: %w", err)
		}
		out[category] = n
	}
	return out, rows.Err()
}

func (r *PGRepo) query(ctx context.Context, w where, limit int) ([]Document, error) {
	query := `SELECT ` + summaryColumns + ` FROM documents` + w.sql() + ` ORDER BY created_at DESC`
	args := w.args
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows, m)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads summaryColumns followed by any extra destinations.
func scanDocument(s scanner, m *pgtype.Map, extra ...any) (Document, error) {
	var doc Document
	var description, ownerName, landType, location, notes sql.NullString
	dest := []any{
		&doc.ID,
		&doc.Title,
		&description,
		&doc.FileType,
		&doc.Category,
		&ownerName,
		&landType,
		&location,
		&notes,
		&doc.ExtractedText,
		&doc.Summary,
		&doc.AutoCategory,
		m.SQLScanner(&doc.Keywords),
		&doc.UploadedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return Document{}, err
	}
	doc.Description = description.String
	doc.OwnerName = ownerName.String
	doc.LandType = landType.String
	doc.Location = location.String
	doc.Notes = notes.String
	if doc.Keywords == nil {
		doc.Keywords = []string{}
	}
	return doc, nil
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.args)))
}

func (w *where) eq(column, value string) {
	if value == "" {
		return
	}
	w.add(column+" = $%d", value)
}

func (w where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// escapeLike makes user text match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
