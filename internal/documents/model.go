package documents

import "time"

// Document is an archived file with uploader metadata and AI-derived fields.
type Document struct {
	ID          string
	Title       string
	Description string
	FileType    string
	FileData    string
	Category    string
	OwnerName   string
	LandType    string
	Location    string
	Notes       string

	ExtractedText string
	Summary       string
	AutoCategory  string
	Keywords      []string

	UploadedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// clone returns a copy that shares no slices with d.
func (d Document) clone() Document {
	out := d
	out.Keywords = append([]string{}, d.Keywords...)
	return out
}

// withoutPayload drops the base64 file body for list and search results.
func (d Document) withoutPayload() Document {
	out := d.clone()
	out.FileData = ""
	return out
}

// Filter narrows List results with exact matches; empty fields are ignored.
type Filter struct {
	Category string
	LandType string
}

// SearchQuery is a free-text search with optional exact filters and a
// created_at window. From is inclusive and To is exclusive.
type SearchQuery struct {
	Text     string
	Category string
	LandType string
	From     *time.Time
	To       *time.Time
}

// Patch holds the uploader metadata an update may change. Nil fields are left as is.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	OwnerName   *string
	LandType    *string
	Location    *string
	Notes       *string
}

func (p Patch) apply(d *Document) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Title, p.Title)
	set(&d.Description, p.Description)
	set(&d.Category, p.Category)
	set(&d.OwnerName, p.OwnerName)
	set(&d.LandType, p.LandType)
	set(&d.Location, p.Location)
	set(&d.Notes, p.Notes)
}
