package domain

import "context"

// CatalogType is the content namespace a catalog and its items live in.
type CatalogType string

const (
	CatalogTypeMovie  CatalogType = "movie"
	CatalogTypeSeries CatalogType = "series"
)

// Valid reports whether t is one of the known catalog types.
func (t CatalogType) Valid() bool {
	return t == CatalogTypeMovie || t == CatalogTypeSeries
}

// CatalogItem is the uniform entity served to clients, whatever its source.
// Poster and Year are pointers so that absent values render as JSON null.
type CatalogItem struct {
	ID          string      `json:"id" yaml:"id"`
	Type        CatalogType `json:"type" yaml:"type"`
	Name        string      `json:"name" yaml:"name"`
	Year        *int        `json:"year" yaml:"year"`
	Poster      *string     `json:"poster" yaml:"poster"`
	Genres      []string    `json:"genres" yaml:"genres"`
	Description string      `json:"description" yaml:"description"`
}

// CatalogDescriptor identifies a catalog and its query capabilities.
type CatalogDescriptor struct {
	Type           CatalogType
	ID             string
	DisplayName    string
	SupportsPaging bool
	PageSize       int
}

// CatalogPage is the body of a catalog response.
// HasMore is only set for catalogs that support paging.
type CatalogPage struct {
	Metas   []CatalogItem `json:"metas"`
	HasMore *bool         `json:"hasMore,omitempty"`
}

// EmptyPage is returned for unknown catalogs.
func EmptyPage() CatalogPage {
	return CatalogPage{Metas: []CatalogItem{}}
}

// CatalogSource produces the ordered items of one catalog.
type CatalogSource interface {
	Items(ctx context.Context) ([]CatalogItem, error)
}
