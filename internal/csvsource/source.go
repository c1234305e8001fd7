package csvsource

import (
	"context"

	"github.com/varoOP/toplists/internal/domain"
)

// StaticSource serves a list loaded once at startup.
type StaticSource struct {
	items []domain.CatalogItem
}

var _ domain.CatalogSource = (*StaticSource)(nil)

func NewStaticSource(items []domain.CatalogItem) *StaticSource {
	return &StaticSource{items: items}
}

func (s *StaticSource) Items(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.items, nil
}

func (s *StaticSource) Len() int {
	return len(s.items)
}
