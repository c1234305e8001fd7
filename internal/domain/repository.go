package domain

import (
	"context"
)

// CatalogRepository defines the interface for exported catalog storage
type CatalogRepository interface {
	Store(ctx context.Context, path string, items []CatalogItem) error
}
