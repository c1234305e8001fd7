package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/toplists/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileRepository writes normalized catalogs to JSON or YAML files
type FileRepository struct {
	log zerolog.Logger
}

// NewFileRepository creates a new file-based repository
func NewFileRepository(log zerolog.Logger) *FileRepository {
	return &FileRepository{
		log: log.With().Str("module", "repository").Logger(),
	}
}

var _ domain.CatalogRepository = (*FileRepository)(nil)

// Store saves catalog items to path. The extension picks the format:
// .yaml/.yml for YAML, anything else for indented JSON.
func (r *FileRepository) Store(ctx context.Context, path string, items []domain.CatalogItem) error {
	if items == nil {
		items = []domain.CatalogItem{}
	}

	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(items)
	default:
		b, err = json.MarshalIndent(items, "", "   ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(items)).Msg("stored catalog")
	return nil
}
