package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/varoOP/toplists/internal/domain"
)

func sample() []domain.CatalogItem {
	year := 1994
	return []domain.CatalogItem{{
		ID:     "tt0111161",
		Type:   domain.CatalogTypeMovie,
		Name:   "The Shawshank Redemption",
		Year:   &year,
		Genres: []string{"Drama"},
	}}
}

func TestStore_JSONKeepsNulls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "films.json")
	require.NoError(t, NewFileRepository(zerolog.Nop()).Store(context.Background(), path, sample()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "tt0111161", got[0]["id"])
	assert.Contains(t, got[0], "poster")
	assert.Nil(t, got[0]["poster"])
	assert.EqualValues(t, 1994, got[0]["year"])
}

func TestStore_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.yml")
	require.NoError(t, NewFileRepository(zerolog.Nop()).Store(context.Background(), path, sample()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []domain.CatalogItem
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, sample(), got)
}

func TestStore_NilWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, NewFileRepository(zerolog.Nop()).Store(context.Background(), path, nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
