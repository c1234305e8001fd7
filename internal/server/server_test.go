package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varoOP/toplists/internal/catalog"
	"github.com/varoOP/toplists/internal/csvsource"
	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/manifest"
)

type failingSource struct{}

func (failingSource) Items(ctx context.Context) ([]domain.CatalogItem, error) {
	return nil, errors.New("source down")
}

type page struct {
	Metas   []domain.CatalogItem `json:"metas"`
	HasMore *bool                `json:"hasMore"`
}

func films(n int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, n)
	for i := range items {
		items[i] = domain.CatalogItem{
			ID:     fmt.Sprintf("tt%07d", i+1),
			Type:   domain.CatalogTypeMovie,
			Name:   fmt.Sprintf("Film %d", i+1),
			Genres: []string{},
		}
	}
	return items
}

func newTestServer(t *testing.T, series domain.CatalogSource) *httptest.Server {
	t.Helper()

	cfg := domain.DefaultConfig()
	log := zerolog.Nop()

	reg, err := catalog.NewRegistry(log,
		catalog.Entry{
			Descriptor: domain.CatalogDescriptor{
				Type:           domain.CatalogTypeMovie,
				ID:             domain.FilmCatalogID,
				DisplayName:    domain.FilmCatalogName,
				SupportsPaging: true,
				PageSize:       50,
			},
			Source: csvsource.NewStaticSource(films(120)),
		},
		catalog.Entry{
			Descriptor: domain.CatalogDescriptor{
				Type:        domain.CatalogTypeSeries,
				ID:          domain.SeriesCatalogID,
				DisplayName: domain.SeriesCatalogName,
			},
			Source: series,
		},
	)
	require.NoError(t, err)

	info := func() Info {
		return Info{OK: true, Source: cfg.CSVPath, Items: 120, PageSize: 50, Endpoints: []string{"/manifest.json"}}
	}

	s := New(log, cfg, reg, manifest.Build(cfg, reg.Descriptors()), info)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func getPage(t *testing.T, url string) page {
	t.Helper()
	resp, body := get(t, url)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	var p page
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func TestCatalog_QuerySkip(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	p := getPage(t, ts.URL+"/catalog/movie/top250films.json?skip=50")
	require.Len(t, p.Metas, 50)
	assert.Equal(t, "tt0000051", p.Metas[0].ID)
	require.NotNil(t, p.HasMore)
	assert.True(t, *p.HasMore)
}

func TestCatalog_PathSkip(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	p := getPage(t, ts.URL+"/catalog/movie/top250films/skip=100.json")
	require.Len(t, p.Metas, 20)
	assert.Equal(t, "tt0000101", p.Metas[0].ID)
	require.NotNil(t, p.HasMore)
	assert.False(t, *p.HasMore)
}

func TestCatalog_DefaultsAndInvalidSkip(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	for _, q := range []string{"", "?skip=", "?skip=abc"} {
		p := getPage(t, ts.URL+"/catalog/movie/top250films.json"+q)
		require.Len(t, p.Metas, 50, q)
		assert.Equal(t, "tt0000001", p.Metas[0].ID, q)
	}

	p := getPage(t, ts.URL+"/catalog/movie/top250films.json?skip=-5")
	assert.Empty(t, p.Metas)
	require.NotNil(t, p.HasMore)
	assert.False(t, *p.HasMore)

	p = getPage(t, ts.URL+"/catalog/movie/top250films.json?skip=500")
	assert.Empty(t, p.Metas)
}

func TestCatalog_Unknown(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	for _, path := range []string{
		"/catalog/movie/doesnotexist.json",
		"/catalog/series/top250films.json",
		"/catalog/anime/top250films.json",
	} {
		resp, body := get(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `{"metas":[]}`, string(body), path)
	}
}

func TestCatalog_FailingLiveSource(t *testing.T) {
	ts := newTestServer(t, failingSource{})

	resp, body := get(t, ts.URL+"/catalog/series/netflix-nl-top10.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"metas":[]}`, string(body))
}

func TestCatalog_UnpagedOmitsHasMore(t *testing.T) {
	series := csvsource.NewStaticSource([]domain.CatalogItem{
		{ID: "netflix-nl-1-dark", Type: domain.CatalogTypeSeries, Name: "Dark", Genres: []string{}},
	})
	ts := newTestServer(t, series)

	resp, body := get(t, ts.URL+"/catalog/series/netflix-nl-top10.json?skip=50")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.NotContains(t, raw, "hasMore")

	var p page
	require.NoError(t, json.Unmarshal(body, &p))
	require.Len(t, p.Metas, 1)
	assert.Equal(t, "Dark", p.Metas[0].Name)
	assert.Nil(t, p.Metas[0].Poster)
}

func TestCatalog_Idempotent(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	_, first := get(t, ts.URL+"/catalog/movie/top250films.json?skip=50")
	_, second := get(t, ts.URL+"/catalog/movie/top250films.json?skip=50")
	assert.Equal(t, string(first), string(second))
}

func TestManifest(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	resp, body := get(t, ts.URL+"/manifest.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m domain.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, "community.toplists", m.ID)
	assert.Equal(t, []string{"catalog"}, m.Resources)
	assert.Equal(t, []domain.CatalogType{domain.CatalogTypeMovie, domain.CatalogTypeSeries}, m.Types)
	require.Len(t, m.Catalogs, 2)
	assert.True(t, m.Catalogs[0].SupportsSkip())
	assert.False(t, m.Catalogs[1].SupportsSkip())
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info Info
	require.NoError(t, json.Unmarshal(body, &info))
	assert.True(t, info.OK)
	assert.Equal(t, 120, info.Items)
	assert.Nil(t, info.LiveFetchedAt)
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	resp, _ := get(t, ts.URL+"/manifest.json")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/catalog/movie/top250films.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://web.example")
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer preflight.Body.Close()

	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
	assert.Equal(t, "*", preflight.Header.Get("Access-Control-Allow-Origin"))
}

func TestSkipParam_PathWinsOverQuery(t *testing.T) {
	ts := newTestServer(t, csvsource.NewStaticSource(nil))

	p := getPage(t, ts.URL+"/catalog/movie/top250films/skip=100.json?skip=0")
	require.Len(t, p.Metas, 20)
}
