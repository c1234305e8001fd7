package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/varoOP/toplists/internal/domain"
)

const (
	titleSegment      = "/title/"
	maxDescriptionLen = 500
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Movie converts a CSV record into a film catalog item.
// Records whose URL carries no /title/<id>/ segment are not representable and
// return domain.ErrNoIdentifier so the caller can skip them.
func Movie(rec domain.RawRecord) (domain.CatalogItem, error) {
	id, ok := IMDbID(rec.URL)
	if !ok {
		return domain.CatalogItem{}, domain.ErrNoIdentifier
	}

	name := strings.TrimSpace(rec.Title)
	if name == "" {
		name = id
	}

	return domain.CatalogItem{
		ID:          id,
		Type:        domain.CatalogTypeMovie,
		Name:        name,
		Year:        Year(rec.Year),
		Poster:      Poster(rec.Poster),
		Genres:      Genres(rec.Genres),
		Description: Description(rec.Description),
	}, nil
}

// Series builds a live catalog item for the title at the given 1-based rank.
// Posters are left empty for a downstream metadata source to fill.
func Series(prefix string, rank int, title string) domain.CatalogItem {
	return domain.CatalogItem{
		ID:          LiveID(prefix, rank, title),
		Type:        domain.CatalogTypeSeries,
		Name:        title,
		Poster:      nil,
		Genres:      []string{},
		Description: "",
	}
}

// IMDbID returns the substring between "/title/" and the next path separator.
func IMDbID(url string) (string, bool) {
	i := strings.Index(url, titleSegment)
	if i < 0 {
		return "", false
	}

	id := url[i+len(titleSegment):]
	if j := strings.IndexAny(id, "/?#"); j >= 0 {
		id = id[:j]
	}
	if id == "" {
		return "", false
	}

	return id, true
}

// Year accepts only values made entirely of decimal digits.
func Year(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}

	y, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}

	return &y
}

func Genres(s string) []string {
	genres := []string{}
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// Description keeps the first 500 characters.
func Description(s string) string {
	r := []rune(s)
	if len(r) <= maxDescriptionLen {
		return s
	}
	return string(r[:maxDescriptionLen])
}

// Poster returns nil for a blank value so it renders as null, not "".
func Poster(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Slug lower-cases name and collapses every run of non-alphanumerics into a hyphen.
func Slug(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// LiveID prefixes the slug with the source tag and rank, so ids stay unique
// even when two titles slug identically.
func LiveID(prefix string, rank int, name string) string {
	id := prefix + "-" + strconv.Itoa(rank)
	if slug := Slug(name); slug != "" {
		id += "-" + slug
	}
	return id
}
