package csvsource

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/normalize"
)

type Service interface {
	Load(ctx context.Context, path string) ([]domain.CatalogItem, error)
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "csvsource").Logger(),
	}
}

// Load reads the whole file once and returns the normalized items in file order.
// Rows that cannot be normalized are skipped. An unreadable file or a file
// without a single valid row is an error.
func (s *service) Load(ctx context.Context, path string) ([]domain.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog source %s", path)
	}
	defer f.Close()

	items, skipped, err := s.read(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog source %s", path)
	}

	s.log.Info().
		Str("path", path).
		Int("items", len(items)).
		Int("skipped", skipped).
		Msg("Loaded static catalog")

	if len(items) == 0 {
		return nil, errors.Wrapf(domain.ErrEmptyCatalog, "%s", path)
	}

	return items, nil
}

func (s *service) read(ctx context.Context, r io.Reader) ([]domain.CatalogItem, int, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to read header row")
	}
	cols := columnIndex(header)

	items := []domain.CatalogItem{}
	skipped := 0
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				s.log.Debug().Err(err).Int("line", line).Msg("skipping malformed row")
				skipped++
				continue
			}
			return nil, skipped, err
		}

		item, err := normalize.Movie(cols.record(row))
		if err != nil {
			s.log.Trace().Err(err).Int("line", line).Msg("skipping row")
			skipped++
			continue
		}
		items = append(items, item)
	}

	return items, skipped, nil
}

// columns maps a header name to its position; absent columns are -1.
type columns struct {
	url, title, year, poster, genres, description int
}

func columnIndex(header []string) columns {
	pos := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	return columns{
		url:         lookup("url"),
		title:       lookup("title"),
		year:        lookup("year"),
		poster:      lookup("poster"),
		genres:      lookup("genres"),
		description: lookup("description"),
	}
}

func (c columns) record(row []string) domain.RawRecord {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	return domain.RawRecord{
		URL:         field(c.url),
		Title:       field(c.title),
		Year:        field(c.year),
		Poster:      field(c.poster),
		Genres:      field(c.genres),
		Description: field(c.description),
	}
}
