package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/varoOP/toplists/internal/domain"
)

// Entry binds a catalog descriptor to the source of its items.
type Entry struct {
	Descriptor domain.CatalogDescriptor
	Source     domain.CatalogSource
}

type key struct {
	typ domain.CatalogType
	id  string
}

// Registry is the fixed set of catalogs served by the addon.
// It is built once at startup and read concurrently afterwards.
type Registry struct {
	log     zerolog.Logger
	entries []Entry
	index   map[key]int
}

func NewRegistry(log zerolog.Logger, entries ...Entry) (*Registry, error) {
	r := &Registry{
		log:   log.With().Str("module", "catalog").Logger(),
		index: make(map[key]int, len(entries)),
	}

	for _, e := range entries {
		d := e.Descriptor
		if !d.Type.Valid() {
			return nil, errors.Errorf("catalog %s: invalid type %q", d.ID, d.Type)
		}
		if d.SupportsPaging && d.PageSize <= 0 {
			return nil, errors.Errorf("catalog %s/%s: paged catalog needs a positive page size", d.Type, d.ID)
		}
		k := key{d.Type, d.ID}
		if _, dup := r.index[k]; dup {
			return nil, errors.Errorf("catalog %s/%s registered twice", d.Type, d.ID)
		}
		r.index[k] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

// Lookup returns the entry for (type, id) or domain.ErrCatalogNotFound.
func (r *Registry) Lookup(typ domain.CatalogType, id string) (Entry, error) {
	i, ok := r.index[key{typ, id}]
	if !ok {
		return Entry{}, domain.ErrCatalogNotFound
	}
	return r.entries[i], nil
}

// Query resolves a catalog request. Paged catalogs return one page and a
// hasMore flag; unpaged catalogs return every item and no flag.
func (r *Registry) Query(ctx context.Context, typ domain.CatalogType, id string, skip int) (domain.CatalogPage, error) {
	e, err := r.Lookup(typ, id)
	if err != nil {
		return domain.EmptyPage(), err
	}

	items, err := e.Source.Items(ctx)
	if err != nil {
		return domain.EmptyPage(), errors.Wrapf(err, "catalog %s/%s", typ, id)
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	if !e.Descriptor.SupportsPaging {
		return domain.CatalogPage{Metas: items}, nil
	}

	page, more := Paginate(items, skip, e.Descriptor.PageSize)
	r.log.Trace().
		Str("catalog", id).
		Int("skip", skip).
		Int("returned", len(page)).
		Bool("has_more", more).
		Msg("paginated")

	return domain.CatalogPage{Metas: page, HasMore: &more}, nil
}

// Descriptors lists the registered catalogs in registration order.
func (r *Registry) Descriptors() []domain.CatalogDescriptor {
	out := make([]domain.CatalogDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Descriptor)
	}
	return out
}
