package manifest

import (
	"github.com/varoOP/toplists/internal/domain"
)

const skipExtra = "skip"

// Build assembles the addon manifest from the registered catalogs. A catalog
// advertises skip paging exactly when its descriptor supports it, so clients
// never request pages that would be ignored.
func Build(cfg *domain.Config, descriptors []domain.CatalogDescriptor) domain.Manifest {
	m := domain.Manifest{
		ID:          cfg.AddonID,
		Version:     cfg.AddonVersion,
		Name:        domain.AddonName,
		Description: domain.AddonDescription,
		Resources:   []string{"catalog"},
		Types:       []domain.CatalogType{},
		Catalogs:    make([]domain.ManifestCatalog, 0, len(descriptors)),
	}

	seen := map[domain.CatalogType]bool{}
	for _, d := range descriptors {
		if !seen[d.Type] {
			seen[d.Type] = true
			m.Types = append(m.Types, d.Type)
		}

		c := domain.ManifestCatalog{
			Type: d.Type,
			ID:   d.ID,
			Name: d.DisplayName,
		}
		if d.SupportsPaging {
			c.Extra = []domain.ManifestExtra{{Name: skipExtra}}
			c.ExtraSupported = []string{skipExtra}
		}
		m.Catalogs = append(m.Catalogs, c)
	}

	return m
}
