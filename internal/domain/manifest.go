package domain

// Manifest is the addon description document served at /manifest.json.
type Manifest struct {
	ID          string            `json:"id"`
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Resources   []string          `json:"resources"`
	Types       []CatalogType     `json:"types"`
	Catalogs    []ManifestCatalog `json:"catalogs"`
}

// ManifestCatalog advertises one catalog and the extra query arguments it accepts.
type ManifestCatalog struct {
	Type           CatalogType     `json:"type"`
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Extra          []ManifestExtra `json:"extra,omitempty"`
	ExtraSupported []string        `json:"extraSupported,omitempty"`
}

type ManifestExtra struct {
	Name string `json:"name"`
}

// SupportsSkip reports whether the catalog advertises skip paging.
func (c ManifestCatalog) SupportsSkip() bool {
	for _, e := range c.Extra {
		if e.Name == "skip" {
			return true
		}
	}
	return false
}
