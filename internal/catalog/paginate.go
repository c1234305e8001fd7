package catalog

import (
	"strconv"
	"strings"

	"github.com/varoOP/toplists/internal/domain"
)

// Paginate returns items[skip:skip+pageSize] clamped to the list, and whether
// more items follow the page. A negative or out-of-range skip yields an empty
// page with hasMore false.
func Paginate(items []domain.CatalogItem, skip, pageSize int) ([]domain.CatalogItem, bool) {
	if skip < 0 || skip >= len(items) || pageSize <= 0 {
		return []domain.CatalogItem{}, false
	}

	end := skip + pageSize
	if end > len(items) {
		end = len(items)
	}

	// Full slice expression so callers cannot append into the backing list.
	return items[skip:end:end], skip+pageSize < len(items)
}

// ParseSkip reads a skip value. Absent or non-numeric values mean 0.
func ParseSkip(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
