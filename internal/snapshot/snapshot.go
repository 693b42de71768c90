package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/domain"
)

// Exporter walks the full catalog and writes it out as a JSON dataset, the
// same shape the storefront's static fallback uses. It exists so the
// fallback can be refreshed from the live catalog offline.
type Exporter struct {
	fetcher  catalog.PageFetcher
	out      io.Writer
	pageSize int
	maxPages int
	limit    int
}

func NewExporter(fetcher catalog.PageFetcher, out io.Writer, pageSize, maxPages, limit int) *Exporter {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Exporter{
		fetcher:  fetcher,
		out:      out,
		pageSize: pageSize,
		maxPages: maxPages,
		limit:    limit,
	}
}

// Run drains the catalog and writes the purchasable products. It returns
// the number of products written.
func (e *Exporter) Run(ctx context.Context) (int, error) {
	pager := catalog.NewPager(e.fetcher, catalog.ProductsQuery{First: e.pageSize}, e.maxPages)
	products, err := pager.Collect(ctx, e.limit)
	if err != nil {
		return 0, fmt.Errorf("walk catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(products))
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		if !p.HasAvailableVariant() {
			continue
		}
		kept = append(kept, p)
	}

	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kept); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	return len(kept), nil
}
