package catalog

import (
	"context"

	"plantfoods-storefront/internal/domain"
)

// DefaultMaxPages bounds a full catalog walk. Catalogs here are in the
// hundreds of products, so 20 pages of 50 is already generous.
const DefaultMaxPages = 20

// PageFetcher is the slice of Client the pager needs.
type PageFetcher interface {
	FetchPage(ctx context.Context, q ProductsQuery) (*domain.ProductPage, error)
}

// Pager walks the products connection one page at a time. Next advances
// the cursor until the API reports no further pages or the safety bound
// is hit.
type Pager struct {
	fetcher  PageFetcher
	query    ProductsQuery
	cursor   string
	pages    int
	maxPages int
	done     bool
}

func NewPager(fetcher PageFetcher, query ProductsQuery, maxPages int) *Pager {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pager{fetcher: fetcher, query: query, maxPages: maxPages}
}

// Next returns the next page of products. The second return value is false
// once the sequence is exhausted.
func (p *Pager) Next(ctx context.Context) ([]domain.Product, bool, error) {
	if p.done || p.pages >= p.maxPages {
		return nil, false, nil
	}

	q := p.query
	q.After = p.cursor
	page, err := p.fetcher.FetchPage(ctx, q)
	if err != nil {
		return nil, false, err
	}

	p.pages++
	p.cursor = page.EndCursor
	if !page.HasNext {
		p.done = true
	}
	return page.Products, true, nil
}

// Collect drains the pager and returns every product fetched, stopping
// early once limit products have been accumulated (0 means no limit beyond
// the page bound).
func (p *Pager) Collect(ctx context.Context, limit int) ([]domain.Product, error) {
	var all []domain.Product
	for {
		products, ok, err := p.Next(ctx)
		if err != nil {
			return all, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, products...)
		if limit > 0 && len(all) >= limit {
			return all[:limit], nil
		}
	}
}
