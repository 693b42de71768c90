package catalog

import (
	"context"
	"log"
	"strings"

	catalogapi "plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/domain"
)

// Client is the slice of the catalog API client the service needs.
type Client interface {
	FetchPage(ctx context.Context, q catalogapi.ProductsQuery) (*domain.ProductPage, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	SellingPlans(ctx context.Context, handle string) ([]domain.SellingPlan, error)
}

// Service wraps the catalog client with the storefront's fallback policy:
// the listing never errors out, it degrades to a static dataset.
type Service struct {
	client       Client
	pageSize     int
	maxPages     int
	productLimit int
	logger       *log.Logger
}

func New(client Client, pageSize, maxPages, productLimit int, logger *log.Logger) *Service {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Service{
		client:       client,
		pageSize:     pageSize,
		maxPages:     maxPages,
		productLimit: productLimit,
		logger:       logger,
	}
}

// ListOptions narrow a listing page: a free-text term, a sort key and a
// pagination cursor, all optional.
type ListOptions struct {
	Query   string
	SortKey string
	After   string
	Limit   int
}

// List returns one page of purchasable products. Any catalog failure swaps
// in the static fallback dataset, filtered by the search term; products
// without an available variant are filtered out either way.
func (s *Service) List(ctx context.Context, opts ListOptions) []domain.Product {
	first := opts.Limit
	if first <= 0 {
		first = s.pageSize
	}
	page, err := s.client.FetchPage(ctx, catalogapi.ProductsQuery{
		First:   first,
		After:   opts.After,
		Query:   opts.Query,
		SortKey: opts.SortKey,
	})
	if err != nil {
		s.logger.Printf("catalog unavailable, serving fallback: %v", err)
		return available(fallbackMatching(opts.Query))
	}
	return available(page.Products)
}

// Search is a one-page free-text query over the catalog.
func (s *Service) Search(ctx context.Context, term string) []domain.Product {
	return s.List(ctx, ListOptions{Query: term})
}

// All walks the full catalog through the pager, deduplicates by product id
// and caps the result at the configured limit. Failures degrade to whatever
// was fetched so far, or the fallback dataset when nothing was.
func (s *Service) All(ctx context.Context) []domain.Product {
	pager := catalogapi.NewPager(s.client, catalogapi.ProductsQuery{First: s.pageSize}, s.maxPages)
	products, err := pager.Collect(ctx, s.productLimit)
	if err != nil {
		s.logger.Printf("catalog walk failed after %d products: %v", len(products), err)
		if len(products) == 0 {
			return available(catalogapi.FallbackProducts())
		}
	}
	return available(dedupe(products))
}

// ByHandle resolves a single product, falling back to the static dataset
// when the catalog is unavailable. A handle unknown to both sides is
// ErrNotFound.
func (s *Service) ByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	p, err := s.client.ProductByHandle(ctx, handle)
	if err == nil {
		return p, nil
	}
	if fb := catalogapi.FallbackByHandle(handle); fb != nil {
		s.logger.Printf("catalog unavailable for %q, serving fallback: %v", handle, err)
		return fb, nil
	}
	return nil, err
}

// Plans fetches a product's subscription plans. Plans are an enhancement,
// never a requirement, so any failure yields an empty set.
func (s *Service) Plans(ctx context.Context, handle string) []domain.SellingPlan {
	plans, err := s.client.SellingPlans(ctx, handle)
	if err != nil {
		s.logger.Printf("selling plans unavailable for %q: %v", handle, err)
		return nil
	}
	return plans
}

func fallbackMatching(term string) []domain.Product {
	products := catalogapi.FallbackProducts()
	if term == "" {
		return products
	}
	needle := strings.ToLower(term)
	out := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

func available(products []domain.Product) []domain.Product {
	out := products[:0]
	for _, p := range products {
		if p.HasAvailableVariant() {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(products []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(products))
	out := products[:0]
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
