package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"plantfoods-storefront/internal/domain"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

// Client talks to the external catalog API: one fixed endpoint, a
// store-identifying access token, query documents in, a {data, errors}
// envelope out. It holds no state and performs no caching; every call is a
// fresh fetch.
type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
	logger   *log.Logger
}

func NewClient(endpoint, token string, logger *log.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc:    &http.Client{},
		logger:   logger,
	}
}

// FetchPage runs a products page query and maps the result.
func (c *Client) FetchPage(ctx context.Context, q ProductsQuery) (*domain.ProductPage, error) {
	data, err := c.post(ctx, q.Build())
	if err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, domain.ErrNoData
	}

	page := &domain.ProductPage{
		EndCursor: data.Products.PageInfo.EndCursor,
		HasNext:   data.Products.PageInfo.HasNextPage,
	}
	for _, edge := range data.Products.Edges {
		page.Products = append(page.Products, mapProduct(edge.Node))
	}
	return page, nil
}

// ProductByHandle fetches a single product by its URL slug.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	data, err := c.post(ctx, ProductByHandleQuery{Handle: handle}.Build())
	if err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, domain.ErrNotFound
	}
	p := mapProduct(*data.ProductByHandle)
	return &p, nil
}

// SellingPlans fetches the subscription plans offered for a product.
func (c *Client) SellingPlans(ctx context.Context, handle string) ([]domain.SellingPlan, error) {
	data, err := c.post(ctx, SellingPlansQuery{Handle: handle}.Build())
	if err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, domain.ErrNotFound
	}
	return mapSellingPlans(*data.ProductByHandle), nil
}

// post sends one query document and decodes the envelope. Transport
// failures, non-2xx statuses and GraphQL-level errors all collapse into
// ErrNoData: the storefront never surfaces catalog failures to the user,
// it falls back to static data.
func (c *Client) post(ctx context.Context, query string) (*queryData, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Printf("catalog request failed: %v", err)
		return nil, domain.ErrNoData
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("catalog request returned status %d", resp.StatusCode)
		return nil, domain.ErrNoData
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.logger.Printf("decode catalog response: %v", err)
		return nil, domain.ErrNoData
	}

	if len(env.Errors) > 0 {
		for _, e := range env.Errors {
			c.logger.Printf("catalog query error: %s", e.Message)
		}
		return nil, domain.ErrNoData
	}
	if env.Data == nil {
		return nil, domain.ErrNoData
	}
	return env.Data, nil
}
