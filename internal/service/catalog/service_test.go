package catalog

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"

	catalogapi "plantfoods-storefront/internal/catalog"
	"plantfoods-storefront/internal/domain"
)

type stubClient struct {
	pages       []*domain.ProductPage
	pageErr     error
	pageCalls   int
	lastQuery   catalogapi.ProductsQuery
	byHandle    *domain.Product
	byHandleErr error
	plans       []domain.SellingPlan
	plansErr    error
}

func (s *stubClient) FetchPage(_ context.Context, q catalogapi.ProductsQuery) (*domain.ProductPage, error) {
	s.lastQuery = q
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	idx := s.pageCalls
	if idx >= len(s.pages) {
		idx = len(s.pages) - 1
	}
	s.pageCalls++
	return s.pages[idx], nil
}

func (s *stubClient) ProductByHandle(_ context.Context, _ string) (*domain.Product, error) {
	return s.byHandle, s.byHandleErr
}

func (s *stubClient) SellingPlans(_ context.Context, _ string) ([]domain.SellingPlan, error) {
	return s.plans, s.plansErr
}

func testService(c Client) *Service {
	return New(c, 50, 5, 100, log.New(io.Discard, "", 0))
}

func product(id string, availableQty int) domain.Product {
	return domain.Product{
		ID:    id,
		Title: "Product " + id,
		Variants: []domain.Variant{
			{ID: id + "-v", Price: decimal.NewFromInt(10), Available: availableQty > 0, Quantity: availableQty},
		},
	}
}

func TestListFiltersUnavailable(t *testing.T) {
	client := &stubClient{pages: []*domain.ProductPage{{
		Products: []domain.Product{product("1", 5), product("2", 0), product("3", 1)},
	}}}

	got := testService(client).List(context.Background(), ListOptions{})
	if len(got) != 2 {
		t.Fatalf("expected 2 purchasable products, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestListFallsBackOnError(t *testing.T) {
	client := &stubClient{pageErr: domain.ErrNoData}

	got := testService(client).List(context.Background(), ListOptions{})
	if len(got) == 0 {
		t.Fatal("expected fallback dataset")
	}
	for _, p := range got {
		if !p.HasAvailableVariant() {
			t.Fatalf("fallback product %q not purchasable", p.Title)
		}
	}
}

func TestSearchForwardsTerm(t *testing.T) {
	client := &stubClient{pages: []*domain.ProductPage{{
		Products: []domain.Product{product("1", 1)},
	}}}

	testService(client).Search(context.Background(), "monstera")
	if client.lastQuery.Query != "monstera" {
		t.Fatalf("expected term forwarded, got %q", client.lastQuery.Query)
	}
}

func TestSearchFallbackFiltersByTitle(t *testing.T) {
	client := &stubClient{pageErr: domain.ErrNoData}

	got := testService(client).Search(context.Background(), "monstera")
	if len(got) != 1 || got[0].Title != "Monstera Plant Food" {
		t.Fatalf("expected filtered fallback, got %+v", got)
	}
}

func TestAllWalksPagesAndDedupes(t *testing.T) {
	client := &stubClient{pages: []*domain.ProductPage{
		{Products: []domain.Product{product("1", 1), product("2", 1)}, EndCursor: "a", HasNext: true},
		{Products: []domain.Product{product("2", 1), product("3", 1)}},
	}}

	got := testService(client).All(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 deduplicated products, got %d", len(got))
	}
}

func TestAllCapsAtProductLimit(t *testing.T) {
	page := &domain.ProductPage{HasNext: true, EndCursor: "c"}
	for i := 0; i < 60; i++ {
		page.Products = append(page.Products, product(string(rune('a'+i%26))+string(rune('0'+i/26)), 1))
	}
	client := &stubClient{pages: []*domain.ProductPage{page}}

	s := New(client, 50, 5, 40, log.New(io.Discard, "", 0))
	if got := s.All(context.Background()); len(got) > 40 {
		t.Fatalf("expected at most 40 products, got %d", len(got))
	}
}

func TestByHandleFallsBack(t *testing.T) {
	client := &stubClient{byHandleErr: domain.ErrNoData}

	p, err := testService(client).ByHandle(context.Background(), "monstera-plant-food")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Handle != "monstera-plant-food" {
		t.Fatalf("unexpected fallback product: %+v", p)
	}

	if _, err := testService(client).ByHandle(context.Background(), "no-such-handle"); err == nil {
		t.Fatal("expected error for handle unknown to both sides")
	}
}

func TestPlansDegradeToEmpty(t *testing.T) {
	client := &stubClient{plansErr: domain.ErrNoData}
	if plans := testService(client).Plans(context.Background(), "monstera-plant-food"); plans != nil {
		t.Fatalf("expected no plans, got %+v", plans)
	}
}
