package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"plantfoods-storefront/internal/domain"
)

// memRepo is an in-memory Repository standing in for the state table.
type memRepo struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string][]byte{}}
}

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memRepo) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func testStore(repo Repository) *Store {
	return NewStore(repo, log.New(io.Discard, "", 0))
}

func monstera() (domain.Product, domain.Variant) {
	p := domain.Product{ID: "gid://shopify/Product/1", Title: "Monstera Plant Food"}
	v := domain.Variant{ID: "gid://shopify/ProductVariant/11", Title: "8 Ounce", Price: d("14.99"), Available: true, Quantity: 50}
	return p, v
}

func monthlySub() *domain.Subscription {
	return &domain.Subscription{DiscountPercent: 15, Interval: 1, IntervalUnit: "month"}
}

func TestAddMergesSameKey(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(ctx, p, v, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 || s.Count() != 3 {
		t.Fatalf("expected quantity 3, got %+v", lines[0])
	}
}

func TestAddSubscriptionIsDistinctLine(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 1, monthlySub()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(ctx, p, v, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected distinct lines for sub vs one-time, got %d", len(lines))
	}
	if lines[0].Subscription == nil || lines[1].Subscription != nil {
		t.Fatalf("unexpected line order: %+v", lines)
	}
	if lines[0].Subscription.CorrelationID == "" {
		t.Fatal("expected generated correlation id")
	}
}

func TestAddClampsQuantityToAvailable(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	v.Quantity = 3
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected clamp to 3, got %d", got)
	}

	// Merging also respects the cap.
	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected merged clamp to 3, got %d", got)
	}
}

func TestAddZeroQuantityBecomesOne(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	if err := s.Add(context.Background(), p, v, 0, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity 1, got %d", got)
	}
}

func TestRemoveDistinguishesSubscriptionLines(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	ctx := context.Background()
	sub := monthlySub()

	if err := s.Add(ctx, p, v, 1, sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Removing the one-time line must leave the subscription line.
	if err := s.Remove(ctx, p.ID, v.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := s.Lines()
	if len(lines) != 1 || lines[0].Subscription == nil {
		t.Fatalf("one-time removal hit the wrong line: %+v", lines)
	}

	// And the reverse.
	if err := s.Remove(ctx, p.ID, v.ID, sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.Lines()); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestUpdateQuantityZeroRemovesIdempotently(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateQuantity(ctx, p.ID, v.ID, 0, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("expected removal at zero, got count %d", s.Count())
	}
	// Second call is a no-op, not an error.
	if err := s.UpdateQuantity(ctx, p.ID, v.ID, 0, nil); err != nil {
		t.Fatalf("expected idempotent no-op, got %v", err)
	}
}

func TestUpdateQuantityCapsAtMax(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	v.Quantity = 4
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpdateQuantity(ctx, p.ID, v.ID, 10, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Lines()[0].Quantity; got != 4 {
		t.Fatalf("expected cap at 4, got %d", got)
	}
}

func TestSubtotalInvariantUnderToggle(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	if err := s.Add(context.Background(), p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := s.Subtotal()
	s.Toggle()
	s.Toggle()
	if !s.Subtotal().Equal(before) {
		t.Fatalf("subtotal changed across toggle: %s != %s", s.Subtotal(), before)
	}
	if !before.Equal(d("29.98")) {
		t.Fatalf("unexpected subtotal: %s", before)
	}
}

func TestForceCleanResetsEverything(t *testing.T) {
	repo := newMemRepo()
	s := testStore(repo)
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 3, monthlySub()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ForceClean(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 || !s.Subtotal().IsZero() {
		t.Fatalf("expected empty cart, got count %d subtotal %s", s.Count(), s.Subtotal())
	}
	if _, err := repo.Get(ctx, KeyCart); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected persisted cart deleted, got %v", err)
	}
}

func TestRestoreRoundTripsLines(t *testing.T) {
	repo := newMemRepo()
	s := testStore(repo)
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(ctx, p, v, 1, monthlySub()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := s.Lines()

	reloaded := testStore(repo)
	if err := reloaded.Restore(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := reloaded.Lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ProductID != want[i].ProductID ||
			got[i].VariantID != want[i].VariantID ||
			got[i].Quantity != want[i].Quantity ||
			!got[i].UnitPrice.Equal(want[i].UnitPrice) ||
			(got[i].Subscription == nil) != (want[i].Subscription == nil) {
			t.Fatalf("line %d mismatch: %+v != %+v", i, got[i], want[i])
		}
	}
}

func TestRestoreClearsCorruptedState(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyCart] = []byte(`{"not":"a list"}`)

	s := testStore(repo)
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("expected empty cart after corrupted restore, got %d", s.Count())
	}
	if _, ok := repo.data[KeyCart]; ok {
		t.Fatal("corrupted state should have been deleted")
	}
}

func TestRestoreClearsShapeViolations(t *testing.T) {
	repo := newMemRepo()
	repo.data[KeyCart] = []byte(`[{"productId":"p","variantId":"v","quantity":0,"unitPrice":"1"}]`)

	s := testStore(repo)
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 {
		t.Fatal("zero-quantity line should fail the shape check")
	}
}

func TestCheckoutCompletionWinsOverAdd(t *testing.T) {
	repo := newMemRepo()
	s := testStore(repo)
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The completion signal lands while an add from a stale tab is issued
	// in the same tick; the signal must win.
	repo.data[KeyCheckoutCompleted] = []byte(`true`)
	if err := s.Add(ctx, p, v, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("completion should clear the cart and drop the add, got count %d", s.Count())
	}
	if _, ok := repo.data[KeyCheckoutCompleted]; ok {
		t.Fatal("completion flag should be consumed")
	}
}

func TestHandleStateChangeCheckoutCompleted(t *testing.T) {
	repo := newMemRepo()
	s := testStore(repo)
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.data[KeyCheckoutCompleted] = []byte(`true`)

	s.HandleStateChange(ctx, "set", KeyCheckoutCompleted)
	if s.Count() != 0 {
		t.Fatalf("expected cleared cart, got %d", s.Count())
	}
}

func TestHandleStateChangeCartClearedElsewhere(t *testing.T) {
	repo := newMemRepo()
	s := testStore(repo)
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.HandleStateChange(ctx, "del", KeyCart)
	if s.Count() != 0 {
		t.Fatalf("expected local lines dropped, got %d", s.Count())
	}
}

func TestCheckoutBuildsHandoffAndClears(t *testing.T) {
	s := testStore(newMemRepo())
	p, v := monstera()
	ctx := context.Background()

	if err := s.Add(ctx, p, v, 2, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handoff, err := s.Checkout(ctx, "https://checkout.example.com", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handoff.AddAction != "https://checkout.example.com/cart/add" {
		t.Fatalf("unexpected action: %s", handoff.AddAction)
	}
	if s.Count() != 0 {
		t.Fatalf("checkout must clear the cart, got %d", s.Count())
	}
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	s := testStore(newMemRepo())
	if _, err := s.Checkout(context.Background(), "https://checkout.example.com", nil); err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestAddValidatesIdentifiers(t *testing.T) {
	s := testStore(newMemRepo())
	if err := s.Add(context.Background(), domain.Product{}, domain.Variant{}, 1, nil); err == nil {
		t.Fatal("expected validation error")
	}
}
