package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"plantfoods-storefront/internal/checkout"
	"plantfoods-storefront/internal/domain"
)

// State keys in the persisted key/value store. KeyCheckoutCompleted is the
// external checkout-completion signal; observing it always clears the cart.
const (
	KeyCart              = "cart"
	KeyCheckoutCompleted = "checkoutCompleted"
)

// fallbackMaxQuantity caps lines whose variant never reported inventory.
const fallbackMaxQuantity = 999

// Repository persists storefront state under well-known keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the process-wide cart: the only stateful, cross-page-view
// component of the storefront. All operations serialize on one mutex;
// derived totals are computed on demand, never stored.
type Store struct {
	mu     sync.Mutex
	lines  []domain.Line
	open   bool
	repo   Repository
	logger *log.Logger
}

func NewStore(repo Repository, logger *log.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Restore loads the persisted cart. A missing key means an empty cart;
// anything unreadable or failing basic shape checks is force-cleaned. A
// pending checkout-completion flag is honored before the cart is trusted.
func (s *Store) Restore(ctx context.Context) error {
	if s.consumeCompletion(ctx) {
		return s.ForceClean(ctx)
	}

	raw, err := s.repo.Get(ctx, KeyCart)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load cart: %w", err)
	}

	var lines []domain.Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Printf("persisted cart unreadable, clearing: %v", err)
		return s.ForceClean(ctx)
	}
	for _, l := range lines {
		if l.ProductID == "" || l.VariantID == "" || l.Quantity < 1 {
			s.logger.Printf("persisted cart failed shape check, clearing")
			return s.ForceClean(ctx)
		}
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// Add appends a line or merges with an existing one matched by (product id,
// variant id, subscription shape). No live stock check happens here;
// availability was already filtered in the listing. A pending completion
// signal wins: the cart is cleared and the add dropped.
func (s *Store) Add(ctx context.Context, product domain.Product, variant domain.Variant, quantity int, sub *domain.Subscription) error {
	if product.ID == "" || variant.ID == "" {
		return errors.New("product and variant required")
	}
	if s.consumeCompletion(ctx) {
		s.logger.Printf("checkout completed, dropping add of %s", product.Title)
		return s.ForceClean(ctx)
	}

	if quantity < 1 {
		quantity = 1
	}
	maxAvailable := variant.Quantity
	if maxAvailable <= 0 {
		maxAvailable = fallbackMaxQuantity
	}
	if quantity > maxAvailable {
		quantity = maxAvailable
	}
	if sub != nil && sub.CorrelationID == "" {
		sub.CorrelationID = "sub_" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		l := &s.lines[i]
		if l.ProductID != product.ID || l.VariantID != variant.ID || !l.SameSubscription(sub) {
			continue
		}
		newQty := l.Quantity + quantity
		if newQty > maxAvailable {
			newQty = maxAvailable
		}
		l.Quantity = newQty
		s.open = true
		return s.persistLocked(ctx)
	}

	s.lines = append(s.lines, domain.Line{
		ProductID:    product.ID,
		VariantID:    variant.ID,
		Name:         product.Title,
		VariantTitle: variant.Title,
		UnitPrice:    variant.Price,
		Quantity:     quantity,
		MaxQuantity:  maxAvailable,
		ImageURL:     firstNonEmpty(variant.ImageURL, product.PrimaryImageURL()),
		Subscription: sub,
	})
	s.open = true
	return s.persistLocked(ctx)
}

// Remove drops the line matching the full key: product id, variant id and
// subscription discriminator. A nil subscription removes only the one-time
// line, never a subscription line of the same variant.
func (s *Store) Remove(ctx context.Context, productID, variantID string, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, l := range s.lines {
		if l.ProductID == productID && l.VariantID == variantID && l.SameSubscription(sub) {
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept
	return s.persistLocked(ctx)
}

// UpdateQuantity sets the quantity of the matching line, capped at the
// line's recorded maximum. Anything below 1 removes the line; updating a
// line that does not exist is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int, sub *domain.Subscription) error {
	if quantity < 1 {
		return s.Remove(ctx, productID, variantID, sub)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		l := &s.lines[i]
		if l.ProductID != productID || l.VariantID != variantID || !l.SameSubscription(sub) {
			continue
		}
		max := l.MaxQuantity
		if max <= 0 {
			max = fallbackMaxQuantity
		}
		if quantity > max {
			quantity = max
		}
		l.Quantity = quantity
		return s.persistLocked(ctx)
	}
	return nil
}

// ForceClean empties the cart unconditionally and deletes the persisted
// state. It is both the manual "Clear Cart" action and the recovery path
// for corrupted persisted state.
func (s *Store) ForceClean(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if err := s.repo.Delete(ctx, KeyCart); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("clear persisted cart: %w", err)
	}
	return nil
}

// ApplyCheckoutCompleted handles the external completion signal: consume
// the flag and clear, regardless of any in-flight local mutation.
func (s *Store) ApplyCheckoutCompleted(ctx context.Context) error {
	s.consumeCompletion(ctx)
	s.logger.Printf("checkout completed, cart cleared")
	return s.ForceClean(ctx)
}

// HandleStateChange reacts to a cross-process state notification, the
// analog of another browser tab touching storage.
func (s *Store) HandleStateChange(ctx context.Context, op, key string) {
	switch {
	case key == KeyCheckoutCompleted && op == "set":
		if err := s.ApplyCheckoutCompleted(ctx); err != nil {
			s.logger.Printf("apply checkout completion: %v", err)
		}
	case key == KeyCart && op == "del":
		// Cleared elsewhere; drop local lines without re-deleting.
		s.mu.Lock()
		s.lines = nil
		s.mu.Unlock()
	}
}

// Checkout builds the external hand-off from the current lines and clears
// the cart immediately; navigation to the checkout domain is the completion
// signal, nothing is awaited.
func (s *Store) Checkout(ctx context.Context, checkoutDomain string, plans []domain.SellingPlan) (*checkout.Handoff, error) {
	s.mu.Lock()
	lines := append([]domain.Line(nil), s.lines...)
	s.mu.Unlock()

	if len(lines) == 0 {
		return nil, errors.New("cart is empty")
	}

	code := BundleDiscountCode(countOf(lines))
	handoff := checkout.Build(checkoutDomain, lines, plans, code, s.logger)

	if err := s.ForceClean(ctx); err != nil {
		return nil, err
	}
	return &handoff, nil
}

// Toggle flips the drawer flag and returns the new state. The flag is UI
// state only and is never persisted.
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Lines returns a copy of the current line items in insertion order.
func (s *Store) Lines() []domain.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Line(nil), s.lines...)
}

// Subtotal is the sum of unit price times quantity over all lines,
// ignoring subscription discounts.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	subtotal := decimal.Zero
	for _, l := range s.lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}

// Count is the sum of quantities over all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.lines)
}

// Summary derives the full pricing breakdown for the current lines.
func (s *Store) Summary() Summary {
	return Summarize(s.Lines())
}

// ProgressInfo derives the promotion ladder indicator.
func (s *Store) ProgressInfo() Progress {
	sum := s.Summary()
	return ProgressFor(sum.Subtotal, sum.Count)
}

// consumeCompletion reports whether a checkout-completion flag was pending
// and removes it.
func (s *Store) consumeCompletion(ctx context.Context) bool {
	if _, err := s.repo.Get(ctx, KeyCheckoutCompleted); err != nil {
		return false
	}
	if err := s.repo.Delete(ctx, KeyCheckoutCompleted); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("consume completion flag: %v", err)
	}
	return true
}

// persistLocked writes the lines under the cart key; callers hold the
// mutex. An empty cart deletes the key instead.
func (s *Store) persistLocked(ctx context.Context) error {
	if len(s.lines) == 0 {
		if err := s.repo.Delete(ctx, KeyCart); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("clear persisted cart: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(s.lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.repo.Set(ctx, KeyCart, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func countOf(lines []domain.Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
