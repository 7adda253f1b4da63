// Package cart implements the guest-side cart: line items staged before
// checkout, persisted after every mutation so a returning guest finds their
// cart intact.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"tableside/internal/localstore"
	"tableside/internal/logger"
)

// StorageKey is the fixed namespace the serialized cart lives under.
const StorageKey = "tableside_guest_cart"

// Item is one staged cart line. Price is the unit price snapshotted when the
// line was added.
type Item struct {
	ID         string          `json:"id"`
	MenuItemID int             `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	Category   string          `json:"category,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// DisplayTotals are guest-facing figures computed on demand for display.
// Only Subtotal corresponds to anything persisted; tax and fee never enter
// the create-order request.
type DisplayTotals struct {
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	ProcessingFee decimal.Decimal
	Total         decimal.Decimal
}

// Store holds the guest's staged items. All mutations persist the full line
// list to storage; persistence failures are logged by the storage layer and
// never surface to the caller.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage localstore.Store
	idgen   IDGenerator
	logger  *logger.Logger
}

// NewStore creates a cart store, loading any previously persisted lines.
// A corrupt persisted value is discarded and logged, never propagated.
func NewStore(storage localstore.Store, idgen IDGenerator, log *logger.Logger) *Store {
	s := &Store{
		storage: storage,
		idgen:   idgen,
		logger:  log,
	}

	if raw, ok := storage.Get(StorageKey); ok {
		var items []Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Error("cart_restore_failed", "Discarding corrupt persisted cart", "", err, nil)
			storage.Remove(StorageKey)
		} else {
			s.items = items
		}
	}

	return s
}

// AddItem stages a new line, assigning a fresh id. Adds never merge: two
// adds of the same menu item stay distinct lines, unlike the staff draft
// builder.
func (s *Store) AddItem(item Item) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.ID = s.idgen.NewID(item.MenuItemID)
	s.items = append(s.items, item)
	s.persist()

	return item
}

// UpdateQuantity replaces the quantity of the matching line. A quantity of
// zero or less removes the line, identically to RemoveItem. Unknown ids are
// a silent no-op.
func (s *Store) UpdateQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(id)
		return
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// RemoveItem drops the matching line. Unknown ids are a silent no-op.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// Clear empties the cart and evicts the persisted value.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.storage.Remove(StorageKey)
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// TotalPrice sums price times quantity over all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItems sums quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// DisplayTotals computes the guest-facing breakdown for the given tax rate
// and flat processing fee. An empty cart owes nothing.
func (s *Store) DisplayTotals(taxRate, processingFee decimal.Decimal) DisplayTotals {
	subtotal := s.TotalPrice()
	if subtotal.IsZero() {
		return DisplayTotals{
			Subtotal: decimal.Zero, Tax: decimal.Zero,
			ProcessingFee: decimal.Zero, Total: decimal.Zero,
		}
	}

	tax := subtotal.Mul(taxRate).Round(2)
	return DisplayTotals{
		Subtotal:      subtotal,
		Tax:           tax,
		ProcessingFee: processingFee,
		Total:         subtotal.Add(tax).Add(processingFee),
	}
}

func (s *Store) removeLocked(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// persist writes the full line list. Fire-and-forget: the storage layer logs
// failures, the cart never blocks or errors on them.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("cart_persist_failed", "Failed to serialize cart", "", err, nil)
		return
	}
	s.storage.Set(StorageKey, string(data))
}
