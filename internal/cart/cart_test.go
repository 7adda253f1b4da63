package cart

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/localstore"
	"tableside/internal/logger"
)

type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) NewID(menuItemID int) string {
	g.n++
	return fmt.Sprintf("%d-%d", menuItemID, g.n)
}

func newTestStore(t *testing.T) (*Store, *localstore.MemStore) {
	t.Helper()
	storage := localstore.NewMemStore()
	return NewStore(storage, &seqIDGenerator{}, logger.New("cart-test")), storage
}

func padThai() Item {
	return Item{
		MenuItemID: 7,
		Name:       "Pad Thai",
		Price:      decimal.RequireFromString("14.99"),
		Quantity:   2,
		Category:   "Noodles",
	}
}

func TestAddItemAssignsDistinctLines(t *testing.T) {
	store, _ := newTestStore(t)

	first := store.AddItem(padThai())
	second := store.AddItem(padThai())

	// Same menu item, no merge: the guest cart keeps distinct lines.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.Items(), 2)
	assert.Equal(t, 4, store.TotalItems())
}

func TestTotalPriceScenario(t *testing.T) {
	store, _ := newTestStore(t)

	item := store.AddItem(padThai())
	assert.Equal(t, "29.98", store.TotalPrice().StringFixed(2))

	store.UpdateQuantity(item.ID, 0)
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.TotalItems())
	assert.True(t, store.TotalPrice().IsZero())
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		t.Run(fmt.Sprintf("quantity %d", quantity), func(t *testing.T) {
			store, _ := newTestStore(t)
			item := store.AddItem(padThai())

			store.UpdateQuantity(item.ID, quantity)

			assert.Empty(t, store.Items(), "item should be absent, same as RemoveItem")
		})
	}
}

func TestUpdateQuantityReplacesOnlyMatchingLine(t *testing.T) {
	store, _ := newTestStore(t)
	first := store.AddItem(padThai())
	second := store.AddItem(Item{MenuItemID: 9, Name: "Green Curry", Price: decimal.RequireFromString("12.50"), Quantity: 1})

	store.UpdateQuantity(first.ID, 5)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestUpdateQuantityUnknownIDIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(padThai())

	store.UpdateQuantity("missing-id", 3)
	store.RemoveItem("missing-id")

	assert.Equal(t, 2, store.TotalItems())
}

func TestTotalItemsNeverNegative(t *testing.T) {
	store, _ := newTestStore(t)

	item := store.AddItem(padThai())
	store.UpdateQuantity(item.ID, -5)
	store.RemoveItem(item.ID)
	store.UpdateQuantity(item.ID, -1)

	assert.Equal(t, 0, store.TotalItems())
}

func TestClearEvictsStorage(t *testing.T) {
	store, storage := newTestStore(t)
	store.AddItem(padThai())

	_, ok := storage.Get(StorageKey)
	require.True(t, ok, "mutation should persist the cart")

	store.Clear()

	assert.Empty(t, store.Items())
	_, ok = storage.Get(StorageKey)
	assert.False(t, ok, "clear should evict persisted storage")
}

func TestPersistedCartRoundTrip(t *testing.T) {
	storage := localstore.NewMemStore()
	log := logger.New("cart-test")

	original := NewStore(storage, &seqIDGenerator{}, log)
	first := original.AddItem(padThai())
	second := original.AddItem(Item{MenuItemID: 9, Name: "Green Curry", Price: decimal.RequireFromString("12.50"), Quantity: 1, Note: "mild"})
	original.UpdateQuantity(first.ID, 3)

	// A new store over the same storage reproduces the same lines exactly.
	reloaded := NewStore(storage, &seqIDGenerator{}, log)
	items := reloaded.Items()
	require.Len(t, items, 2)

	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, first.MenuItemID, items[0].MenuItemID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("14.99")))

	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, "mild", items[1].Note)
}

func TestCorruptPersistedCartIsDiscarded(t *testing.T) {
	storage := localstore.NewMemStore()
	storage.Set(StorageKey, "{not valid json")

	store := NewStore(storage, &seqIDGenerator{}, logger.New("cart-test"))

	assert.Empty(t, store.Items(), "corrupt value starts an empty cart")
	_, ok := storage.Get(StorageKey)
	assert.False(t, ok, "corrupt value should be evicted")
}

func TestDisplayTotals(t *testing.T) {
	store, _ := newTestStore(t)
	store.AddItem(padThai())

	totals := store.DisplayTotals(decimal.RequireFromString("0.10"), decimal.RequireFromString("0.40"))

	assert.Equal(t, "29.98", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "3.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "33.38", totals.Total.StringFixed(2))
}

func TestDisplayTotalsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t)

	totals := store.DisplayTotals(decimal.RequireFromString("0.10"), decimal.RequireFromString("0.40"))

	assert.True(t, totals.Total.IsZero(), "empty cart owes nothing, fee included")
}

func TestTimestampIDGenerator(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gen := TimestampIDGenerator{Now: func() time.Time { return fixed }}

	assert.Equal(t, fmt.Sprintf("7-%d", fixed.UnixMilli()), gen.NewID(7))
}
