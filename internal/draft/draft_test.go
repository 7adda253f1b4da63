package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/logger"
	"tableside/internal/models"
)

type fakePlacer struct {
	calls int
	req   *models.CreateOrderRequest
	order *models.Order
	err   error
}

func (f *fakePlacer) CreateOrder(_ context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

type fakeNotifier struct {
	placed []*models.Order
	errors []string
}

func (f *fakeNotifier) OrderPlaced(order *models.Order) { f.placed = append(f.placed, order) }
func (f *fakeNotifier) Error(message string)            { f.errors = append(f.errors, message) }

func newTestBuilder(placer *fakePlacer) (*Builder, *fakeNotifier) {
	notifier := &fakeNotifier{}
	return NewBuilder(placer, notifier, logger.New("draft-test")), notifier
}

func menuItem(id int, name, price string) models.MenuItem {
	return models.MenuItem{ID: id, Name: name, Price: decimal.RequireFromString(price), IsAvailable: true}
}

func TestStepNavigationDineIn(t *testing.T) {
	b, _ := newTestBuilder(&fakePlacer{})
	b.SetCustomerInfo(models.DineIn, 2, "Ann", "", "")

	assert.Equal(t, StepTableSelect, b.Next())
	assert.Equal(t, StepMenuSelect, b.Next())
	assert.Equal(t, StepSummary, b.Next())
	assert.Equal(t, StepSummary, b.Next(), "summary is the last step")

	assert.Equal(t, StepMenuSelect, b.Back())
	assert.Equal(t, StepTableSelect, b.Back())
	assert.Equal(t, StepCustomerInfo, b.Back())
	assert.Equal(t, StepCustomerInfo, b.Back(), "customer info is the first step")
}

func TestStepNavigationTakeAwaySkipsTableStep(t *testing.T) {
	b, _ := newTestBuilder(&fakePlacer{})
	b.SetCustomerInfo(models.TakeAway, 1, "Bob", "", "")

	assert.Equal(t, StepMenuSelect, b.Next(), "next from step 1 lands on step 3, never step 2")
	assert.Equal(t, StepCustomerInfo, b.Back(), "back from step 3 lands on step 1, never step 2")
}

func TestSwitchingToTakeAwayDropsSelectedTable(t *testing.T) {
	b, _ := newTestBuilder(&fakePlacer{})
	b.SetCustomerInfo(models.DineIn, 2, "Ann", "", "")
	b.SelectTable("T-04")

	b.SetCustomerInfo(models.TakeAway, 2, "Ann", "", "")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 1, "")
	b.Next()
	b.Next()

	placer := &fakePlacer{order: &models.Order{ID: 1, OrderType: models.TakeAway}}
	b.placer = placer
	require.NoError(t, b.Submit(context.Background()))
	assert.Empty(t, placer.req.TableCode)
}

func TestAddItemMergesSameMenuItem(t *testing.T) {
	b, _ := newTestBuilder(&fakePlacer{})

	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 1, "no peanuts")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 2, "extra spicy")
	b.AddItem(menuItem(2, "Green Curry", "12.50"), 1, "")

	lines := b.Lines()
	require.Len(t, lines, 2, "same menu item merges into one line")
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "extra spicy", lines[0].Note, "note is replaced, not appended")
	assert.Equal(t, "57.47", b.Subtotal().StringFixed(2))
}

func TestSubmitRejectsDineInWithoutTable(t *testing.T) {
	placer := &fakePlacer{}
	b, notifier := newTestBuilder(placer)
	b.SetCustomerInfo(models.DineIn, 2, "Ann", "", "")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 1, "")

	err := b.Submit(context.Background())

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "select a valid table")
	assert.Zero(t, placer.calls, "no network call on client-side validation failure")
	assert.Len(t, notifier.errors, 1)
}

func TestSubmitRejectsEmptyDraft(t *testing.T) {
	placer := &fakePlacer{}
	b, _ := newTestBuilder(placer)
	b.SetCustomerInfo(models.TakeAway, 1, "Bob", "", "")

	err := b.Submit(context.Background())

	require.Error(t, err)
	assert.Zero(t, placer.calls)
}

func TestSubmitSuccessResetsDraft(t *testing.T) {
	order := &models.Order{ID: 42, OrderType: models.DineIn}
	placer := &fakePlacer{order: order}
	b, notifier := newTestBuilder(placer)

	b.SetCustomerInfo(models.DineIn, 4, "Ann", "ann@example.com", "")
	b.SelectTable("T-04")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 2, "")
	b.SetDiscount(decimal.RequireFromString("2.00"))
	b.Next()
	b.Next()
	b.Next()

	require.NoError(t, b.Submit(context.Background()))

	require.Len(t, notifier.placed, 1)
	assert.Equal(t, 42, notifier.placed[0].ID)

	require.NotNil(t, placer.req)
	assert.Equal(t, "T-04", placer.req.TableCode)
	assert.Equal(t, "ann@example.com", placer.req.BuyerEmail)
	require.NotNil(t, placer.req.Discount)
	assert.Equal(t, "2.00", placer.req.Discount.StringFixed(2))
	require.Len(t, placer.req.Items, 1)
	assert.Equal(t, 2, placer.req.Items[0].Quantity)

	// Draft resets to defaults after a successful submission.
	assert.Equal(t, StepCustomerInfo, b.Step())
	assert.Empty(t, b.Lines())
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	placer := &fakePlacer{err: errors.New("server rejected the order")}
	b, notifier := newTestBuilder(placer)

	b.SetCustomerInfo(models.TakeAway, 1, "Bob", "", "")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 1, "")
	b.Next()
	b.Next()

	err := b.Submit(context.Background())

	require.Error(t, err)
	assert.Len(t, notifier.errors, 1)
	assert.Len(t, b.Lines(), 1, "draft preserved so the user can retry")
	assert.Equal(t, StepSummary, b.Step())
}

func TestCloseDiscardsDraftAtAnyStep(t *testing.T) {
	b, _ := newTestBuilder(&fakePlacer{})
	b.SetCustomerInfo(models.DineIn, 2, "Ann", "", "")
	b.SelectTable("T-04")
	b.AddItem(menuItem(1, "Pad Thai", "14.99"), 1, "")
	b.Next()
	b.Next()

	b.Close()

	assert.Equal(t, StepCustomerInfo, b.Step())
	assert.Empty(t, b.Lines())
}
