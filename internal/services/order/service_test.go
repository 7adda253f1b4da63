package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/logger"
	"tableside/internal/models"
)

type fakeRepo struct {
	created   *models.Order
	nextID    int
	orders    map[int]*models.Order
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 100, orders: make(map[int]*models.Order)}
}

func (f *fakeRepo) CreateOrder(_ context.Context, order *models.Order) error {
	f.nextID++
	order.ID = f.nextID
	f.created = order
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id int) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return order, nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _ models.OrderListFilter) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int, next models.OrderStatus, _ string) (models.OrderStatus, error) {
	if f.updateErr != nil {
		return "", f.updateErr
	}
	order, ok := f.orders[id]
	if !ok {
		return "", models.ErrNotFound
	}
	old := order.OrderStatus
	order.OrderStatus = next
	return old, nil
}

func (f *fakeRepo) GetStatusHistory(_ context.Context, _ int) ([]models.OrderStatusHistory, error) {
	return nil, nil
}

type fakeCatalog struct {
	items map[int]*models.MenuItem
}

func (f *fakeCatalog) GetMenuItem(_ context.Context, id int) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return item, nil
}

type fakeTables struct {
	tables map[string]*models.Table
}

func (f *fakeTables) GetTableByCode(_ context.Context, code string) (*models.Table, error) {
	table, ok := f.tables[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	return table, nil
}

type fakePublisher struct {
	events []any
	keys   []string
}

func (f *fakePublisher) PublishEvent(_ context.Context, routingKey string, event any) error {
	f.keys = append(f.keys, routingKey)
	f.events = append(f.events, event)
	return nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService() (*Service, *fakeRepo, *fakePublisher) {
	repo := newFakeRepo()
	publisher := &fakePublisher{}
	catalog := &fakeCatalog{items: map[int]*models.MenuItem{
		1: {ID: 1, Name: "Pad Thai", Price: price("14.99"), IsAvailable: true},
		2: {ID: 2, Name: "Green Curry", Price: price("12.50"), IsAvailable: true},
		3: {ID: 3, Name: "Mango Sticky Rice", Price: price("7.25"), IsAvailable: false},
	}}
	tables := &fakeTables{tables: map[string]*models.Table{
		"T-04": {ID: 4, Name: "Window 4", TableCode: "T-04", Seats: 4},
	}}

	svc := NewService(repo, catalog, tables, publisher, logger.New("order-test"))
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc, repo, publisher
}

func TestCreateOrderSnapshotsPricesAndComputesTotal(t *testing.T) {
	svc, repo, publisher := newTestService()
	discount := price("5.00")

	order, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		OrderType: models.DineIn,
		TableCode: "T-04",
		BuyerName: "Ann",
		Discount:  &discount,
		Items: []models.CreateOrderItem{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1, Note: "mild"},
		},
	}, "req-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.OrderStatus)
	assert.Equal(t, "42.48", order.Subtotal.StringFixed(2))
	assert.Equal(t, "37.48", order.OrderTotal.StringFixed(2), "total is subtotal minus discount")
	require.NotNil(t, order.TableCode)
	assert.Equal(t, "T-04", *order.TableCode)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Pad Thai", order.Items[0].Name, "line snapshots the catalog name")
	assert.Equal(t, "14.99", order.Items[0].Price.StringFixed(2), "line snapshots the catalog price")
	assert.Equal(t, "mild", order.Items[1].Note)

	require.NotNil(t, repo.created)
	require.Len(t, publisher.keys, 1)
	assert.Equal(t, models.EventOrderCreated, publisher.keys[0])
}

func TestCreateOrderRejectsUnknownTableCode(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		OrderType: models.DineIn,
		TableCode: "T-99",
		BuyerName: "Ann",
		Items:     []models.CreateOrderItem{{MenuItemID: 1, Quantity: 1}},
	}, "req-1")

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Nil(t, repo.created)
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		OrderType: models.TakeAway,
		BuyerName: "Bob",
		Items:     []models.CreateOrderItem{{MenuItemID: 3, Quantity: 1}},
	}, "req-1")

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "Mango Sticky Rice")
	assert.Nil(t, repo.created)
}

func TestCreateOrderRejectsDiscountExceedingSubtotal(t *testing.T) {
	svc, repo, _ := newTestService()
	discount := price("20.00")

	_, err := svc.CreateOrder(context.Background(), &models.CreateOrderRequest{
		OrderType: models.TakeAway,
		BuyerName: "Bob",
		Discount:  &discount,
		Items:     []models.CreateOrderItem{{MenuItemID: 1, Quantity: 1}},
	}, "req-1")

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Nil(t, repo.created)
}

func TestUpdateStatusPublishesOldAndNewStatus(t *testing.T) {
	svc, repo, publisher := newTestService()
	code := "T-04"
	repo.orders[7] = &models.Order{ID: 7, TableCode: &code, OrderType: models.DineIn, OrderStatus: models.StatusPending}

	order, err := svc.UpdateStatus(context.Background(), &models.UpdateOrderStatusRequest{
		OrderID: 7,
		Status:  models.StatusPreparing,
	}, "req-2")

	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.OrderStatus)

	require.Len(t, publisher.events, 1)
	event, ok := publisher.events[0].(models.OrderEvent)
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, event.OldStatus)
	assert.Equal(t, models.StatusPreparing, event.NewStatus)
	assert.Equal(t, "T-04", event.TableCode)
}

func TestUpdateStatusUnknownStatusRejectedBeforeRepository(t *testing.T) {
	svc, _, publisher := newTestService()

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateOrderStatusRequest{
		OrderID: 7,
		Status:  "Eaten",
	}, "req-2")

	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Empty(t, publisher.events)
}

func TestUpdateStatusRepositoryRejectionPublishesNothing(t *testing.T) {
	svc, repo, publisher := newTestService()
	repo.updateErr = models.ErrInvalidTransition

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateOrderStatusRequest{
		OrderID: 7,
		Status:  models.StatusPaid,
	}, "req-2")

	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Empty(t, publisher.events)
}

func TestListOrdersDefaultsPaging(t *testing.T) {
	svc, _, _ := newTestService()

	page, err := svc.ListOrders(context.Background(), models.OrderListFilter{})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.NotNil(t, page.Items)
}
