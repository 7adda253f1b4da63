package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/config"
	"tableside/internal/localstore"
	"tableside/internal/logger"
	"tableside/internal/models"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(models.Envelope{Success: status < 400, Data: data})
	require.NoError(t, err)
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New("client-test")
	session := NewSessionStore(localstore.NewMemStore(), log)
	return New(config.ClientConfig{BaseURL: srv.URL}, session, log), session
}

func TestGetMenuItemsServedFromCache(t *testing.T) {
	var hits atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeEnvelope(t, w, http.StatusOK, []models.MenuItem{{ID: 1, Name: "Pad Thai"}})
	}))

	first, err := c.ListMenuItems(context.Background())
	require.NoError(t, err)
	second, err := c.ListMenuItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second read must come from the cache")
}

func TestCreateMenuItemInvalidatesCollection(t *testing.T) {
	var listHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/menuitems", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listHits.Add(1)
			writeEnvelope(t, w, http.StatusOK, []models.MenuItem{{ID: 1, Name: "Pad Thai"}})
		case http.MethodPost:
			writeEnvelope(t, w, http.StatusCreated, models.MenuItem{ID: 2, Name: "Green Curry"})
		default:
			http.NotFound(w, r)
		}
	})
	c, _ := newTestClient(t, mux)

	_, err := c.ListMenuItems(context.Background())
	require.NoError(t, err)
	_, err = c.CreateMenuItem(context.Background(), &models.MenuItemRequest{Name: "Green Curry"})
	require.NoError(t, err)
	_, err = c.ListMenuItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), listHits.Load(), "creating an item must evict the cached list")
}

func TestUpdateOrderStatusSameStatusIsLocalNoOp(t *testing.T) {
	var puts atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/7", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, models.Order{ID: 7, OrderStatus: models.StatusPreparing})
	})
	mux.HandleFunc("/orders/update-status", func(w http.ResponseWriter, r *http.Request) {
		puts.Add(1)
		writeEnvelope(t, w, http.StatusOK, models.Order{ID: 7, OrderStatus: models.StatusPreparing})
	})
	c, _ := newTestClient(t, mux)

	order, err := c.UpdateOrderStatus(context.Background(), 7, models.StatusPreparing)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, order.OrderStatus)
	assert.Zero(t, puts.Load(), "requesting the current status again must not hit the server")
}

func TestUpdateOrderStatusInvalidatesOrderAndTables(t *testing.T) {
	var orderHits, tableHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/7", func(w http.ResponseWriter, r *http.Request) {
		orderHits.Add(1)
		writeEnvelope(t, w, http.StatusOK, models.Order{ID: 7, OrderStatus: models.StatusServed})
	})
	mux.HandleFunc("/tables", func(w http.ResponseWriter, r *http.Request) {
		tableHits.Add(1)
		writeEnvelope(t, w, http.StatusOK, []models.Table{{ID: 1, TableCode: "T-01"}})
	})
	mux.HandleFunc("/orders/update-status", func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateOrderStatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.StatusPaid, req.Status)
		writeEnvelope(t, w, http.StatusOK, models.Order{ID: 7, OrderStatus: models.StatusPaid})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.ListTables(context.Background())
	require.NoError(t, err)
	_, err = c.GetOrder(context.Background(), 7)
	require.NoError(t, err)

	order, err := c.UpdateOrderStatus(context.Background(), 7, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.OrderStatus)

	// Settling the order changes its table's occupancy, so both cached views
	// must be refetched.
	_, err = c.GetOrder(context.Background(), 7)
	require.NoError(t, err)
	_, err = c.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), orderHits.Load())
	assert.Equal(t, int64(2), tableHits.Load())
}

func TestRejectedTransitionLeavesCacheUntouched(t *testing.T) {
	var orderHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/orders/7", func(w http.ResponseWriter, r *http.Request) {
		orderHits.Add(1)
		writeEnvelope(t, w, http.StatusOK, models.Order{ID: 7, OrderStatus: models.StatusPending})
	})
	mux.HandleFunc("/orders/update-status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		err := json.NewEncoder(w).Encode(models.Envelope{Success: false, Message: "invalid status transition: Pending -> Paid"})
		require.NoError(t, err)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.UpdateOrderStatus(context.Background(), 7, models.StatusPaid)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid status transition")

	// The cached order still answers the next read.
	order, err := c.GetOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.OrderStatus)
	assert.Equal(t, int64(1), orderHits.Load())
}

func TestCheckoutInvalidatesOrdersAndTables(t *testing.T) {
	var listHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		writeEnvelope(t, w, http.StatusOK, models.NewPage([]models.Order{}, 1, 10, 0))
	})
	mux.HandleFunc("/tables/3/checkout", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, models.CheckoutSummary{
			TableID:     3,
			TableCode:   "T-03",
			OrdersCount: 2,
			Total:       decimal.RequireFromString("44.97"),
		})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.ListOrders(context.Background(), models.OrderListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)

	summary, err := c.CheckoutTable(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "44.97", summary.Total.StringFixed(2))

	_, err = c.ListOrders(context.Background(), models.OrderListFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), listHits.Load(), "checkout must evict cached order lists")
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	c, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale-token", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusUnauthorized, nil)
	}))
	session.Save(&Session{UserID: 1, Name: "Ann", Role: "manager", Token: "stale-token"})

	_, err := c.ListOrders(context.Background(), models.OrderListFilter{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Nil(t, session.Current(), "a 401 must drop the persisted session")
}

func TestVerifyTableIsNeverCached(t *testing.T) {
	var hits atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "T-05", r.URL.Query().Get("code"))
		writeEnvelope(t, w, http.StatusOK, models.TableVerification{TableCode: "T-05", TableName: "Window 5", Seats: 4})
	}))

	for i := 0; i < 2; i++ {
		v, err := c.VerifyTable(context.Background(), "T-05")
		require.NoError(t, err)
		assert.Equal(t, "T-05", v.TableCode)
	}
	assert.Equal(t, int64(2), hits.Load())
}
