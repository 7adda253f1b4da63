package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tableside/internal/logger"
	"tableside/internal/services/menu"
	"tableside/internal/services/order"
	"tableside/internal/services/table"
)

// Server assembles the REST API over the menu, table and order services.
type Server struct {
	menu   *menu.Service
	tables *table.Service
	orders *order.Service
	logger *logger.Logger
	health func(ctx context.Context) bool
}

// New creates the API server.
func New(menuSvc *menu.Service, tableSvc *table.Service, orderSvc *order.Service, health func(ctx context.Context) bool, log *logger.Logger) *Server {
	return &Server{
		menu:   menuSvc,
		tables: tableSvc,
		orders: orderSvc,
		logger: log,
		health: health,
	}
}

// Routes builds the chi router for the REST surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.withLogging)

	r.Route("/menuitems", func(r chi.Router) {
		r.Get("/", s.handleListMenuItems)
		r.Post("/", s.handleCreateMenuItem)
		r.Get("/categories", s.handleListCategories)
		r.Get("/{id}", s.handleGetMenuItem)
		r.Put("/{id}", s.handleUpdateMenuItem)
		r.Delete("/{id}", s.handleDeleteMenuItem)
	})

	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleListTables)
		r.Post("/", s.handleCreateTable)
		r.Get("/verify", s.handleVerifyTable)
		r.Get("/{id}", s.handleGetTable)
		r.Put("/{id}", s.handleUpdateTable)
		r.Delete("/{id}", s.handleDeleteTable)
		r.Post("/{id}/checkout", s.handleCheckoutTable)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.handleListOrders)
		r.Post("/", s.handleCreateOrder)
		r.Put("/update-status", s.handleUpdateOrderStatus)
		r.Get("/{id}", s.handleGetOrder)
		r.Get("/{id}/history", s.handleOrderHistory)
	})

	r.Get("/health", s.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if s.health != nil && !s.health(ctx) {
		respondError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}

	respondJSON(w, http.StatusOK, "ok", map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
