package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tableside/internal/models"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	status := models.OrderStatus(q.Get("status"))
	if status != "" && !models.ValidOrderStatus(status) {
		respondError(w, http.StatusBadRequest, "unknown order status filter")
		return
	}

	filter := models.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		TableCode: q.Get("tableCode"),
		Status:    status,
	}

	result, err := s.orders.ListOrders(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "orders retrieved", result)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "order retrieved", order)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "order created", order)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	order, err := s.orders.UpdateStatus(r.Context(), &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "order status updated", order)
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	history, err := s.orders.GetStatusHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if history == nil {
		history = []models.OrderStatusHistory{}
	}

	respondJSON(w, http.StatusOK, "order history retrieved", history)
}
