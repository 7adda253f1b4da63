package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tableside/internal/models"
)

func (s *Server) handleListMenuItems(w http.ResponseWriter, r *http.Request) {
	filter := models.MenuFilter{
		Category:      r.URL.Query().Get("category"),
		AvailableOnly: r.URL.Query().Get("available") == "true",
	}

	items, err := s.menu.ListMenuItems(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	respondJSON(w, http.StatusOK, "menu items retrieved", items)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.menu.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, "categories retrieved", categories)
}

func (s *Server) handleGetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	item, err := s.menu.GetMenuItem(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "menu item retrieved", item)
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req models.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	item, err := s.menu.CreateMenuItem(r.Context(), &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "menu item created", item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req models.MenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	item, err := s.menu.UpdateMenuItem(r.Context(), id, &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "menu item updated", item)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	if err := s.menu.DeleteMenuItem(r.Context(), id, requestIDFrom(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "menu item deleted", nil)
}
