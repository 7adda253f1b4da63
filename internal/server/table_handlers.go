package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tableside/internal/models"
)

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.tables.ListTables(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}

	respondJSON(w, http.StatusOK, "tables retrieved", tables)
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	table, err := s.tables.GetTable(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "table retrieved", table)
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req models.TableRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	table, err := s.tables.CreateTable(r.Context(), &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, "table created", table)
}

func (s *Server) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	var req models.TableRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON format")
		return
	}

	table, err := s.tables.UpdateTable(r.Context(), id, &req, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "table updated", table)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	if err := s.tables.DeleteTable(r.Context(), id, requestIDFrom(r.Context())); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "table deleted", nil)
}

func (s *Server) handleVerifyTable(w http.ResponseWriter, r *http.Request) {
	verification, err := s.tables.Verify(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "table code verified", verification)
}

func (s *Server) handleCheckoutTable(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	summary, err := s.tables.Checkout(r.Context(), id, requestIDFrom(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, "table checked out", summary)
}
