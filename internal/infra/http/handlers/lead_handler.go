package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-ledger/internal/entity"
	"github.com/xavierca1/lead-ledger/internal/infra/metrics"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

type LeadHandler struct {
	RegisterUC *usecase.RegisterLeadUseCase
	MarkUC     *usecase.MarkLeadStatusUseCase
	ListUC     *usecase.ListLeadsUseCase
}

func NewLeadHandler(register *usecase.RegisterLeadUseCase, mark *usecase.MarkLeadStatusUseCase, list *usecase.ListLeadsUseCase) *LeadHandler {
	return &LeadHandler{
		RegisterUC: register,
		MarkUC:     mark,
		ListUC:     list,
	}
}

type RegisterLeadResponse struct {
	ID int64 `json:"id"`
}

// Register (POST /leads)
func (h *LeadHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.RegisterUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	metrics.RecordLeadRegistered(input.Province)
	writeJSON(w, http.StatusCreated, RegisterLeadResponse{ID: output.ID})
}

// List (GET /leads?status=Converted)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(leads))
}

// Unprocessed (GET /leads/unprocessed)
func (h *LeadHandler) Unprocessed(w http.ResponseWriter, r *http.Request) {
	leads, err := h.ListUC.ListUnprocessed(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(leads))
}

// Get (GET /leads/{id})
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.ListUC.Get(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// MarkStatus (PATCH /leads/{id}/status)
func (h *LeadHandler) MarkStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var input usecase.MarkLeadStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = id

	lead, err := h.MarkUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	metrics.RecordStatusChange(string(lead.Status), lead.Commission)
	w.WriteHeader(http.StatusNoContent)
}

func leadID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func nonNil(leads []entity.Lead) []entity.Lead {
	if leads == nil {
		return []entity.Lead{}
	}
	return leads
}
