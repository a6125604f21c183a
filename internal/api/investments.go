package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/models"
)

// InvestmentsHandler handles investment log and valuation endpoints.
type InvestmentsHandler struct {
	engine *investment.Engine
}

func NewInvestmentsHandler(e *investment.Engine) *InvestmentsHandler {
	return &InvestmentsHandler{engine: e}
}

// AddLog handles POST /api/v1/investment-accounts/{id}/logs.
func (h *InvestmentsHandler) AddLog(w http.ResponseWriter, r *http.Request) {
	var req models.AddInvestmentLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	req.AccountID = chi.URLParam(r, "id")
	if err := h.engine.AddLog(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "투자내역이 등록되었습니다.")
}

// UpdateLog handles PUT /api/v1/investment-logs/{id}.
func (h *InvestmentsHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateInvestmentLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	req.LogID = chi.URLParam(r, "id")
	if err := h.engine.UpdateLog(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "투자내역이 수정되었습니다.")
}

// DeleteLog handles DELETE /api/v1/investment-logs/{id}.
func (h *InvestmentsHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteLog(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "투자내역이 삭제되었습니다.")
}

// RecordValuation handles PUT /api/v1/investment-accounts/{id}/valuation.
func (h *InvestmentsHandler) RecordValuation(w http.ResponseWriter, r *http.Request) {
	var req models.RecordValuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	req.AccountID = chi.URLParam(r, "id")
	if err := h.engine.RecordValuation(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "평가금액이 반영되었습니다.")
}
