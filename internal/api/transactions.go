package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/models"
)

// TransactionsHandler handles money-movement endpoints.
type TransactionsHandler struct {
	engine *ledger.Engine
}

func NewTransactionsHandler(e *ledger.Engine) *TransactionsHandler {
	return &TransactionsHandler{engine: e}
}

// CreateExpense handles POST /api/v1/expenses.
func (h *TransactionsHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.PaymentMethodID == "" {
		writeError(w, http.StatusBadRequest, "Missing payment_method_id")
		return
	}
	if err := h.engine.CreateExpense(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "지출이 등록되었습니다.")
}

// CreateBankTransaction handles POST /api/v1/transactions.
func (h *TransactionsHandler) CreateBankTransaction(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBankTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.BankAccountID == "" {
		writeError(w, http.StatusBadRequest, "Missing bank_account_id")
		return
	}
	if err := h.engine.CreateBankTransaction(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "내역이 등록되었습니다.")
}

// Update handles PUT /api/v1/transactions/{id}.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	req.TransactionID = chi.URLParam(r, "id")
	if err := h.engine.UpdateTransaction(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "내역이 수정되었습니다.")
}

// Delete handles DELETE /api/v1/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteTransaction(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "내역이 삭제되었습니다.")
}

// Transfer handles POST /api/v1/transfers.
func (h *TransactionsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.FromBankAccountID == "" || req.ToAccountID == "" {
		writeError(w, http.StatusBadRequest, "Missing from_bank_account_id or to_account_id")
		return
	}
	if err := h.engine.Transfer(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "이체가 완료되었습니다.")
}

// PayCardBill handles POST /api/v1/cards/{id}/payments.
func (h *TransactionsHandler) PayCardBill(w http.ResponseWriter, r *http.Request) {
	var req models.PayCardBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	req.CardID = chi.URLParam(r, "id")
	if req.BankAccountID == "" {
		writeError(w, http.StatusBadRequest, "Missing bank_account_id")
		return
	}
	if err := h.engine.PayCardBill(r.Context(), userID(r), req); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "카드대금이 납부되었습니다.")
}

// ListCategories handles GET /api/v1/categories?type=EXPENSE.
func (h *TransactionsHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	typ := models.TxType(r.URL.Query().Get("type"))
	if !typ.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid category type")
		return
	}
	categories, err := h.engine.Categories(userID(r), typ)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, categories)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}.
func (h *TransactionsHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteCategory(userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "카테고리가 삭제되었습니다.")
}

// Reconcile handles POST /api/v1/reconcile.
func (h *TransactionsHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	repaired, err := h.engine.Reconcile(r.Context(), userID(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"repaired": repaired})
}
