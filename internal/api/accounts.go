package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// AccountsHandler handles account and user lifecycle endpoints.
type AccountsHandler struct {
	conn   *db.Connection
	ledger *ledger.Engine
	invest *investment.Engine
}

func NewAccountsHandler(conn *db.Connection, l *ledger.Engine, i *investment.Engine) *AccountsHandler {
	return &AccountsHandler{conn: conn, ledger: l, invest: i}
}

// CreateUserRequest creates a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser handles POST /api/v1/users. It is the only mutating route
// outside the authenticated tree.
func (h *AccountsHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Missing name or email")
		return
	}
	user, err := store.NewUsers(h.conn).Create(req.Name, req.Email)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

// DeleteUser handles DELETE /api/v1/users/me.
func (h *AccountsHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteUser(r.Context(), userID(r)); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "계정이 삭제되었습니다.")
}

// CreateBankAccount handles POST /api/v1/bank-accounts.
func (h *AccountsHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing name")
		return
	}
	account, err := h.ledger.CreateBankAccount(r.Context(), userID(r), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusCreated, account)
}

// DeleteBankAccount handles DELETE /api/v1/bank-accounts/{id}.
func (h *AccountsHandler) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteBankAccount(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "계좌가 삭제되었습니다.")
}

// CreateCard handles POST /api/v1/cards.
func (h *AccountsHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing name")
		return
	}
	card, err := h.ledger.CreateCard(r.Context(), userID(r), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusCreated, card)
}

// DeleteCard handles DELETE /api/v1/cards/{id}.
func (h *AccountsHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteCard(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "카드가 삭제되었습니다.")
}

// CreateInvestmentAccount handles POST /api/v1/investment-accounts.
func (h *AccountsHandler) CreateInvestmentAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvestmentAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Missing name")
		return
	}
	account, err := h.invest.CreateAccount(r.Context(), userID(r), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeData(w, http.StatusCreated, account)
}

// DeleteInvestmentAccount handles DELETE /api/v1/investment-accounts/{id}.
func (h *AccountsHandler) DeleteInvestmentAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.invest.DeleteAccount(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeEngineError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "투자계좌가 삭제되었습니다.")
}
