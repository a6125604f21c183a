package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

type contextKey string

const contextKeyUserID contextKey = "user_id"

// UserMiddleware resolves the X-User-ID header against the users table and
// stores the verified ID in the request context.
func UserMiddleware(conn *db.Connection) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				writeError(w, http.StatusUnauthorized, "Missing X-User-ID header")
				return
			}

			if _, err := store.NewUsers(conn).Get(userID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusUnauthorized, "Unknown user")
					return
				}
				writeError(w, http.StatusInternalServerError, "Failed to resolve user")
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userID returns the verified user set by UserMiddleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(contextKeyUserID).(string)
	return id
}

// Response is the uniform API envelope. Data is present on successful
// reads, Message on failures and bare acknowledgements.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// writeEngineError maps engine and store errors to HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrCategoryInUse):
		writeError(w, http.StatusConflict, "Category is still referenced by transactions")
	case errors.Is(err, ledger.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, ledger.ErrAmountNotPositive):
		writeError(w, http.StatusBadRequest, "Amount must be positive")
	case errors.Is(err, ledger.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "Invalid transaction type")
	case errors.Is(err, ledger.ErrNoLinkedAccount):
		writeError(w, http.StatusBadRequest, "Transaction has no linked bank account")
	case errors.Is(err, ledger.ErrCompoundEntry):
		writeError(w, http.StatusBadRequest, "Entry is part of a compound movement; delete and re-record it instead")
	case errors.Is(err, investment.ErrInvalidLogType):
		writeError(w, http.StatusBadRequest, "Invalid investment log type")
	case errors.Is(err, investment.ErrLogLinked):
		writeError(w, http.StatusBadRequest, "Log is tied to a transfer; delete the transfer entry instead")
	case errors.Is(err, dateutil.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "Invalid date; want YYYY-MM-DD")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
