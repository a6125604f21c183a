// Package api exposes the ledger over HTTP. Every response uses the
// {"success", "message", "data"} envelope; identity comes from the
// X-User-ID header resolved against the users table.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/report"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// NewRouter wires every endpoint. conn backs the identity middleware and
// the read paths; the engines own all mutation.
func NewRouter(conn *db.Connection, ledgerEngine *ledger.Engine, investEngine *investment.Engine, reports *report.Service) http.Handler {
	transactions := NewTransactionsHandler(ledgerEngine)
	accounts := NewAccountsHandler(conn, ledgerEngine, investEngine)
	investments := NewInvestmentsHandler(investEngine)
	reporting := NewReportsHandler(reports)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	})

	// User creation sits outside the authenticated tree.
	r.Post("/api/v1/users", accounts.CreateUser)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(UserMiddleware(conn))

		r.Delete("/users/me", accounts.DeleteUser)

		r.Post("/bank-accounts", accounts.CreateBankAccount)
		r.Get("/bank-accounts/{id}", reporting.BankAccountDetail)
		r.Delete("/bank-accounts/{id}", accounts.DeleteBankAccount)

		r.Post("/cards", accounts.CreateCard)
		r.Get("/cards/{id}", reporting.CardDetail)
		r.Delete("/cards/{id}", accounts.DeleteCard)
		r.Post("/cards/{id}/payments", transactions.PayCardBill)

		r.Post("/investment-accounts", accounts.CreateInvestmentAccount)
		r.Get("/investment-accounts/{id}", reporting.InvestmentDetail)
		r.Delete("/investment-accounts/{id}", accounts.DeleteInvestmentAccount)
		r.Post("/investment-accounts/{id}/logs", investments.AddLog)
		r.Put("/investment-accounts/{id}/valuation", investments.RecordValuation)

		r.Put("/investment-logs/{id}", investments.UpdateLog)
		r.Delete("/investment-logs/{id}", investments.DeleteLog)

		r.Post("/expenses", transactions.CreateExpense)
		r.Post("/transactions", transactions.CreateBankTransaction)
		r.Put("/transactions/{id}", transactions.Update)
		r.Delete("/transactions/{id}", transactions.Delete)
		r.Post("/transfers", transactions.Transfer)

		r.Get("/categories", transactions.ListCategories)
		r.Delete("/categories/{id}", transactions.DeleteCategory)

		r.Post("/reconcile", transactions.Reconcile)

		r.Get("/dashboard", reporting.Dashboard)
		r.Get("/stats/categories", reporting.CategoryStats)
		r.Get("/stats/investments", reporting.InvestmentTrend)

		r.Get("/options/payment-methods", reporting.PaymentMethods)
		r.Get("/options/transfer-targets", reporting.TransferTargets)
		r.Get("/assets", reporting.AllAssets)
	})

	return r
}
