// Package ledger applies, edits and reverses money-movement events against
// account balances, keeping the daily rollup series and the investment
// cost-basis tables consistent with every change.
//
// Every public operation runs as one atomic unit: the transaction record,
// the balance adjustment and the derived-table updates commit or roll back
// together. Mutations of existing entries follow the rollback-then-reapply
// protocol: the old effect is fully reversed before the new one is applied.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/rollup"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/config"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// opTimeout is the execution budget of one compound operation.
const opTimeout = 20 * time.Second

// Engine executes ledger operations against the backing store.
type Engine struct {
	conn  *db.Connection
	seeds config.CategorySeeds
}

// NewEngine creates a ledger Engine. seeds supplies the default category
// sets created lazily for new users.
func NewEngine(conn *db.Connection, seeds config.CategorySeeds) *Engine {
	return &Engine{conn: conn, seeds: seeds}
}

func (e *Engine) transact(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return e.conn.TransactionContext(ctx, fn)
}

// CreateExpense records an expense against a bank account or a card.
//
// Banks lose funds, so the balance decreases and the cash rollup records
// the expense. Cards track the amount owed, so their balance INCREASES
// with spend and the cash rollup is untouched until the bill is paid.
func (e *Engine) CreateExpense(ctx context.Context, userID string, req models.CreateExpenseRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		txns := store.NewTransactions(tx)

		switch req.MethodType {
		case models.MethodBank:
			banks := store.NewBankAccounts(tx)
			if _, err := banks.GetForUser(req.PaymentMethodID, userID); err != nil {
				return err
			}
			if _, err := txns.Create(store.NewTransaction{
				UserID:        userID,
				Type:          models.TxExpense,
				Amount:        req.Amount,
				Date:          date,
				Description:   req.Description,
				CategoryID:    req.CategoryID,
				BankAccountID: &req.PaymentMethodID,
			}); err != nil {
				return err
			}
			if err := banks.AdjustBalance(req.PaymentMethodID, -req.Amount); err != nil {
				return err
			}
			return rollup.Sync(tx, userID, date, req.Amount, models.TxExpense)

		case models.MethodCard:
			cards := store.NewCards(tx)
			if _, err := cards.GetForUser(req.PaymentMethodID, userID); err != nil {
				return err
			}
			if _, err := txns.Create(store.NewTransaction{
				UserID:      userID,
				Type:        models.TxExpense,
				Amount:      req.Amount,
				Date:        date,
				Description: req.Description,
				CategoryID:  req.CategoryID,
				CardID:      &req.PaymentMethodID,
			}); err != nil {
				return err
			}
			return cards.AdjustBalance(req.PaymentMethodID, req.Amount)

		default:
			return fmt.Errorf("invalid payment method type %q", req.MethodType)
		}
	})
}

// CreateBankTransaction records an income or expense on a bank account and
// feeds the signed delta into the cash rollup.
func (e *Engine) CreateBankTransaction(ctx context.Context, userID string, req models.CreateBankTransactionRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	if !req.Type.Valid() {
		return ErrInvalidType
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		banks := store.NewBankAccounts(tx)
		if _, err := banks.GetForUser(req.BankAccountID, userID); err != nil {
			return err
		}

		if _, err := store.NewTransactions(tx).Create(store.NewTransaction{
			UserID:        userID,
			Type:          req.Type,
			Amount:        req.Amount,
			Date:          date,
			Description:   req.Description,
			CategoryID:    req.CategoryID,
			BankAccountID: &req.BankAccountID,
		}); err != nil {
			return err
		}

		delta := req.Amount
		if req.Type == models.TxExpense {
			delta = -req.Amount
		}
		if err := banks.AdjustBalance(req.BankAccountID, delta); err != nil {
			return err
		}

		return rollup.Sync(tx, userID, date, req.Amount, req.Type)
	})
}

// Categories returns the user's categories of one type, lazily seeding the
// default set on first empty query. Transfers have no categories and
// return an empty list.
func (e *Engine) Categories(userID string, typ models.TxType) ([]models.Category, error) {
	if !typ.Valid() {
		return nil, nil
	}
	defaults := e.seeds.Expense
	if typ == models.TxIncome {
		defaults = e.seeds.Income
	}
	return store.NewCategories(e.conn).ListOrSeed(userID, typ, defaults)
}

// DeleteCategory removes a category; blocked while transactions reference it.
func (e *Engine) DeleteCategory(userID, categoryID string) error {
	return store.NewCategories(e.conn).Delete(categoryID, userID)
}

// Reconcile recomputes the closing-balance series of the daily rollup
// from the raw entries and repairs any row that drifted, returning the
// number of repaired rows.
func (e *Engine) Reconcile(ctx context.Context, userID string) (int, error) {
	var repaired int
	err := e.transact(ctx, func(tx *sql.Tx) error {
		n, err := rollup.Reconcile(tx, userID)
		repaired = n
		return err
	})
	return repaired, err
}
