package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/rollup"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// signedDelta is the balance impact of an entry on its bank account.
func signedDelta(typ models.TxType, amount int64) int64 {
	if typ == models.TxExpense {
		return -amount
	}
	return amount
}

// UpdateTransaction edits a bank-linked entry's amount, date, description
// and category. The entry type is immutable.
//
// The stored effect is fully reversed before the new one is applied, so
// the account balance and the daily rollup stay consistent even when the
// edit moves the entry to another date. Legs of compound movements
// (transfer-to-investment, card bill payment) cannot be edited in place.
func (e *Engine) UpdateTransaction(ctx context.Context, userID string, req models.UpdateTransactionRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	newDate, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		txns := store.NewTransactions(tx)
		banks := store.NewBankAccounts(tx)

		old, err := txns.GetForUser(req.TransactionID, userID)
		if err != nil {
			return err
		}
		if old.BankAccountID == nil {
			return ErrNoLinkedAccount
		}
		if old.InvestmentLogID != nil || (old.IsTransfer && old.CardID != nil) {
			return ErrCompoundEntry
		}

		// Roll back the stored effect.
		if err := banks.AdjustBalance(*old.BankAccountID, -signedDelta(old.Type, old.Amount)); err != nil {
			return err
		}
		if !old.IsTransfer {
			if err := rollup.Sync(tx, userID, old.Date, -old.Amount, old.Type); err != nil {
				return err
			}
		}

		if err := txns.UpdateFields(old.ID, req.Amount, newDate, req.Description, req.CategoryID); err != nil {
			return err
		}

		// Apply the new one.
		if err := banks.AdjustBalance(*old.BankAccountID, signedDelta(old.Type, req.Amount)); err != nil {
			return err
		}
		if !old.IsTransfer {
			return rollup.Sync(tx, userID, newDate, req.Amount, old.Type)
		}
		return nil
	})
}

// DeleteTransaction removes an entry and reverses every side effect it
// carried: account balances, the daily rollup, and, for transfer legs into
// an investment account, the linked deposit log, the cost basis and the
// snapshot series.
func (e *Engine) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		txns := store.NewTransactions(tx)

		entry, err := txns.GetForUser(transactionID, userID)
		if err != nil {
			return err
		}

		switch {
		case entry.BankAccountID != nil:
			if err := e.reverseBankEntry(tx, userID, entry); err != nil {
				return err
			}
		case entry.CardID != nil:
			// Card purchase: the card tracked the spend as owed amount
			// and the rollup never saw it.
			if err := store.NewCards(tx).AdjustBalance(*entry.CardID, -entry.Amount); err != nil {
				return err
			}
		}

		return txns.Delete(entry.ID)
	})
}

func (e *Engine) reverseBankEntry(tx *sql.Tx, userID string, entry *models.Transaction) error {
	banks := store.NewBankAccounts(tx)

	if err := banks.AdjustBalance(*entry.BankAccountID, -signedDelta(entry.Type, entry.Amount)); err != nil {
		return err
	}

	if !entry.IsTransfer {
		return rollup.Sync(tx, userID, entry.Date, -entry.Amount, entry.Type)
	}

	// Flagged entries. Three shapes share the flag: card bill payments,
	// transfer legs into an investment account, and bank-to-bank legs.
	switch {
	case entry.CardID != nil:
		// Bill payment: the card owes the amount again, and the cash
		// pool got it back.
		if err := store.NewCards(tx).AdjustBalance(*entry.CardID, entry.Amount); err != nil {
			return err
		}
		return rollup.Sync(tx, userID, entry.Date, -entry.Amount, models.TxExpense)

	case entry.InvestmentLogID != nil:
		// The link always resolves: the schema enforces it and a linked
		// log cannot be deleted on its own.
		log, err := store.NewInvestmentLogs(tx).Get(*entry.InvestmentLogID)
		if err != nil {
			return err
		}
		return e.unwindInvestmentLeg(tx, userID, entry, log)

	case entry.Type == models.TxExpense:
		// Rows written before explicit log links existed: match a
		// same-day DEPOSIT log of the same amount. No match means a
		// plain bank-to-bank leg.
		log, err := store.NewInvestmentLogs(tx).FindDepositByDateAmount(userID, entry.Date, entry.Amount)
		switch {
		case err == nil:
			return e.unwindInvestmentLeg(tx, userID, entry, log)
		case errors.Is(err, store.ErrNotFound):
			return nil
		case errors.Is(err, store.ErrAmbiguousMatch):
			slog.Warn("ambiguous deposit match, leaving investment side untouched",
				"transaction_id", entry.ID, "date", entry.Date, "amount", entry.Amount)
			return nil
		default:
			return err
		}
	}

	// Income leg of a bank-to-bank transfer.
	return nil
}

// unwindInvestmentLeg reverses the investment side of a transfer leg: the
// snapshot series, the account's basis and valuation, the deposit log
// itself, and the cash rollup entry the leg produced.
func (e *Engine) unwindInvestmentLeg(tx *sql.Tx, userID string, entry *models.Transaction, log *models.InvestmentLog) error {
	if err := investment.SyncSnapshots(tx, log.InvestmentAccountID, log.Date, -log.Amount); err != nil {
		return err
	}
	if err := investment.ReverseLogEffect(tx, log.InvestmentAccountID, log.Type, log.Amount); err != nil {
		return err
	}
	if err := store.NewInvestmentLogs(tx).Delete(log.ID); err != nil {
		return err
	}
	return rollup.Sync(tx, userID, entry.Date, -entry.Amount, models.TxExpense)
}
