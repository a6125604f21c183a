// Package rollup maintains the per-user per-day cash rollup series.
//
// Every cash-affecting event lands in its KST day's accumulator, and its
// signed delta is forward-propagated into the closing balance of that day
// and every later day. The closing balance therefore means "total cash
// across all bank accounts as of end of that day" regardless of the order
// entries were recorded in: a backdated correction repairs the whole
// series in one pass.
package rollup

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// Sync records one cash event of amountChange (signed; rollback calls pass
// the negated original amount) for the given KST day. It must run inside
// the same transaction as the balance mutation it mirrors.
func Sync(q store.Querier, userID, date string, amountChange int64, typ models.TxType) error {
	if !typ.Valid() {
		return fmt.Errorf("invalid rollup type %q", typ)
	}

	stats := store.NewDailyStats(q)

	_, err := stats.Get(userID, date)
	switch err {
	case nil:
		incomeDelta, expenseDelta := int64(0), int64(0)
		if typ == models.TxIncome {
			incomeDelta = amountChange
		} else {
			expenseDelta = amountChange
		}
		if err := stats.AddToAccumulators(userID, date, incomeDelta, expenseDelta); err != nil {
			return err
		}
	case store.ErrNotFound:
		// Create path seeds the matching accumulator directly from this
		// event; closing_balance starts at zero and the propagation below
		// corrects it together with all later days.
		dailyIncome, dailyExpense := int64(0), int64(0)
		if typ == models.TxIncome {
			dailyIncome = amountChange
		} else {
			dailyExpense = amountChange
		}
		if err := stats.Create(userID, date, dailyIncome, dailyExpense); err != nil {
			return err
		}
	default:
		return err
	}

	balanceDelta := amountChange
	if typ == models.TxExpense {
		balanceDelta = -amountChange
	}
	if balanceDelta == 0 {
		return nil
	}

	return stats.PropagateFrom(userID, date, balanceDelta)
}

// Reconcile recomputes a user's rollup series and investment cost bases
// from the transaction and log tables and repairs drift. It returns the
// number of rows it had to correct; zero means the store was already
// consistent.
//
// The rollup oracle is the signed sum of all cash-pool events dated on or
// before each day: non-transfer bank entries, transfer-to-investment legs
// and card-bill payments, exactly the set Sync is fed at write time. The
// cost-basis oracle is each account's net log sum (DEPOSIT minus WITHDRAW).
//
// Transfer legs written before explicit log links existed carry no marker
// the oracle can see, so the first pass rebinds them: an expense leg with
// no bank-to-bank counterpart whose date and amount match exactly one
// DEPOSIT log gets that log's link.
func Reconcile(q store.Querier, userID string) (int, error) {
	stats := store.NewDailyStats(q)
	txns := store.NewTransactions(q)
	logs := store.NewInvestmentLogs(q)

	repaired, err := relinkLegacyLegs(txns, logs, userID)
	if err != nil {
		return repaired, err
	}

	rows, err := stats.ListRange(userID, "", "")
	if err != nil {
		return repaired, err
	}

	for _, row := range rows {
		want, err := txns.SignedCashSum(userID, row.Date)
		if err != nil {
			return repaired, err
		}
		if want == row.ClosingBalance {
			continue
		}
		if err := stats.SetClosingBalance(userID, row.Date, want); err != nil {
			return repaired, err
		}
		repaired++
	}

	invests := store.NewInvestmentAccounts(q)
	accounts, err := invests.ListByUser(userID)
	if err != nil {
		return repaired, err
	}
	for _, acc := range accounts {
		want, err := logs.SignedBasisSum(acc.ID)
		if err != nil {
			return repaired, err
		}
		if want == acc.InvestedAmount {
			continue
		}
		if err := invests.AdjustAmounts(acc.ID, want-acc.InvestedAmount, 0, 0); err != nil {
			return repaired, err
		}
		repaired++
	}

	return repaired, nil
}

func relinkLegacyLegs(txns *store.Transactions, logs *store.InvestmentLogs, userID string) (int, error) {
	legs, err := txns.ListUnlinkedTransferLegs(userID)
	if err != nil {
		return 0, err
	}

	relinked := 0
	for _, leg := range legs {
		paired, err := txns.HasTransferCounterpart(userID, leg.Date, leg.Amount)
		if err != nil {
			return relinked, err
		}
		if paired {
			continue
		}

		log, err := logs.FindDepositByDateAmount(userID, leg.Date, leg.Amount)
		switch {
		case err == nil:
			if err := txns.SetInvestmentLogLink(leg.ID, log.ID); err != nil {
				return relinked, err
			}
			relinked++
		case errors.Is(err, store.ErrNotFound):
			continue
		case errors.Is(err, store.ErrAmbiguousMatch):
			slog.Warn("ambiguous deposit match, leaving transfer leg unlinked",
				"transaction_id", leg.ID, "date", leg.Date, "amount", leg.Amount)
		default:
			return relinked, err
		}
	}
	return relinked, nil
}
