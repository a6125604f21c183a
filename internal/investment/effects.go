// Package investment tracks cost basis, cumulative dividends and daily
// valuation snapshots for investment accounts.
package investment

import (
	"errors"
	"fmt"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

var (
	// ErrAmountNotPositive is returned for zero or negative amounts.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrInvalidLogType is returned for an unknown log type.
	ErrInvalidLogType = errors.New("invalid investment log type")

	// ErrLogLinked is returned when a log cannot be deleted on its own
	// because a transfer entry references it. Deleting that entry unwinds
	// both sides together.
	ErrLogLinked = errors.New("investment log is tied to a transfer entry")
)

// logDeltas returns the signed effect of one log on (cost basis, valuation,
// cumulative dividend):
//
//	DEPOSIT   basis += a, valuation += a
//	WITHDRAW  basis -= a, valuation -= a
//	DIVIDEND  dividend += a, valuation += a  (dividends are not cost basis)
func logDeltas(typ models.InvestLogType, amount int64) (basis, valuation, dividend int64, err error) {
	switch typ {
	case models.LogDeposit:
		return amount, amount, 0, nil
	case models.LogWithdraw:
		return -amount, -amount, 0, nil
	case models.LogDividend:
		return 0, amount, amount, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidLogType, typ)
	}
}

// ApplyLogEffect applies one log's effect to its account. Over-withdrawal
// may drive the cost basis negative; the original tracker allowed it and
// rollback paths depend on transiting such states.
func ApplyLogEffect(q store.Querier, accountID string, typ models.InvestLogType, amount int64) error {
	basis, valuation, dividend, err := logDeltas(typ, amount)
	if err != nil {
		return err
	}
	return store.NewInvestmentAccounts(q).AdjustAmounts(accountID, basis, valuation, dividend)
}

// ReverseLogEffect undoes one log's effect on its account.
func ReverseLogEffect(q store.Querier, accountID string, typ models.InvestLogType, amount int64) error {
	basis, valuation, dividend, err := logDeltas(typ, amount)
	if err != nil {
		return err
	}
	return store.NewInvestmentAccounts(q).AdjustAmounts(accountID, -basis, -valuation, -dividend)
}

// SyncSnapshots reflects a principal movement of delta effective on date
// into the account's snapshot series: every snapshot on or after the date
// gets delta added to both its total value and its invested amount.
//
// When the date has no snapshot yet, one is first seeded from the
// account's PRE-change values and then included in the propagation, so the
// seeded day ends at pre-change + delta like the rest of the series.
// Callers must therefore invoke SyncSnapshots BEFORE adjusting the account
// amounts for the same movement.
func SyncSnapshots(q store.Querier, accountID, date string, delta int64) error {
	snapshots := store.NewSnapshots(q)

	_, err := snapshots.Get(accountID, date)
	if err == store.ErrNotFound {
		account, err := store.NewInvestmentAccounts(q).Get(accountID)
		if err != nil {
			return err
		}
		if err := snapshots.Upsert(accountID, date, account.CurrentValuation, account.InvestedAmount); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return snapshots.PropagateFrom(accountID, date, delta)
}

// principalDelta returns the signed principal movement of a log, zero for
// dividends (they never touch the snapshot series' invested amount).
func principalDelta(typ models.InvestLogType, amount int64) int64 {
	switch typ {
	case models.LogDeposit:
		return amount
	case models.LogWithdraw:
		return -amount
	default:
		return 0
	}
}
