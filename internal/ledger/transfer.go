package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/rollup"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// Transfer moves money from a bank account to another bank account or to
// an investment account.
//
// Bank to bank materializes as two flagged entries (expense leg on the
// source, income leg on the target) and never touches the cash rollup: the
// rollup tracks total cash across all bank accounts, and an intra-cash
// move is net zero there.
//
// Bank to investment materializes as one flagged expense leg carrying an
// explicit link to the DEPOSIT log it creates, raises the target's cost
// basis and valuation, forward-propagates the target's snapshot series
// from the transfer date, and DOES hit the cash rollup: cash left the
// pool.
//
// A transfer that would drive the source balance negative is rejected.
func (e *Engine) Transfer(ctx context.Context, userID string, req models.TransferRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		banks := store.NewBankAccounts(tx)
		txns := store.NewTransactions(tx)

		source, err := banks.GetForUser(req.FromBankAccountID, userID)
		if err != nil {
			return fmt.Errorf("source account: %w", err)
		}
		if source.CurrentBalance < req.Amount {
			return ErrInsufficientBalance
		}

		// Resolve the target: a bank account first, then an investment
		// account. An unresolvable target aborts the whole unit.
		if target, err := banks.GetForUser(req.ToAccountID, userID); err == nil {
			return e.transferToBank(tx, userID, source, target, req.Amount, date, req.Description)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		target, err := store.NewInvestmentAccounts(tx).GetForUser(req.ToAccountID, userID)
		if err != nil {
			return fmt.Errorf("target account: %w", err)
		}

		// The DEPOSIT log first, so the expense leg can link to it.
		note := req.Description
		if note == "" {
			note = fmt.Sprintf("이체 (From. %s)", source.Name)
		}
		logID, err := store.NewInvestmentLogs(tx).Create(target.ID, models.LogDeposit, req.Amount, date, note)
		if err != nil {
			return err
		}

		// Snapshot sync reads pre-change target values; it runs before the
		// target adjustment.
		if err := investment.SyncSnapshots(tx, target.ID, date, req.Amount); err != nil {
			return err
		}
		if err := investment.ApplyLogEffect(tx, target.ID, models.LogDeposit, req.Amount); err != nil {
			return err
		}

		desc := req.Description
		if desc == "" {
			desc = fmt.Sprintf("이체 (To. %s)", target.Name)
		}
		if _, err := txns.Create(store.NewTransaction{
			UserID:          userID,
			Type:            models.TxExpense,
			Amount:          req.Amount,
			Date:            date,
			Description:     desc,
			BankAccountID:   &req.FromBankAccountID,
			IsTransfer:      true,
			InvestmentLogID: &logID,
		}); err != nil {
			return err
		}
		if err := banks.AdjustBalance(req.FromBankAccountID, -req.Amount); err != nil {
			return err
		}

		return rollup.Sync(tx, userID, date, req.Amount, models.TxExpense)
	})
}

func (e *Engine) transferToBank(tx *sql.Tx, userID string, source, target *models.BankAccount, amount int64, date, description string) error {
	banks := store.NewBankAccounts(tx)
	txns := store.NewTransactions(tx)

	outDesc := description
	if outDesc == "" {
		outDesc = fmt.Sprintf("이체 (To. %s)", target.Name)
	}
	if _, err := txns.Create(store.NewTransaction{
		UserID:        userID,
		Type:          models.TxExpense,
		Amount:        amount,
		Date:          date,
		Description:   outDesc,
		BankAccountID: &source.ID,
		IsTransfer:    true,
	}); err != nil {
		return err
	}
	if err := banks.AdjustBalance(source.ID, -amount); err != nil {
		return err
	}

	inDesc := description
	if inDesc == "" {
		inDesc = fmt.Sprintf("이체 (From. %s)", source.Name)
	}
	if _, err := txns.Create(store.NewTransaction{
		UserID:        userID,
		Type:          models.TxIncome,
		Amount:        amount,
		Date:          date,
		Description:   inDesc,
		BankAccountID: &target.ID,
		IsTransfer:    true,
	}); err != nil {
		return err
	}
	return banks.AdjustBalance(target.ID, amount)
}

// PayCardBill pays down a card's outstanding balance from a bank account.
// The entry is flagged as a transfer so statistics do not count the spend
// twice (it was counted at purchase), but the cash rollup IS hit: this is
// the moment card spend actually leaves the cash pool.
func (e *Engine) PayCardBill(ctx context.Context, userID string, req models.PayCardBillRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		banks := store.NewBankAccounts(tx)
		cards := store.NewCards(tx)

		bank, err := banks.GetForUser(req.BankAccountID, userID)
		if err != nil {
			return fmt.Errorf("bank account: %w", err)
		}
		if bank.CurrentBalance < req.Amount {
			return ErrInsufficientBalance
		}

		card, err := cards.GetForUser(req.CardID, userID)
		if err != nil {
			return fmt.Errorf("card: %w", err)
		}

		if err := banks.AdjustBalance(bank.ID, -req.Amount); err != nil {
			return err
		}
		if err := cards.AdjustBalance(card.ID, -req.Amount); err != nil {
			return err
		}

		if _, err := store.NewTransactions(tx).Create(store.NewTransaction{
			UserID:        userID,
			Type:          models.TxExpense,
			Amount:        req.Amount,
			Date:          date,
			Description:   fmt.Sprintf("카드대금 납부 (%s)", card.Name),
			BankAccountID: &req.BankAccountID,
			CardID:        &req.CardID,
			IsTransfer:    true,
		}); err != nil {
			return err
		}

		return rollup.Sync(tx, userID, date, req.Amount, models.TxExpense)
	})
}
