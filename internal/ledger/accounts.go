package ledger

import (
	"context"
	"database/sql"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// CreateBankAccount creates a cash account. The opening balance is taken
// as-is: it predates the ledger, so no entry and no rollup row is written
// for it.
func (e *Engine) CreateBankAccount(ctx context.Context, userID string, req models.CreateBankAccountRequest) (*models.BankAccount, error) {
	var account *models.BankAccount
	err := e.transact(ctx, func(tx *sql.Tx) error {
		created, err := store.NewBankAccounts(tx).Create(userID, req)
		if err != nil {
			return err
		}
		account = created
		return nil
	})
	return account, err
}

// CreateCard creates a credit card. Cards start with nothing owed.
func (e *Engine) CreateCard(ctx context.Context, userID string, req models.CreateCardRequest) (*models.Card, error) {
	var card *models.Card
	err := e.transact(ctx, func(tx *sql.Tx) error {
		if req.LinkedBankAccountID != nil {
			if _, err := store.NewBankAccounts(tx).GetForUser(*req.LinkedBankAccountID, userID); err != nil {
				return err
			}
		}
		created, err := store.NewCards(tx).Create(userID, req)
		if err != nil {
			return err
		}
		card = created
		return nil
	})
	return card, err
}

// DeleteBankAccount removes a bank account together with every entry
// booked against it. The daily rollup is NOT rewound entry by entry;
// Reconcile repairs the closing-balance series afterwards.
func (e *Engine) DeleteBankAccount(ctx context.Context, userID, accountID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		banks := store.NewBankAccounts(tx)
		if _, err := banks.GetForUser(accountID, userID); err != nil {
			return err
		}
		if err := store.NewTransactions(tx).DeleteByBankAccount(accountID); err != nil {
			return err
		}
		if err := store.NewCards(tx).ClearBankLinks(accountID); err != nil {
			return err
		}
		return banks.Delete(accountID)
	})
}

// DeleteCard removes a card together with every entry booked against it.
func (e *Engine) DeleteCard(ctx context.Context, userID, cardID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		cards := store.NewCards(tx)
		if _, err := cards.GetForUser(cardID, userID); err != nil {
			return err
		}
		if err := store.NewTransactions(tx).DeleteByCard(cardID); err != nil {
			return err
		}
		return cards.Delete(cardID)
	})
}

// DeleteUser removes a user and everything they own, child rows first so
// every foreign key stays satisfied throughout.
func (e *Engine) DeleteUser(ctx context.Context, userID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		users := store.NewUsers(tx)
		if _, err := users.Get(userID); err != nil {
			return err
		}

		if err := store.NewTransactions(tx).DeleteByUser(userID); err != nil {
			return err
		}
		if err := store.NewDailyStats(tx).DeleteByUser(userID); err != nil {
			return err
		}

		investAccounts, err := store.NewInvestmentAccounts(tx).ListByUser(userID)
		if err != nil {
			return err
		}
		snapshots := store.NewSnapshots(tx)
		logs := store.NewInvestmentLogs(tx)
		for _, a := range investAccounts {
			if err := snapshots.DeleteByAccount(a.ID); err != nil {
				return err
			}
			if err := logs.DeleteByAccount(a.ID); err != nil {
				return err
			}
		}
		if err := store.NewInvestmentAccounts(tx).DeleteByUser(userID); err != nil {
			return err
		}

		if err := store.NewCards(tx).DeleteByUser(userID); err != nil {
			return err
		}
		if err := store.NewBankAccounts(tx).DeleteByUser(userID); err != nil {
			return err
		}
		if err := store.NewCategories(tx).DeleteByUser(userID); err != nil {
			return err
		}
		return users.Delete(userID)
	})
}
