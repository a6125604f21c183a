package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

func TestCategoriesLazySeedIsIdempotent(t *testing.T) {
	engine, _, userID := newTestEngine(t)

	first, err := engine.Categories(userID, models.TxExpense)
	require.NoError(t, err)
	require.Len(t, first, len(testSeeds.Expense))

	second, err := engine.Categories(userID, models.TxExpense)
	require.NoError(t, err)
	require.Len(t, second, len(testSeeds.Expense))

	// Seeding twice must not duplicate; same rows come back.
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	income, err := engine.Categories(userID, models.TxIncome)
	require.NoError(t, err)
	assert.Len(t, income, len(testSeeds.Income))
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	engine, _, userID := newTestEngine(t)
	ctx := context.Background()
	account := newBankAccount(t, engine, userID, 10000)

	categories, err := engine.Categories(userID, models.TxExpense)
	require.NoError(t, err)
	category := categories[0]

	require.NoError(t, engine.CreateExpense(ctx, userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: account.ID,
		Amount: 1000, Date: "2026-08-01", Description: "점심", CategoryID: &category.ID,
	}))

	err = engine.DeleteCategory(userID, category.ID)
	assert.ErrorIs(t, err, store.ErrCategoryInUse)

	// An unreferenced category deletes fine.
	require.NoError(t, engine.DeleteCategory(userID, categories[1].ID))
}

func TestDeleteBankAccountLeavesRollupForReconcile(t *testing.T) {
	engine, conn, userID := newTestEngine(t)
	ctx := context.Background()
	account := newBankAccount(t, engine, userID, 0)

	require.NoError(t, engine.CreateBankTransaction(ctx, userID, models.CreateBankTransactionRequest{
		BankAccountID: account.ID, Type: models.TxIncome, Amount: 5000, Date: "2026-08-01", Description: "월급",
	}))
	require.NoError(t, engine.CreateExpense(ctx, userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: account.ID,
		Amount: 2000, Date: "2026-08-02", Description: "장보기",
	}))

	require.NoError(t, engine.DeleteBankAccount(ctx, userID, account.ID))

	_, err := store.NewBankAccounts(conn).Get(account.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, listEntries(t, conn, userID))

	// The rollup series stays stale until reconcile runs.
	assert.Equal(t, int64(3000), closingBalance(t, conn, userID, "2026-08-02"))

	repaired, err := engine.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)
	assert.Equal(t, int64(0), closingBalance(t, conn, userID, "2026-08-02"))
}

func TestDeleteCardRemovesItsEntries(t *testing.T) {
	engine, conn, userID := newTestEngine(t)
	ctx := context.Background()

	card, err := engine.CreateCard(ctx, userID, models.CreateCardRequest{Name: "신용카드", Type: "credit"})
	require.NoError(t, err)
	require.NoError(t, engine.CreateExpense(ctx, userID, models.CreateExpenseRequest{
		MethodType: models.MethodCard, PaymentMethodID: card.ID,
		Amount: 3000, Date: "2026-08-01", Description: "편의점",
	}))

	require.NoError(t, engine.DeleteCard(ctx, userID, card.ID))

	_, err = store.NewCards(conn).Get(card.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, listEntries(t, conn, userID))
}

func TestCreateCardValidatesLinkedAccount(t *testing.T) {
	engine, _, userID := newTestEngine(t)

	linked := "no-such-account"
	_, err := engine.CreateCard(context.Background(), userID, models.CreateCardRequest{
		Name: "신용카드", Type: "credit", LinkedBankAccountID: &linked,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	engine, conn, userID := newTestEngine(t)
	ctx := context.Background()

	account := newBankAccount(t, engine, userID, 10000)
	card, err := engine.CreateCard(ctx, userID, models.CreateCardRequest{Name: "신용카드", Type: "credit"})
	require.NoError(t, err)
	invest := newInvestmentAccount(t, conn, userID, 50000, "2026-01-01")

	require.NoError(t, engine.CreateExpense(ctx, userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: account.ID,
		Amount: 1000, Date: "2026-08-01", Description: "점심",
	}))
	_, err = engine.Categories(userID, models.TxExpense)
	require.NoError(t, err)

	require.NoError(t, engine.DeleteUser(ctx, userID))

	_, err = store.NewUsers(conn).Get(userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.NewBankAccounts(conn).Get(account.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.NewCards(conn).Get(card.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.NewInvestmentAccounts(conn).Get(invest.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateTransactionRejectsUnlinkedEntry(t *testing.T) {
	engine, conn, userID := newTestEngine(t)
	ctx := context.Background()

	card, err := engine.CreateCard(ctx, userID, models.CreateCardRequest{Name: "신용카드", Type: "credit"})
	require.NoError(t, err)
	require.NoError(t, engine.CreateExpense(ctx, userID, models.CreateExpenseRequest{
		MethodType: models.MethodCard, PaymentMethodID: card.ID,
		Amount: 3000, Date: "2026-08-01", Description: "편의점",
	}))

	entry := listEntries(t, conn, userID)[0]
	err = engine.UpdateTransaction(ctx, userID, models.UpdateTransactionRequest{
		TransactionID: entry.ID, Amount: 4000, Date: "2026-08-01", Description: "편의점",
	})
	assert.ErrorIs(t, err, ErrNoLinkedAccount)
}
