package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

func newTestDB(t *testing.T) (*db.Connection, string) {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))

	user, err := NewUsers(conn).Create("tester", "tester@example.com")
	require.NoError(t, err)
	return conn, user.ID
}

func TestSignedCashSumEventSet(t *testing.T) {
	conn, userID := newTestDB(t)

	bank, err := NewBankAccounts(conn).Create(userID, models.CreateBankAccountRequest{Name: "통장", Type: "checking"})
	require.NoError(t, err)
	card, err := NewCards(conn).Create(userID, models.CreateCardRequest{Name: "카드", Type: "credit"})
	require.NoError(t, err)
	invest, err := NewInvestmentAccounts(conn).Create(userID,
		models.CreateInvestmentAccountRequest{Name: "증권", DetailType: "STOCK"}, "2026-01-01")
	require.NoError(t, err)
	logID, err := NewInvestmentLogs(conn).Create(invest.ID, models.LogDeposit, 500, "2026-08-04", "")
	require.NoError(t, err)

	txns := NewTransactions(conn)
	entries := []NewTransaction{
		// Counted: plain income and expense on a bank account.
		{UserID: userID, Type: models.TxIncome, Amount: 5000, Date: "2026-08-01", BankAccountID: &bank.ID},
		{UserID: userID, Type: models.TxExpense, Amount: 1000, Date: "2026-08-02", BankAccountID: &bank.ID},
		// Not counted: card purchase (no bank link).
		{UserID: userID, Type: models.TxExpense, Amount: 700, Date: "2026-08-02", CardID: &card.ID},
		// Not counted: bank-to-bank transfer leg.
		{UserID: userID, Type: models.TxExpense, Amount: 300, Date: "2026-08-03", BankAccountID: &bank.ID, IsTransfer: true},
		// Counted: transfer-to-investment leg (explicit link).
		{UserID: userID, Type: models.TxExpense, Amount: 500, Date: "2026-08-04", BankAccountID: &bank.ID, IsTransfer: true, InvestmentLogID: &logID},
		// Counted: card bill payment (flagged, both links).
		{UserID: userID, Type: models.TxExpense, Amount: 700, Date: "2026-08-05", BankAccountID: &bank.ID, CardID: &card.ID, IsTransfer: true},
	}
	for _, e := range entries {
		_, err := txns.Create(e)
		require.NoError(t, err)
	}

	// 5000 - 1000 = 4000 through 08-02.
	sum, err := txns.SignedCashSum(userID, "2026-08-02")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sum)

	// The bank-to-bank leg never moves the total.
	sum, err = txns.SignedCashSum(userID, "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), sum)

	// 4000 - 500 - 700 = 2800 once both cash-leaving legs land.
	sum, err = txns.SignedCashSum(userID, "2026-08-05")
	require.NoError(t, err)
	assert.Equal(t, int64(2800), sum)
}

func TestFindDepositByDateAmount(t *testing.T) {
	conn, userID := newTestDB(t)

	invest, err := NewInvestmentAccounts(conn).Create(userID,
		models.CreateInvestmentAccountRequest{Name: "증권", DetailType: "STOCK"}, "2026-01-01")
	require.NoError(t, err)
	logs := NewInvestmentLogs(conn)

	_, err = logs.FindDepositByDateAmount(userID, "2026-08-01", 1000)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := logs.Create(invest.ID, models.LogDeposit, 1000, "2026-08-01", "")
	require.NoError(t, err)

	// Withdrawals of the same date and amount never match.
	_, err = logs.Create(invest.ID, models.LogWithdraw, 1000, "2026-08-01", "")
	require.NoError(t, err)

	match, err := logs.FindDepositByDateAmount(userID, "2026-08-01", 1000)
	require.NoError(t, err)
	assert.Equal(t, first, match.ID)

	second, err := logs.Create(invest.ID, models.LogDeposit, 1000, "2026-08-01", "")
	require.NoError(t, err)

	_, err = logs.FindDepositByDateAmount(userID, "2026-08-01", 1000)
	assert.ErrorIs(t, err, ErrAmbiguousMatch)

	// A log claimed by a linked entry drops out of the candidate set.
	_, err = NewTransactions(conn).Create(NewTransaction{
		UserID: userID, Type: models.TxExpense, Amount: 1000,
		Date: "2026-08-01", IsTransfer: true, InvestmentLogID: &first,
	})
	require.NoError(t, err)

	match, err = logs.FindDepositByDateAmount(userID, "2026-08-01", 1000)
	require.NoError(t, err)
	assert.Equal(t, second, match.ID)
}

func TestListFilterAndLimit(t *testing.T) {
	conn, userID := newTestDB(t)

	bank, err := NewBankAccounts(conn).Create(userID, models.CreateBankAccountRequest{Name: "통장", Type: "checking"})
	require.NoError(t, err)

	txns := NewTransactions(conn)
	for _, date := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
		_, err := txns.Create(NewTransaction{
			UserID: userID, Type: models.TxExpense, Amount: 100, Date: date, BankAccountID: &bank.ID,
		})
		require.NoError(t, err)
	}

	all, err := txns.List(userID, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-08-03", all[0].Date) // newest business date first

	limited, err := txns.List(userID, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	ranged, err := txns.List(userID, ListFilter{FromDate: "2026-08-02", ToDate: "2026-08-02"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2026-08-02", ranged[0].Date)
}
