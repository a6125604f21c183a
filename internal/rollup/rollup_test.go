package rollup

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

func newTestDB(t *testing.T) (*db.Connection, string) {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "rollup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))

	user, err := store.NewUsers(conn).Create("tester", "tester@example.com")
	require.NoError(t, err)
	return conn, user.ID
}

func getStat(t *testing.T, conn *db.Connection, userID, date string) *models.DailyStat {
	t.Helper()
	stat, err := store.NewDailyStats(conn).Get(userID, date)
	require.NoError(t, err)
	return stat
}

func TestSyncSeedsAndAccumulates(t *testing.T) {
	conn, userID := newTestDB(t)

	require.NoError(t, Sync(conn, userID, "2026-08-01", 1000, models.TxIncome))

	stat := getStat(t, conn, userID, "2026-08-01")
	assert.Equal(t, int64(1000), stat.DailyIncome)
	assert.Equal(t, int64(0), stat.DailyExpense)
	assert.Equal(t, int64(1000), stat.ClosingBalance)

	require.NoError(t, Sync(conn, userID, "2026-08-01", 400, models.TxExpense))

	stat = getStat(t, conn, userID, "2026-08-01")
	assert.Equal(t, int64(1000), stat.DailyIncome)
	assert.Equal(t, int64(400), stat.DailyExpense)
	assert.Equal(t, int64(600), stat.ClosingBalance)
}

func TestSyncRejectsInvalidType(t *testing.T) {
	conn, userID := newTestDB(t)
	assert.Error(t, Sync(conn, userID, "2026-08-01", 1000, models.TxType("TRANSFER")))
}

func TestSyncBackdatedEventRepairsLaterDays(t *testing.T) {
	conn, userID := newTestDB(t)

	require.NoError(t, Sync(conn, userID, "2026-08-03", 1000, models.TxIncome))
	require.NoError(t, Sync(conn, userID, "2026-08-05", 2000, models.TxIncome))

	// A backdated expense must flow into every later closing balance.
	require.NoError(t, Sync(conn, userID, "2026-08-01", 300, models.TxExpense))

	assert.Equal(t, int64(-300), getStat(t, conn, userID, "2026-08-01").ClosingBalance)
	assert.Equal(t, int64(700), getStat(t, conn, userID, "2026-08-03").ClosingBalance)
	assert.Equal(t, int64(2700), getStat(t, conn, userID, "2026-08-05").ClosingBalance)
}

func TestSyncNegativeAmountRollsBack(t *testing.T) {
	conn, userID := newTestDB(t)

	require.NoError(t, Sync(conn, userID, "2026-08-01", 1000, models.TxIncome))
	require.NoError(t, Sync(conn, userID, "2026-08-02", 400, models.TxExpense))

	// Rollback passes the negated original amount at the original date.
	require.NoError(t, Sync(conn, userID, "2026-08-02", -400, models.TxExpense))

	stat := getStat(t, conn, userID, "2026-08-02")
	assert.Equal(t, int64(0), stat.DailyExpense)
	assert.Equal(t, int64(1000), stat.ClosingBalance)
}

func TestReconcileRepairsDriftOnce(t *testing.T) {
	conn, userID := newTestDB(t)

	// A rollup row with no backing transaction is drift by definition.
	require.NoError(t, Sync(conn, userID, "2026-08-01", 1000, models.TxIncome))

	repaired, err := Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, int64(0), getStat(t, conn, userID, "2026-08-01").ClosingBalance)

	// A consistent series is a no-op.
	repaired, err = Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
}

func TestReconcileMatchesTransactionLog(t *testing.T) {
	conn, userID := newTestDB(t)

	account, err := store.NewBankAccounts(conn).Create(userID, models.CreateBankAccountRequest{Name: "급여통장", Type: "checking"})
	require.NoError(t, err)

	txns := store.NewTransactions(conn)
	_, err = txns.Create(store.NewTransaction{
		UserID: userID, Type: models.TxIncome, Amount: 5000,
		Date: "2026-08-01", Description: "월급", BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	require.NoError(t, Sync(conn, userID, "2026-08-01", 5000, models.TxIncome))

	_, err = txns.Create(store.NewTransaction{
		UserID: userID, Type: models.TxExpense, Amount: 2000,
		Date: "2026-08-02", Description: "장보기", BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	require.NoError(t, Sync(conn, userID, "2026-08-02", 2000, models.TxExpense))

	repaired, err := Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)

	// Corrupt one closing balance and confirm it is restored.
	require.NoError(t, store.NewDailyStats(conn).SetClosingBalance(userID, "2026-08-02", 99999))
	repaired, err = Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, int64(3000), getStat(t, conn, userID, "2026-08-02").ClosingBalance)
}

func TestReconcileRelinksLegacyTransferLeg(t *testing.T) {
	conn, userID := newTestDB(t)

	bank, err := store.NewBankAccounts(conn).Create(userID, models.CreateBankAccountRequest{Name: "통장", Type: "checking"})
	require.NoError(t, err)
	invests := store.NewInvestmentAccounts(conn)
	invest, err := invests.Create(userID, models.CreateInvestmentAccountRequest{
		Name: "증권", DetailType: "STOCK",
	}, "2026-01-01")
	require.NoError(t, err)

	// An investment transfer written before explicit log links existed:
	// flagged expense leg, matching deposit log, nothing tying them.
	logID, err := store.NewInvestmentLogs(conn).Create(invest.ID, models.LogDeposit, 50000, "2026-08-01", "")
	require.NoError(t, err)
	require.NoError(t, invests.AdjustAmounts(invest.ID, 50000, 50000, 0))

	txns := store.NewTransactions(conn)
	legID, err := txns.Create(store.NewTransaction{
		UserID: userID, Type: models.TxExpense, Amount: 50000,
		Date: "2026-08-01", BankAccountID: &bank.ID, IsTransfer: true,
	})
	require.NoError(t, err)
	require.NoError(t, Sync(conn, userID, "2026-08-01", 50000, models.TxExpense))

	// A bank-to-bank pair on another day keeps both its legs unlinked.
	pairID, err := txns.Create(store.NewTransaction{
		UserID: userID, Type: models.TxExpense, Amount: 30000,
		Date: "2026-08-05", BankAccountID: &bank.ID, IsTransfer: true,
	})
	require.NoError(t, err)
	_, err = txns.Create(store.NewTransaction{
		UserID: userID, Type: models.TxIncome, Amount: 30000,
		Date: "2026-08-05", BankAccountID: &bank.ID, IsTransfer: true,
	})
	require.NoError(t, err)

	repaired, err := Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	leg, err := txns.Get(legID)
	require.NoError(t, err)
	require.NotNil(t, leg.InvestmentLogID)
	assert.Equal(t, logID, *leg.InvestmentLogID)

	pair, err := txns.Get(pairID)
	require.NoError(t, err)
	assert.Nil(t, pair.InvestmentLogID)

	// With the leg back in the oracle the series needs no balance repair.
	assert.Equal(t, int64(-50000), getStat(t, conn, userID, "2026-08-01").ClosingBalance)

	repaired, err = Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
}

func TestReconcileRepairsInvestmentBasis(t *testing.T) {
	conn, userID := newTestDB(t)

	invests := store.NewInvestmentAccounts(conn)
	account, err := invests.Create(userID, models.CreateInvestmentAccountRequest{
		Name: "연금저축", DetailType: "pension", CurrentValuation: 100000,
	}, "2026-08-01")
	require.NoError(t, err)

	logs := store.NewInvestmentLogs(conn)
	_, err = logs.Create(account.ID, models.LogDeposit, 100000, "2026-08-01", "")
	require.NoError(t, err)
	_, err = logs.Create(account.ID, models.LogWithdraw, 30000, "2026-08-10", "")
	require.NoError(t, err)

	// invested_amount still carries the opening 100000; the log sum says 70000.
	repaired, err := Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	got, err := invests.Get(account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), got.InvestedAmount)

	repaired, err = Reconcile(conn, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, repaired)
}
