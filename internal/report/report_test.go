package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/config"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

type fixture struct {
	conn    *db.Connection
	service *Service
	ledger  *ledger.Engine
	invest  *investment.Engine
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "report.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))

	user, err := store.NewUsers(conn).Create("tester", "tester@example.com")
	require.NoError(t, err)

	seeds := config.CategorySeeds{
		Income:  []string{"월급"},
		Expense: []string{"식비", "교통/차량"},
	}
	return &fixture{
		conn:    conn,
		service: NewService(conn),
		ledger:  ledger.NewEngine(conn, seeds),
		invest:  investment.NewEngine(conn),
		userID:  user.ID,
	}
}

func TestDashboardSummaryAndChart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := dateutil.Today()

	bank, err := f.ledger.CreateBankAccount(ctx, f.userID, models.CreateBankAccountRequest{
		Name: "급여통장", Type: "checking", CurrentBalance: 10000,
	})
	require.NoError(t, err)
	require.NoError(t, f.ledger.CreateBankTransaction(ctx, f.userID, models.CreateBankTransactionRequest{
		BankAccountID: bank.ID, Type: models.TxIncome, Amount: 5000, Date: today, Description: "월급",
	}))

	card, err := f.ledger.CreateCard(ctx, f.userID, models.CreateCardRequest{Name: "신용카드", Type: "credit"})
	require.NoError(t, err)
	require.NoError(t, f.ledger.CreateExpense(ctx, f.userID, models.CreateExpenseRequest{
		MethodType: models.MethodCard, PaymentMethodID: card.ID,
		Amount: 2000, Date: today, Description: "편의점",
	}))

	_, err = f.invest.CreateAccount(ctx, f.userID, models.CreateInvestmentAccountRequest{
		Name: "증권계좌", DetailType: "STOCK", CurrentValuation: 50000,
	})
	require.NoError(t, err)

	dashboard, err := f.service.Dashboard(f.userID)
	require.NoError(t, err)

	assert.Equal(t, int64(15000), dashboard.Summary.TotalCash)
	assert.Equal(t, int64(2000), dashboard.Summary.TotalCardDebt)
	assert.Equal(t, int64(50000), dashboard.Summary.TotalInvestment)
	assert.Equal(t, int64(63000), dashboard.Summary.NetWorth)

	require.Len(t, dashboard.Chart, 7)
	last := dashboard.Chart[len(dashboard.Chart)-1]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, int64(15000), last.Cash)
	assert.Equal(t, int64(65000), last.Total)

	// Both of today's entries come back with display names resolved.
	require.Len(t, dashboard.TodayTransactions, 2)
	names := map[string]bool{}
	for _, e := range dashboard.TodayTransactions {
		names[e.BankAccountName+e.CardName] = true
	}
	assert.True(t, names["급여통장"])
	assert.True(t, names["신용카드"])

	require.Len(t, dashboard.Performance, 1)
}

func TestMonthlyCategoryStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := dateutil.Today()
	now := time.Now().In(dateutil.Seoul)

	bank, err := f.ledger.CreateBankAccount(ctx, f.userID, models.CreateBankAccountRequest{
		Name: "통장", Type: "checking", CurrentBalance: 100000,
	})
	require.NoError(t, err)

	categories, err := f.ledger.Categories(f.userID, models.TxExpense)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	require.NoError(t, f.ledger.CreateExpense(ctx, f.userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: bank.ID,
		Amount: 3000, Date: today, Description: "점심", CategoryID: &categories[0].ID,
	}))
	require.NoError(t, f.ledger.CreateExpense(ctx, f.userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: bank.ID,
		Amount: 1000, Date: today, Description: "버스", CategoryID: &categories[1].ID,
	}))

	stats, err := f.service.MonthlyCategoryStats(f.userID, now.Year(), int(now.Month()), models.TxExpense)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Largest first, shares of the 4000 total.
	assert.Equal(t, int64(3000), stats[0].Amount)
	assert.Equal(t, "75", stats[0].Percentage.String())
	assert.Equal(t, int64(1000), stats[1].Amount)
	assert.Equal(t, "25", stats[1].Percentage.String())
}

func TestInvestmentTrend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, err := f.invest.CreateAccount(ctx, f.userID, models.CreateInvestmentAccountRequest{
		Name: "증권계좌", DetailType: "STOCK", CurrentValuation: 100000, AccountOpenDate: "2026-03-02",
	})
	require.NoError(t, err)
	require.NoError(t, f.invest.RecordValuation(ctx, f.userID, models.RecordValuationRequest{
		AccountID: account.ID, NewValuation: 110000, AsOfDate: "2026-03-10",
	}))

	trend, err := f.service.InvestmentTrend(f.userID, 2026, 3)
	require.NoError(t, err)
	require.Len(t, trend, 2)

	assert.Equal(t, "2026-03-02", trend[0].Date)
	assert.Equal(t, "0", trend[0].ROIPercent.String())
	assert.Equal(t, "2026-03-10", trend[1].Date)
	assert.Equal(t, int64(110000), trend[1].TotalValue)
	assert.Equal(t, "10", trend[1].ROIPercent.String())
}

func TestBankAccountDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bank, err := f.ledger.CreateBankAccount(ctx, f.userID, models.CreateBankAccountRequest{
		Name: "통장", Type: "checking", CurrentBalance: 100000,
	})
	require.NoError(t, err)
	require.NoError(t, f.ledger.CreateExpense(ctx, f.userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: bank.ID,
		Amount: 3000, Date: "2026-08-01", Description: "점심",
	}))
	require.NoError(t, f.ledger.CreateExpense(ctx, f.userID, models.CreateExpenseRequest{
		MethodType: models.MethodBank, PaymentMethodID: bank.ID,
		Amount: 1000, Date: "2026-08-15", Description: "버스",
	}))

	detail, err := f.service.BankAccountDetail(f.userID, bank.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(96000), detail.Account.CurrentBalance)
	require.Len(t, detail.Transactions, 2)

	ranged, err := f.service.BankAccountDetail(f.userID, bank.ID, "2026-08-10", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, ranged.Transactions, 1)
	assert.Equal(t, "2026-08-15", ranged.Transactions[0].Date)
}

func TestOptionLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bank, err := f.ledger.CreateBankAccount(ctx, f.userID, models.CreateBankAccountRequest{
		Name: "통장", Type: "checking", CurrentBalance: 100000,
	})
	require.NoError(t, err)
	other, err := f.ledger.CreateBankAccount(ctx, f.userID, models.CreateBankAccountRequest{
		Name: "비상금통장", Type: "savings",
	})
	require.NoError(t, err)
	_, err = f.ledger.CreateCard(ctx, f.userID, models.CreateCardRequest{Name: "신용카드", Type: "credit"})
	require.NoError(t, err)
	_, err = f.invest.CreateAccount(ctx, f.userID, models.CreateInvestmentAccountRequest{
		Name: "증권계좌", DetailType: "STOCK", CurrentValuation: 50000,
	})
	require.NoError(t, err)

	methods, err := f.service.PaymentMethods(f.userID)
	require.NoError(t, err)
	assert.Len(t, methods.BankAccounts, 2)
	assert.Len(t, methods.Cards, 1)

	targets, err := f.service.TransferTargets(f.userID, bank.ID)
	require.NoError(t, err)
	require.Len(t, targets.BankAccounts, 1)
	assert.Equal(t, other.ID, targets.BankAccounts[0].ID)
	assert.Len(t, targets.InvestmentAccounts, 1)

	assets, err := f.service.AllAssets(f.userID)
	require.NoError(t, err)
	assert.Len(t, assets.BankAccounts, 2)
	assert.Len(t, assets.Cards, 1)
	assert.Len(t, assets.InvestmentAccounts, 1)
}
