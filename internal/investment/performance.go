package investment

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// Performance is one account's day-over-day movement for the dashboard.
type Performance struct {
	AccountID        string          `json:"account_id"`
	Name             string          `json:"name"`
	CurrentValuation int64           `json:"current_valuation"`
	DailyChange      int64           `json:"daily_change"`      // profit delta, won
	DailyChangeRate  decimal.Decimal `json:"daily_change_rate"` // ROI delta, percentage points
}

// ROI returns profit/basis as a percentage, zero when there is no basis.
func ROI(profit, basis int64) decimal.Decimal {
	if basis == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(profit).
		Div(decimal.NewFromInt(basis)).
		Mul(decimal.NewFromInt(100))
}

// PerformanceDeltas compares each investment account's profit and ROI
// today against yesterday's snapshot. An account without a prior snapshot
// reports zero change. Results are sorted by profit delta, largest first.
func PerformanceDeltas(q store.Querier, userID string) ([]Performance, error) {
	accounts, err := store.NewInvestmentAccounts(q).ListByUser(userID)
	if err != nil {
		return nil, err
	}

	snapshots := store.NewSnapshots(q)
	yesterday := dateutil.AddDays(dateutil.Today(), -1)

	results := make([]Performance, 0, len(accounts))
	for _, account := range accounts {
		currentProfit := account.CurrentValuation - account.InvestedAmount
		currentROI := ROI(currentProfit, account.InvestedAmount)

		yesterdayProfit := currentProfit
		yesterdayROI := currentROI
		if snap, err := snapshots.Get(account.ID, yesterday); err == nil {
			yesterdayProfit = snap.TotalValue - snap.InvestedAmount
			yesterdayROI = ROI(yesterdayProfit, snap.InvestedAmount)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		results = append(results, Performance{
			AccountID:        account.ID,
			Name:             account.Name,
			CurrentValuation: account.CurrentValuation,
			DailyChange:      currentProfit - yesterdayProfit,
			DailyChangeRate:  currentROI.Sub(yesterdayROI).Round(2),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DailyChange > results[j].DailyChange
	})

	return results, nil
}
