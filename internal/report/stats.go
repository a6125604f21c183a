package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// CategoryStat is one category's share of a month.
type CategoryStat struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Amount       int64           `json:"amount"`
	Count        int             `json:"count"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// MonthlyCategoryStats groups one month's categorized entries of a type by
// category, largest amount first, with each category's percentage share.
// Transfer legs carry no category and never appear.
func (s *Service) MonthlyCategoryStats(userID string, year, month int, typ models.TxType) ([]CategoryStat, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("invalid transaction type %q", typ)
	}
	first, last := dateutil.MonthRange(year, month)

	totals, err := store.NewTransactions(s.conn).SumByCategory(userID, typ, first, last)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, t := range totals {
		total += t.Amount
	}

	stats := make([]CategoryStat, 0, len(totals))
	for _, t := range totals {
		stats = append(stats, CategoryStat{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Amount:       t.Amount,
			Count:        t.Count,
			Percentage:   investment.ROI(t.Amount, total).Round(1),
		})
	}
	return stats, nil
}

// TrendPoint is one day of the monthly investment trend.
type TrendPoint struct {
	Date           string          `json:"date"`
	TotalValue     int64           `json:"total_value"`
	InvestedAmount int64           `json:"invested_amount"`
	ROIPercent     decimal.Decimal `json:"roi_percent"`
}

// InvestmentTrend sums the snapshot series across all of a user's
// investment accounts per day of a month, with the ROI each day implies.
// Only days that have at least one snapshot appear.
func (s *Service) InvestmentTrend(userID string, year, month int) ([]TrendPoint, error) {
	first, last := dateutil.MonthRange(year, month)

	rows, err := s.conn.Query(
		`SELECT s.date, SUM(s.total_value), SUM(s.invested_amount)
		 FROM investment_snapshots s
		 JOIN investment_accounts a ON a.id = s.investment_account_id
		 WHERE a.user_id = ? AND s.date >= ? AND s.date <= ?
		 GROUP BY s.date
		 ORDER BY s.date ASC`,
		userID, first, last)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment trend: %w", err)
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.TotalValue, &p.InvestedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		p.ROIPercent = investment.ROI(p.TotalValue-p.InvestedAmount, p.InvestedAmount).Round(2)
		points = append(points, p)
	}
	return points, rows.Err()
}
