// Package report answers the read-only dashboard and statistics queries.
// It never mutates the store; every number it returns is derived from the
// tables the ledger and investment engines maintain.
package report

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// chartDays is the length of the dashboard sparkline, today included.
const chartDays = 7

// Service runs reporting queries against the backing store.
type Service struct {
	conn *db.Connection
}

func NewService(conn *db.Connection) *Service {
	return &Service{conn: conn}
}

// Summary is the net-worth header of the dashboard.
type Summary struct {
	TotalCash       int64 `json:"total_cash"`
	TotalCardDebt   int64 `json:"total_card_debt"`
	TotalInvestment int64 `json:"total_investment"`
	NetWorth        int64 `json:"net_worth"`
}

// ChartPoint is one day of the dashboard asset series.
type ChartPoint struct {
	Date       string `json:"date"`
	Cash       int64  `json:"cash"`
	Investment int64  `json:"investment"`
	Total      int64  `json:"total"`
}

// EntryView is a transaction joined with the display names of whatever it
// is linked to.
type EntryView struct {
	models.Transaction
	CategoryName    string `json:"category_name,omitempty"`
	BankAccountName string `json:"bank_account_name,omitempty"`
	CardName        string `json:"card_name,omitempty"`
}

// Dashboard is the aggregate home-screen payload.
type Dashboard struct {
	Summary           Summary                  `json:"summary"`
	DiffFromYesterday int64                    `json:"diff_from_yesterday"`
	Chart             []ChartPoint             `json:"chart"`
	TodayTransactions []EntryView              `json:"today_transactions"`
	Performance       []investment.Performance `json:"performance"`
}

// Dashboard assembles the summary, the asset sparkline, today's entries
// and the investment performance list in one pass.
//
// Past chart days come from the rollup series and the snapshot tables;
// today always comes from live balances. The rollup's closing balance is a
// relative series (opening balances predate it), so past days are shifted
// by the offset that makes the series meet today's live cash.
func (s *Service) Dashboard(userID string) (*Dashboard, error) {
	banks, err := store.NewBankAccounts(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	cards, err := store.NewCards(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	investAccounts, err := store.NewInvestmentAccounts(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var sum Summary
	for _, b := range banks {
		sum.TotalCash += b.CurrentBalance
	}
	for _, c := range cards {
		sum.TotalCardDebt += c.CurrentBalance
	}
	for _, a := range investAccounts {
		sum.TotalInvestment += a.CurrentValuation
	}
	sum.NetWorth = sum.TotalCash + sum.TotalInvestment - sum.TotalCardDebt

	today := dateutil.Today()

	closingToday, err := s.closingBalanceAsOf(userID, today)
	if err != nil {
		return nil, err
	}
	cashOffset := sum.TotalCash - closingToday

	chart := make([]ChartPoint, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		day := dateutil.AddDays(today, -i)

		var cash, invest int64
		if day == today {
			cash, invest = sum.TotalCash, sum.TotalInvestment
		} else {
			closing, err := s.closingBalanceAsOf(userID, day)
			if err != nil {
				return nil, err
			}
			cash = closing + cashOffset
			if invest, err = s.snapshotSumAsOf(userID, day); err != nil {
				return nil, err
			}
		}
		chart = append(chart, ChartPoint{
			Date:       day,
			Cash:       cash,
			Investment: invest,
			Total:      cash + invest,
		})
	}

	var diff int64
	if len(chart) >= 2 {
		diff = chart[len(chart)-1].Total - chart[len(chart)-2].Total
	}

	todayEntries, err := s.entriesWithNames(userID, today, today, 0)
	if err != nil {
		return nil, err
	}

	performance, err := investment.PerformanceDeltas(s.conn, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Summary:           sum,
		DiffFromYesterday: diff,
		Chart:             chart,
		TodayTransactions: todayEntries,
		Performance:       performance,
	}, nil
}

// closingBalanceAsOf returns the latest rollup closing balance on or
// before a day, zero when the series has not started yet.
func (s *Service) closingBalanceAsOf(userID, day string) (int64, error) {
	var closing int64
	err := s.conn.QueryRow(
		`SELECT closing_balance FROM daily_stats
		 WHERE user_id = ? AND date <= ?
		 ORDER BY date DESC LIMIT 1`,
		userID, day).Scan(&closing)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read closing balance: %w", err)
	}
	return closing, nil
}

// snapshotSumAsOf sums the latest snapshot on or before a day across all
// of the user's investment accounts.
func (s *Service) snapshotSumAsOf(userID, day string) (int64, error) {
	var sum sql.NullInt64
	err := s.conn.QueryRow(
		`SELECT SUM(s.total_value)
		 FROM investment_snapshots s
		 JOIN investment_accounts a ON a.id = s.investment_account_id
		 WHERE a.user_id = ? AND s.date = (
		     SELECT MAX(date) FROM investment_snapshots
		     WHERE investment_account_id = s.investment_account_id AND date <= ?
		 )`,
		userID, day).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum snapshots: %w", err)
	}
	return sum.Int64, nil
}

// entriesWithNames lists a user's entries in a date range, newest first,
// joined with category, bank account and card names. limit 0 means no
// limit.
func (s *Service) entriesWithNames(userID, fromDate, toDate string, limit int) ([]EntryView, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.amount, t.date, t.description,
		       t.category_id, t.bank_account_id, t.card_id, t.is_transfer,
		       t.investment_log_id, t.created_at,
		       COALESCE(c.name, ''), COALESCE(b.name, ''), COALESCE(cd.name, '')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN bank_accounts b ON b.id = t.bank_account_id
		LEFT JOIN cards cd ON cd.id = t.card_id
		WHERE t.user_id = ? AND t.date >= ? AND t.date <= ?
		ORDER BY t.date DESC, t.created_at DESC`
	args := []interface{}{userID, fromDate, toDate}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []EntryView{}
	for rows.Next() {
		var e EntryView
		var isTransfer int
		var categoryID, bankID, cardID, logID sql.NullString
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Type, &e.Amount, &e.Date, &e.Description,
			&categoryID, &bankID, &cardID, &isTransfer, &logID, &e.CreatedAt,
			&e.CategoryName, &e.BankAccountName, &e.CardName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.CategoryID = nullableStr(categoryID)
		e.BankAccountID = nullableStr(bankID)
		e.CardID = nullableStr(cardID)
		e.InvestmentLogID = nullableStr(logID)
		e.IsTransfer = isTransfer != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
