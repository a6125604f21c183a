// Package models defines the domain types shared across the account book.
package models

import "time"

// TxType represents the direction of a ledger entry.
type TxType string

const (
	TxIncome  TxType = "INCOME"
	TxExpense TxType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == TxIncome || t == TxExpense
}

// InvestLogType represents the kind of an investment log entry.
type InvestLogType string

const (
	LogDeposit  InvestLogType = "DEPOSIT"
	LogWithdraw InvestLogType = "WITHDRAW"
	LogDividend InvestLogType = "DIVIDEND"
)

// Valid reports whether t is a known investment log type.
func (t InvestLogType) Valid() bool {
	return t == LogDeposit || t == LogWithdraw || t == LogDividend
}

// MethodType distinguishes the payment method of an expense.
type MethodType string

const (
	MethodBank MethodType = "BANK"
	MethodCard MethodType = "CARD"
)

// User is the resolved identity of the current caller.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// BankAccount is a cash account; CurrentBalance is funds available.
type BankAccount struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"` // checking, savings, ...
	CurrentBalance int64     `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// Card is a credit card; CurrentBalance is the amount owed and grows with
// spend. It only touches the cash pool when the bill is paid.
type Card struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Name                string    `json:"name"`
	Type                string    `json:"type"`
	PaymentDay          *int      `json:"payment_day,omitempty"`
	CurrentBalance      int64     `json:"current_balance"`
	LinkedBankAccountID *string   `json:"linked_bank_account_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// InvestmentAccount holds the cost basis, current market valuation and
// cumulative dividends of one investment account.
type InvestmentAccount struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	DetailType         string    `json:"detail_type"` // STOCK, COIN, ...
	InvestedAmount     int64     `json:"invested_amount"`
	CurrentValuation   int64     `json:"current_valuation"`
	CumulativeDividend int64     `json:"cumulative_dividend"`
	AccountOpenDate    string    `json:"account_open_date"` // YYYY-MM-DD
	CreatedAt          time.Time `json:"created_at"`
}

// Category is a user-scoped income/expense label.
type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Type   TxType `json:"type"`
}

// Transaction is one ledger entry. Exactly one of BankAccountID and CardID
// is set for a money movement; IsTransfer excludes the entry from
// income/expense statistics while it still affects balances.
// InvestmentLogID links the expense leg of a transfer-to-investment to the
// DEPOSIT log it created, so deleting the transfer can reverse both sides
// deterministically.
type Transaction struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Type            TxType    `json:"type"`
	Amount          int64     `json:"amount"`
	Date            string    `json:"date"` // YYYY-MM-DD business date
	Description     string    `json:"description"`
	CategoryID      *string   `json:"category_id,omitempty"`
	BankAccountID   *string   `json:"bank_account_id,omitempty"`
	CardID          *string   `json:"card_id,omitempty"`
	IsTransfer      bool      `json:"is_transfer"`
	InvestmentLogID *string   `json:"investment_log_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// InvestmentLog is one cost-basis ledger entry for an investment account.
type InvestmentLog struct {
	ID                  string        `json:"id"`
	InvestmentAccountID string        `json:"investment_account_id"`
	Type                InvestLogType `json:"type"`
	Amount              int64         `json:"amount"`
	Date                string        `json:"date"` // YYYY-MM-DD
	Note                string        `json:"note"`
	CreatedAt           time.Time     `json:"created_at"`
}

// InvestmentSnapshot is the frozen valuation of one account at one day's
// close; unique per (account, date), always overwritten on re-record.
type InvestmentSnapshot struct {
	ID                  string `json:"id"`
	InvestmentAccountID string `json:"investment_account_id"`
	Date                string `json:"date"` // YYYY-MM-DD
	TotalValue          int64  `json:"total_value"`
	InvestedAmount      int64  `json:"invested_amount"`
}

// DailyStat is the per-user per-day cash rollup; ClosingBalance is the
// cumulative cash position across all bank accounts as of end of that day.
type DailyStat struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Date           string `json:"date"` // YYYY-MM-DD
	DailyIncome    int64  `json:"daily_income"`
	DailyExpense   int64  `json:"daily_expense"`
	ClosingBalance int64  `json:"closing_balance"`
}
