package models

// CreateBankAccountRequest creates a cash account with an optional opening
// balance.
type CreateBankAccountRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	CurrentBalance int64  `json:"current_balance"`
}

// CreateCardRequest creates a credit card, optionally linked to the bank
// account its bill is paid from.
type CreateCardRequest struct {
	Name                string  `json:"name"`
	Type                string  `json:"type"`
	PaymentDay          *int    `json:"payment_day,omitempty"`
	LinkedBankAccountID *string `json:"linked_bank_account_id,omitempty"`
}

// CreateInvestmentAccountRequest creates an investment account. A positive
// opening valuation becomes an implicit DEPOSIT log dated at the open date.
type CreateInvestmentAccountRequest struct {
	Name             string `json:"name"`
	DetailType       string `json:"detail_type"`
	CurrentValuation int64  `json:"current_valuation"`
	AccountOpenDate  string `json:"account_open_date,omitempty"` // YYYY-MM-DD, today if empty
}

// CreateExpenseRequest records an expense against a bank account or a card.
type CreateExpenseRequest struct {
	MethodType      MethodType `json:"method_type"` // BANK or CARD
	PaymentMethodID string     `json:"payment_method_id"`
	Amount          int64      `json:"amount"`
	Date            string     `json:"date"`
	Description     string     `json:"description"`
	CategoryID      *string    `json:"category_id,omitempty"`
}

// CreateBankTransactionRequest records an income or expense on a bank
// account.
type CreateBankTransactionRequest struct {
	BankAccountID string  `json:"bank_account_id"`
	Type          TxType  `json:"type"`
	Amount        int64   `json:"amount"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	CategoryID    *string `json:"category_id,omitempty"`
}

// TransferRequest moves money from a bank account to another bank account
// or to an investment account.
type TransferRequest struct {
	FromBankAccountID string `json:"from_bank_account_id"`
	ToAccountID       string `json:"to_account_id"`
	Amount            int64  `json:"amount"`
	Date              string `json:"date"`
	Description       string `json:"description"`
}

// UpdateTransactionRequest edits a bank-linked transaction. The type of the
// entry is immutable across an edit.
type UpdateTransactionRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        int64   `json:"amount"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	CategoryID    *string `json:"category_id,omitempty"`
}

// PayCardBillRequest pays (part of) a card's outstanding balance from a
// bank account.
type PayCardBillRequest struct {
	CardID        string `json:"card_id"`
	BankAccountID string `json:"bank_account_id"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
}

// AddInvestmentLogRequest records a deposit, withdrawal or dividend on an
// investment account.
type AddInvestmentLogRequest struct {
	AccountID string        `json:"account_id"`
	Type      InvestLogType `json:"type"`
	Amount    int64         `json:"amount"`
	Date      string        `json:"date"`
	Note      string        `json:"note"`
}

// UpdateInvestmentLogRequest edits an investment log, possibly changing its
// type.
type UpdateInvestmentLogRequest struct {
	LogID  string        `json:"log_id"`
	Type   InvestLogType `json:"type"`
	Amount int64         `json:"amount"`
	Date   string        `json:"date"`
	Note   string        `json:"note"`
}

// RecordValuationRequest sets an investment account's market valuation and
// upserts the day's snapshot.
type RecordValuationRequest struct {
	AccountID    string `json:"account_id"`
	NewValuation int64  `json:"new_valuation"`
	AsOfDate     string `json:"as_of_date,omitempty"` // YYYY-MM-DD, today if empty
}
