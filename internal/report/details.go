package report

import (
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
)

// Default entry limits when no date range is given.
const (
	bankDetailLimit   = 30
	cardDetailLimit   = 50
	investDetailLimit = 90
)

// BankAccountDetail is a bank account with its recent entries.
type BankAccountDetail struct {
	Account      *models.BankAccount  `json:"account"`
	Transactions []models.Transaction `json:"transactions"`
}

// BankAccountDetail returns one bank account and its entries, newest
// first. With no date range, the most recent entries up to a fixed limit;
// with a range, everything inside it.
func (s *Service) BankAccountDetail(userID, accountID, fromDate, toDate string) (*BankAccountDetail, error) {
	account, err := store.NewBankAccounts(s.conn).GetForUser(accountID, userID)
	if err != nil {
		return nil, err
	}
	filter := store.ListFilter{BankAccountID: accountID, FromDate: fromDate, ToDate: toDate}
	if fromDate == "" && toDate == "" {
		filter.Limit = bankDetailLimit
	}
	entries, err := store.NewTransactions(s.conn).List(userID, filter)
	if err != nil {
		return nil, err
	}
	return &BankAccountDetail{Account: account, Transactions: entries}, nil
}

// CardDetail is a card with its recent entries.
type CardDetail struct {
	Card         *models.Card         `json:"card"`
	Transactions []models.Transaction `json:"transactions"`
}

// CardDetail returns one card and its entries, newest first.
func (s *Service) CardDetail(userID, cardID, fromDate, toDate string) (*CardDetail, error) {
	card, err := store.NewCards(s.conn).GetForUser(cardID, userID)
	if err != nil {
		return nil, err
	}
	filter := store.ListFilter{CardID: cardID, FromDate: fromDate, ToDate: toDate}
	if fromDate == "" && toDate == "" {
		filter.Limit = cardDetailLimit
	}
	entries, err := store.NewTransactions(s.conn).List(userID, filter)
	if err != nil {
		return nil, err
	}
	return &CardDetail{Card: card, Transactions: entries}, nil
}

// InvestmentDetail is an investment account with its log and snapshot
// history.
type InvestmentDetail struct {
	Account   *models.InvestmentAccount   `json:"account"`
	Logs      []models.InvestmentLog      `json:"logs"`
	Snapshots []models.InvestmentSnapshot `json:"snapshots"`
}

// InvestmentDetail returns one investment account with its logs (newest
// first) and snapshot series (oldest first).
func (s *Service) InvestmentDetail(userID, accountID, fromDate, toDate string) (*InvestmentDetail, error) {
	account, err := store.NewInvestmentAccounts(s.conn).GetForUser(accountID, userID)
	if err != nil {
		return nil, err
	}
	limit := 0
	if fromDate == "" && toDate == "" {
		limit = investDetailLimit
	}
	logs, err := store.NewInvestmentLogs(s.conn).ListByAccount(accountID, fromDate, toDate, limit)
	if err != nil {
		return nil, err
	}
	snapshots, err := store.NewSnapshots(s.conn).ListByAccount(accountID, fromDate, toDate, limit)
	if err != nil {
		return nil, err
	}
	return &InvestmentDetail{Account: account, Logs: logs, Snapshots: snapshots}, nil
}

// PaymentMethodOptions lists everything an expense can be paid with.
type PaymentMethodOptions struct {
	BankAccounts []models.BankAccount `json:"bank_accounts"`
	Cards        []models.Card        `json:"cards"`
}

func (s *Service) PaymentMethods(userID string) (*PaymentMethodOptions, error) {
	banks, err := store.NewBankAccounts(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	cards, err := store.NewCards(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &PaymentMethodOptions{BankAccounts: banks, Cards: cards}, nil
}

// TransferTargetOptions lists everything a transfer can land on. The
// source account is excluded.
type TransferTargetOptions struct {
	BankAccounts       []models.BankAccount       `json:"bank_accounts"`
	InvestmentAccounts []models.InvestmentAccount `json:"investment_accounts"`
}

func (s *Service) TransferTargets(userID, excludeID string) (*TransferTargetOptions, error) {
	banks, err := store.NewBankAccounts(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	targets := banks[:0:0]
	for _, b := range banks {
		if b.ID != excludeID {
			targets = append(targets, b)
		}
	}
	investAccounts, err := store.NewInvestmentAccounts(s.conn).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &TransferTargetOptions{BankAccounts: targets, InvestmentAccounts: investAccounts}, nil
}

// AllAssets lists every account a user owns, grouped by kind.
type AllAssets struct {
	BankAccounts       []models.BankAccount       `json:"bank_accounts"`
	Cards              []models.Card              `json:"cards"`
	InvestmentAccounts []models.InvestmentAccount `json:"investment_accounts"`
}

func (s *Service) AllAssets(userID string) (*AllAssets, error) {
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
	return &AllAssets{BankAccounts: banks, Cards: cards, InvestmentAccounts: investAccounts}, nil
}
