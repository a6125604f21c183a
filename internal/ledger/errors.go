package ledger

import (
	"errors"

	"github.com/drasla/my-own-accountbook/internal/investment"
)

var (
	// ErrAmountNotPositive is returned for zero or negative amounts.
	ErrAmountNotPositive = investment.ErrAmountNotPositive

	// ErrInvalidType is returned for an unknown transaction type.
	ErrInvalidType = errors.New("invalid transaction type")

	// ErrInsufficientBalance rejects a transfer or bill payment that would
	// drive the source account negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoLinkedAccount is returned when editing or deleting an entry
	// that has no linked bank account.
	ErrNoLinkedAccount = errors.New("transaction has no linked bank account")

	// ErrCompoundEntry is returned when editing an entry that is one leg
	// of a compound movement (transfer-to-investment or card bill
	// payment). Those are corrected by deleting and re-recording the
	// movement, or through the investment log's own operations; editing
	// one leg alone would desynchronize the other.
	ErrCompoundEntry = errors.New("entry is part of a compound movement")
)
