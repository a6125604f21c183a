package investment

import (
	"context"
	"database/sql"
	"time"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/store"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// opTimeout is the execution budget of one compound operation. Forward
// propagation across a long snapshot series can be slow, so the budget is
// generous.
const opTimeout = 20 * time.Second

// Engine executes investment operations, each as one atomic unit.
type Engine struct {
	conn *db.Connection
}

// NewEngine creates an investment Engine.
func NewEngine(conn *db.Connection) *Engine {
	return &Engine{conn: conn}
}

func (e *Engine) transact(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return e.conn.TransactionContext(ctx, fn)
}

// CreateAccount creates an investment account. A positive opening valuation
// becomes the initial cost basis, an implicit DEPOSIT log dated at the open
// date and the day's seed snapshot.
func (e *Engine) CreateAccount(ctx context.Context, userID string, req models.CreateInvestmentAccountRequest) (*models.InvestmentAccount, error) {
	if req.CurrentValuation < 0 {
		return nil, ErrAmountNotPositive
	}

	openDate := req.AccountOpenDate
	if openDate == "" {
		openDate = dateutil.Today()
	}
	openDate, err := dateutil.ParseDay(openDate)
	if err != nil {
		return nil, err
	}

	var account *models.InvestmentAccount
	err = e.transact(ctx, func(tx *sql.Tx) error {
		created, err := store.NewInvestmentAccounts(tx).Create(userID, req, openDate)
		if err != nil {
			return err
		}
		account = created

		if req.CurrentValuation > 0 {
			if _, err := store.NewInvestmentLogs(tx).Create(
				account.ID, models.LogDeposit, req.CurrentValuation, openDate, "초기 잔액 설정"); err != nil {
				return err
			}
			if err := store.NewSnapshots(tx).Upsert(
				account.ID, openDate, req.CurrentValuation, req.CurrentValuation); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AddLog records a deposit, withdrawal or dividend. Principal movements
// also propagate through the snapshot series from the log's date.
func (e *Engine) AddLog(ctx context.Context, userID string, req models.AddInvestmentLogRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	if !req.Type.Valid() {
		return ErrInvalidLogType
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		if _, err := store.NewInvestmentAccounts(tx).GetForUser(req.AccountID, userID); err != nil {
			return err
		}

		if _, err := store.NewInvestmentLogs(tx).Create(req.AccountID, req.Type, req.Amount, date, req.Note); err != nil {
			return err
		}

		// Snapshot sync reads pre-change account values, so it runs before
		// the account adjustment.
		if delta := principalDelta(req.Type, req.Amount); delta != 0 {
			if err := SyncSnapshots(tx, req.AccountID, date, delta); err != nil {
				return err
			}
		}

		return ApplyLogEffect(tx, req.AccountID, req.Type, req.Amount)
	})
}

// UpdateLog edits a log through the rollback-then-reapply protocol: the old
// effect is fully reversed before the new fields take effect, so changing
// the type, amount or date cannot drift the account.
func (e *Engine) UpdateLog(ctx context.Context, userID string, req models.UpdateInvestmentLogRequest) error {
	if req.Amount <= 0 {
		return ErrAmountNotPositive
	}
	if !req.Type.Valid() {
		return ErrInvalidLogType
	}
	newDate, err := dateutil.ParseDay(req.Date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		logs := store.NewInvestmentLogs(tx)

		oldLog, err := logs.Get(req.LogID)
		if err != nil {
			return err
		}
		accountID := oldLog.InvestmentAccountID
		if _, err := store.NewInvestmentAccounts(tx).GetForUser(accountID, userID); err != nil {
			return err
		}

		// Rollback the old effect.
		if delta := principalDelta(oldLog.Type, oldLog.Amount); delta != 0 {
			if err := SyncSnapshots(tx, accountID, oldLog.Date, -delta); err != nil {
				return err
			}
		}
		if err := ReverseLogEffect(tx, accountID, oldLog.Type, oldLog.Amount); err != nil {
			return err
		}

		// Write the new fields.
		if err := logs.UpdateFields(req.LogID, req.Type, req.Amount, newDate, req.Note); err != nil {
			return err
		}

		// Apply the new effect.
		if delta := principalDelta(req.Type, req.Amount); delta != 0 {
			if err := SyncSnapshots(tx, accountID, newDate, delta); err != nil {
				return err
			}
		}
		return ApplyLogEffect(tx, accountID, req.Type, req.Amount)
	})
}

// DeleteLog removes a log after reversing its effect. A log referenced by
// a transfer entry is rejected, since the entry's cash side would be left
// standing; deleting the entry itself unwinds both sides.
func (e *Engine) DeleteLog(ctx context.Context, userID, logID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		logs := store.NewInvestmentLogs(tx)

		log, err := logs.Get(logID)
		if err != nil {
			return err
		}
		accountID := log.InvestmentAccountID
		if _, err := store.NewInvestmentAccounts(tx).GetForUser(accountID, userID); err != nil {
			return err
		}

		linked, err := store.NewTransactions(tx).HasInvestmentLogLink(logID)
		if err != nil {
			return err
		}
		if linked {
			return ErrLogLinked
		}

		if delta := principalDelta(log.Type, log.Amount); delta != 0 {
			if err := SyncSnapshots(tx, accountID, log.Date, -delta); err != nil {
				return err
			}
		}
		if err := ReverseLogEffect(tx, accountID, log.Type, log.Amount); err != nil {
			return err
		}

		return logs.Delete(logID)
	})
}

// RecordValuation sets the account's market valuation (absolute set, not a
// delta) and upserts the day's snapshot with the unchanged cost basis. The
// latest call for a date wins; there is no versioning.
func (e *Engine) RecordValuation(ctx context.Context, userID string, req models.RecordValuationRequest) error {
	if req.NewValuation < 0 {
		return ErrAmountNotPositive
	}

	date := req.AsOfDate
	if date == "" {
		date = dateutil.Today()
	}
	date, err := dateutil.ParseDay(date)
	if err != nil {
		return err
	}

	return e.transact(ctx, func(tx *sql.Tx) error {
		accounts := store.NewInvestmentAccounts(tx)

		account, err := accounts.GetForUser(req.AccountID, userID)
		if err != nil {
			return err
		}

		if err := accounts.SetValuation(req.AccountID, req.NewValuation); err != nil {
			return err
		}

		return store.NewSnapshots(tx).Upsert(req.AccountID, date, req.NewValuation, account.InvestedAmount)
	})
}

// DeleteAccount removes an investment account and everything it owns:
// snapshot series and log series. Cascade is explicit; the schema does not
// do it for us. Transfer legs pointing at the deleted logs become plain
// expense entries, keeping the cash side they recorded on the books.
func (e *Engine) DeleteAccount(ctx context.Context, userID, accountID string) error {
	return e.transact(ctx, func(tx *sql.Tx) error {
		if _, err := store.NewInvestmentAccounts(tx).GetForUser(accountID, userID); err != nil {
			return err
		}

		if err := store.NewTransactions(tx).NeutralizeInvestmentLegs(accountID); err != nil {
			return err
		}
		if err := store.NewSnapshots(tx).DeleteByAccount(accountID); err != nil {
			return err
		}
		if err := store.NewInvestmentLogs(tx).DeleteByAccount(accountID); err != nil {
			return err
		}
		return store.NewInvestmentAccounts(tx).Delete(accountID)
	})
}
