// Package db provides SQLite database management for the account book.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Users (stand-in identity store; auth itself lives outside this system)
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Cash/bank accounts
CREATE TABLE IF NOT EXISTS bank_accounts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',         -- checking, savings, ...
    current_balance INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_bank_accounts_user
    ON bank_accounts(user_id);

-- Credit cards; current_balance is the amount owed and increases with spend
CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    payment_day INTEGER,                   -- day of month the bill is due
    current_balance INTEGER NOT NULL DEFAULT 0,
    linked_bank_account_id TEXT REFERENCES bank_accounts(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cards_user
    ON cards(user_id);

-- Investment accounts; current_valuation is the market value,
-- invested_amount the cost basis (net contributions, dividends excluded)
CREATE TABLE IF NOT EXISTS investment_accounts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    detail_type TEXT NOT NULL DEFAULT '',  -- STOCK, COIN, PENSION_SAVINGS, ...
    invested_amount INTEGER NOT NULL DEFAULT 0,
    current_valuation INTEGER NOT NULL DEFAULT 0,
    cumulative_dividend INTEGER NOT NULL DEFAULT 0,
    account_open_date TEXT NOT NULL,       -- YYYY-MM-DD
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_investment_accounts_user
    ON investment_accounts(user_id);

-- Income/expense categories; transfers never carry a category
CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    type TEXT NOT NULL,                    -- INCOME or EXPENSE
    UNIQUE(user_id, type, name)
);

-- Cost-basis ledger for investment accounts
CREATE TABLE IF NOT EXISTS investment_logs (
    id TEXT PRIMARY KEY,
    investment_account_id TEXT NOT NULL REFERENCES investment_accounts(id),
    type TEXT NOT NULL,                    -- DEPOSIT, WITHDRAW or DIVIDEND
    amount INTEGER NOT NULL,
    date TEXT NOT NULL,                    -- YYYY-MM-DD
    note TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_investment_logs_account_date
    ON investment_logs(investment_account_id, date);

-- Ledger entries
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    type TEXT NOT NULL,                    -- INCOME or EXPENSE
    amount INTEGER NOT NULL,
    date TEXT NOT NULL,                    -- YYYY-MM-DD business date
    description TEXT NOT NULL DEFAULT '',
    category_id TEXT REFERENCES categories(id),
    bank_account_id TEXT REFERENCES bank_accounts(id),
    card_id TEXT REFERENCES cards(id),
    is_transfer INTEGER NOT NULL DEFAULT 0,
    investment_log_id TEXT REFERENCES investment_logs(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_date
    ON transactions(user_id, date);

CREATE INDEX IF NOT EXISTS idx_transactions_bank_account
    ON transactions(bank_account_id);

CREATE INDEX IF NOT EXISTS idx_transactions_card
    ON transactions(card_id);

-- Per-day valuation snapshots for charts and day-over-day deltas
CREATE TABLE IF NOT EXISTS investment_snapshots (
    id TEXT PRIMARY KEY,
    investment_account_id TEXT NOT NULL REFERENCES investment_accounts(id),
    date TEXT NOT NULL,                    -- YYYY-MM-DD
    total_value INTEGER NOT NULL DEFAULT 0,
    invested_amount INTEGER NOT NULL DEFAULT 0,
    UNIQUE(investment_account_id, date)
);

-- Per-day cash rollups; closing_balance is the cumulative cash position
-- across all bank accounts as of end of that day
CREATE TABLE IF NOT EXISTS daily_stats (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    date TEXT NOT NULL,                    -- YYYY-MM-DD
    daily_income INTEGER NOT NULL DEFAULT 0,
    daily_expense INTEGER NOT NULL DEFAULT 0,
    closing_balance INTEGER NOT NULL DEFAULT 0,
    UNIQUE(user_id, date)
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
