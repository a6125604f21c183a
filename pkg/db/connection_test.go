package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(t *testing.T) *Connection {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, InitializeSchema(conn))
	return conn
}

func TestInitializeSchemaIsIdempotent(t *testing.T) {
	conn := newTestConn(t)
	require.NoError(t, InitializeSchema(conn))
	require.NoError(t, InitializeSchema(conn))
}

func TestTransactionCommits(t *testing.T) {
	conn := newTestConn(t)

	err := conn.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO users (id, name, email) VALUES ('u1', 'tester', 'tester@example.com')`)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	conn := newTestConn(t)
	boom := errors.New("boom")

	err := conn.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO users (id, name, email) VALUES ('u1', 'tester', 'tester@example.com')`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestTransactionContextHonorsDeadline(t *testing.T) {
	conn := newTestConn(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := conn.TransactionContext(ctx, func(tx *sql.Tx) error {
		return nil
	})
	assert.Error(t, err)
}

func TestForeignKeysEnforced(t *testing.T) {
	conn := newTestConn(t)

	_, err := conn.Exec(
		`INSERT INTO bank_accounts (id, user_id, name, type, current_balance) VALUES ('b1', 'no-such-user', '통장', 'checking', 0)`)
	assert.Error(t, err)
}
