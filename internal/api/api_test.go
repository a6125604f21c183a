package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/report"
	"github.com/drasla/my-own-accountbook/pkg/config"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

type testClient struct {
	server *httptest.Server
	userID string
}

func setupTestServer(t *testing.T) *testClient {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.InitializeSchema(conn))

	seeds := config.CategorySeeds{
		Income:  []string{"월급"},
		Expense: []string{"식비"},
	}
	router := NewRouter(conn,
		ledger.NewEngine(conn, seeds),
		investment.NewEngine(conn),
		report.NewService(conn))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testClient{server: server}
}

// do sends a JSON request with the client's user identity and decodes the
// envelope.
func (c *testClient) do(t *testing.T, method, path string, body interface{}) (int, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func (c *testClient) createUser(t *testing.T) {
	t.Helper()

	status, envelope := c.do(t, http.MethodPost, "/api/v1/users", CreateUserRequest{
		Name: "tester", Email: "tester@example.com",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	c.userID = data["id"].(string)
	require.NotEmpty(t, c.userID)
}

func TestRequestsWithoutIdentityAreRejected(t *testing.T) {
	client := setupTestServer(t)

	status, envelope := client.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, envelope.Success)

	client.userID = "no-such-user"
	status, envelope = client.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, envelope.Success)
}

func TestLedgerScenario(t *testing.T) {
	client := setupTestServer(t)
	client.createUser(t)
	today := dateutil.Today()

	// Bank account with an opening balance.
	status, envelope := client.do(t, http.MethodPost, "/api/v1/bank-accounts", map[string]interface{}{
		"name": "급여통장", "type": "checking", "current_balance": 10000,
	})
	require.Equal(t, http.StatusCreated, status)
	bank := envelope.Data.(map[string]interface{})
	bankID := bank["id"].(string)

	// Income lands on balance and dashboard.
	status, envelope = client.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"bank_account_id": bankID, "type": "INCOME", "amount": 5000,
		"date": today, "description": "월급",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, envelope.Success)

	status, envelope = client.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, status)
	dashboard := envelope.Data.(map[string]interface{})
	summary := dashboard["summary"].(map[string]interface{})
	assert.Equal(t, float64(15000), summary["total_cash"])

	// Validation errors surface as envelope failures.
	status, envelope = client.do(t, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"bank_account_id": bankID, "type": "INCOME", "amount": -5,
		"date": today, "description": "잘못된 금액",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)

	// A transfer that would overdraw the source is rejected.
	status, envelope = client.do(t, http.MethodPost, "/api/v1/bank-accounts", map[string]interface{}{
		"name": "비상금통장", "type": "savings",
	})
	require.Equal(t, http.StatusCreated, status)
	otherID := envelope.Data.(map[string]interface{})["id"].(string)

	status, envelope = client.do(t, http.MethodPost, "/api/v1/transfers", map[string]interface{}{
		"from_bank_account_id": bankID, "to_account_id": otherID,
		"amount": 999999, "date": today,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)

	// A valid transfer moves the money.
	status, _ = client.do(t, http.MethodPost, "/api/v1/transfers", map[string]interface{}{
		"from_bank_account_id": bankID, "to_account_id": otherID,
		"amount": 4000, "date": today,
	})
	require.Equal(t, http.StatusCreated, status)

	status, envelope = client.do(t, http.MethodGet, "/api/v1/bank-accounts/"+otherID, nil)
	require.Equal(t, http.StatusOK, status)
	detail := envelope.Data.(map[string]interface{})
	target := detail["account"].(map[string]interface{})
	assert.Equal(t, float64(4000), target["current_balance"])

	// Categories are seeded lazily on first list.
	status, envelope = client.do(t, http.MethodGet, "/api/v1/categories?type=EXPENSE", nil)
	require.Equal(t, http.StatusOK, status)
	categories := envelope.Data.([]interface{})
	require.Len(t, categories, 1)

	// Unknown resources come back as 404 envelopes.
	status, envelope = client.do(t, http.MethodDelete, "/api/v1/transactions/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, envelope.Success)
}

func TestInvestmentScenario(t *testing.T) {
	client := setupTestServer(t)
	client.createUser(t)

	status, envelope := client.do(t, http.MethodPost, "/api/v1/investment-accounts", map[string]interface{}{
		"name": "증권계좌", "detail_type": "STOCK", "current_valuation": 100000,
		"account_open_date": "2026-01-01",
	})
	require.Equal(t, http.StatusCreated, status)
	accountID := envelope.Data.(map[string]interface{})["id"].(string)

	status, _ = client.do(t, http.MethodPost, "/api/v1/investment-accounts/"+accountID+"/logs", map[string]interface{}{
		"type": "DEPOSIT", "amount": 50000, "date": "2026-01-10",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = client.do(t, http.MethodPut, "/api/v1/investment-accounts/"+accountID+"/valuation", map[string]interface{}{
		"new_valuation": 160000, "as_of_date": "2026-01-20",
	})
	require.Equal(t, http.StatusOK, status)

	status, envelope = client.do(t, http.MethodGet, "/api/v1/investment-accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, status)
	detail := envelope.Data.(map[string]interface{})
	account := detail["account"].(map[string]interface{})
	assert.Equal(t, float64(150000), account["invested_amount"])
	assert.Equal(t, float64(160000), account["current_valuation"])

	logs := detail["logs"].([]interface{})
	assert.Len(t, logs, 2)
	snapshots := detail["snapshots"].([]interface{})
	assert.Len(t, snapshots, 3)

	// A log created by a transfer cannot be deleted on its own.
	status, envelope = client.do(t, http.MethodPost, "/api/v1/bank-accounts", map[string]interface{}{
		"name": "주거래통장", "type": "checking", "current_balance": 100000,
	})
	require.Equal(t, http.StatusCreated, status)
	bankID := envelope.Data.(map[string]interface{})["id"].(string)

	status, _ = client.do(t, http.MethodPost, "/api/v1/transfers", map[string]interface{}{
		"from_bank_account_id": bankID, "to_account_id": accountID,
		"amount": 70000, "date": "2026-02-01",
	})
	require.Equal(t, http.StatusCreated, status)

	status, envelope = client.do(t, http.MethodGet, "/api/v1/investment-accounts/"+accountID, nil)
	require.Equal(t, http.StatusOK, status)
	var linkedLogID string
	for _, raw := range envelope.Data.(map[string]interface{})["logs"].([]interface{}) {
		log := raw.(map[string]interface{})
		if log["amount"] == float64(70000) {
			linkedLogID = log["id"].(string)
		}
	}
	require.NotEmpty(t, linkedLogID)

	status, envelope = client.do(t, http.MethodDelete, "/api/v1/investment-logs/"+linkedLogID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)
}
