package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/internal/server/handlers"
	"github.com/mamadbah2/invest-advisor/internal/service/advisory"
	"github.com/mamadbah2/invest-advisor/internal/service/conversation"
	"github.com/mamadbah2/invest-advisor/internal/service/ledger"
	"github.com/mamadbah2/invest-advisor/pkg/metrics"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	collector := metrics.NewCollector(nil)
	dispatcher := advisory.NewDispatcher(nil, collector, 0, nil)
	conversations := conversation.NewService(conversation.NewSessionManager(), dispatcher, nil, nil)
	book := ledger.NewBook(models.SeedAccounts(), collector, nil)

	return New(
		handlers.NewAdvisoryHandler(dispatcher, conversations, models.DefaultSnapshot(), nil),
		handlers.NewAccountHandler(book, nil),
		collector.Handler(),
		nil,
	)
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	engine := newEngine(t)

	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/healthz", nil).Code)

	rec := do(t, engine, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_account_balance_euros")
}

func TestAnalyzeEndpoint(t *testing.T) {
	engine := newEngine(t)

	rec := do(t, engine, http.MethodPost, "/advisory/analyze", map[string]any{"message": "Quelle performance ?"})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[map[string]string](t, rec)
	assert.Contains(t, out["answer"], "Analyse de la rentabilité")
	assert.Contains(t, out["answer"], "+200.0%")
}

func TestAnalyzeEndpointWithCustomSnapshot(t *testing.T) {
	engine := newEngine(t)

	snapshot := models.DefaultSnapshot()
	snapshot.Profit = []float64{100, 150}
	rec := do(t, engine, http.MethodPost, "/advisory/analyze", map[string]any{"message": "performance", "snapshot": snapshot})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, decode[map[string]string](t, rec)["answer"], "+50.0%")
}

func TestAnalyzeEndpointRejectsBlankMessage(t *testing.T) {
	engine := newEngine(t)

	assert.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodPost, "/advisory/analyze", map[string]any{"message": "  "}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, engine, http.MethodPost, "/advisory/analyze", map[string]any{}).Code)
}

func TestConversationFlow(t *testing.T) {
	engine := newEngine(t)

	rec := do(t, engine, http.MethodPost, "/advisory/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	sessionID := decode[map[string]string](t, rec)["session_id"]
	require.NotEmpty(t, sessionID)

	rec = do(t, engine, http.MethodPost, "/advisory/sessions/"+sessionID+"/messages", map[string]any{"message": "investir ?"})
	require.Equal(t, http.StatusOK, rec.Code)
	turn := decode[models.ConversationTurn](t, rec)
	assert.Equal(t, models.RoleAssistant, turn.Role)
	assert.Contains(t, turn.Content, "Analyse d'investissement")

	rec = do(t, engine, http.MethodGet, "/advisory/sessions/"+sessionID+"/messages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[map[string][]models.ConversationTurn](t, rec)["turns"]
	assert.Len(t, history, 2)

	assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodGet, "/advisory/sessions/unknown/messages", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, engine, http.MethodPost, "/advisory/sessions/unknown/messages", map[string]any{"message": "x"}).Code)
}

type accountBody struct {
	ID             int64  `json:"id"`
	Balance        int64  `json:"balance"`
	Status         string `json:"status"`
	DisplayBalance string `json:"display_balance"`
}

func TestAccountLifecycle(t *testing.T) {
	engine := newEngine(t)

	rec := do(t, engine, http.MethodPost, "/accounts", map[string]any{"name": "Jane", "email": "jane@x.com", "initial_balance": 50000})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[accountBody](t, rec)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "active", created.Status)
	assert.NotEmpty(t, created.DisplayBalance)

	rec = do(t, engine, http.MethodPost, "/accounts/3/deposit", map[string]any{"amount": "1500"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(51500), decode[accountBody](t, rec).Balance)

	rec = do(t, engine, http.MethodPost, "/accounts/3/withdraw", map[string]any{"amount": 1500})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(50000), decode[accountBody](t, rec).Balance)

	rec = do(t, engine, http.MethodPost, "/accounts/3/toggle-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inactive", decode[accountBody](t, rec).Status)

	rec = do(t, engine, http.MethodPost, "/accounts", map[string]any{"name": "Jean", "email": "jean@x.com", "initial_balance": "2500"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(2500), decode[accountBody](t, rec).Balance)

	rec = do(t, engine, http.MethodGet, "/accounts?q=JANE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]accountBody](t, rec)["accounts"], 2)
}

func TestAccountErrors(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "insufficient funds", method: http.MethodPost, path: "/accounts/1/withdraw", body: map[string]any{"amount": 60000}, status: http.StatusUnprocessableEntity},
		{name: "invalid amount", method: http.MethodPost, path: "/accounts/1/deposit", body: map[string]any{"amount": "abc"}, status: http.StatusBadRequest},
		{name: "zero amount", method: http.MethodPost, path: "/accounts/1/deposit", body: map[string]any{"amount": 0}, status: http.StatusBadRequest},
		{name: "missing amount", method: http.MethodPost, path: "/accounts/1/deposit", body: map[string]any{}, status: http.StatusBadRequest},
		{name: "unknown account", method: http.MethodPost, path: "/accounts/99/deposit", body: map[string]any{"amount": 10}, status: http.StatusNotFound},
		{name: "bad id", method: http.MethodPost, path: "/accounts/abc/toggle-status", status: http.StatusBadRequest},
		{name: "incomplete new account", method: http.MethodPost, path: "/accounts", body: map[string]any{"name": "Solo"}, status: http.StatusBadRequest},
		{name: "null initial balance", method: http.MethodPost, path: "/accounts", body: map[string]any{"name": "Solo", "email": "solo@x.com", "initial_balance": nil}, status: http.StatusBadRequest},
		{name: "deposit above balance cap", method: http.MethodPost, path: "/accounts/1/deposit", body: map[string]any{"amount": "100000000000000000"}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, engine, tt.method, tt.path, tt.body).Code)
		})
	}

	rec := do(t, engine, http.MethodGet, "/accounts?q=john", nil)
	accounts := decode[map[string][]accountBody](t, rec)["accounts"]
	require.Len(t, accounts, 1)
	assert.Equal(t, int64(50000), accounts[0].Balance)
}
