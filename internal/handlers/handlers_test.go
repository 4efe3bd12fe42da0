package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dooooncan/Stock-Trader/configs"
	"github.com/dooooncan/Stock-Trader/internal/handlers"
	"github.com/dooooncan/Stock-Trader/internal/logger"
	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/dooooncan/Stock-Trader/internal/quote"
	"github.com/dooooncan/Stock-Trader/internal/routes"
	"github.com/dooooncan/Stock-Trader/internal/service"
	"github.com/dooooncan/Stock-Trader/internal/store/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	configs.AppConfig.JWT.Secret = "test-secret"
	os.Exit(m.Run())
}

type stubQuoter struct {
	quotes map[string]*quote.Quote
}

func (s *stubQuoter) Lookup(ctx context.Context, symbol string) (*quote.Quote, error) {
	q, ok := s.quotes[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, models.ErrUnknownSymbol
	}
	return q, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := memory.New()
	quotes := &stubQuoter{quotes: map[string]*quote.Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("100.00")},
	}}
	svc := service.New(st, st, st, quotes, decimal.RequireFromString("10000.00"))
	return routes.NewRoutes(handlers.New(svc))
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/auth/login", "", handlers.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handlers.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginTradeFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "", handlers.RegisterRequest{
		Username: "alice", Password: "secret", Confirmation: "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered handlers.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.Equal(t, "alice", registered.Username)
	assert.True(t, registered.Cash.Equal(decimal.RequireFromString("10000.00")))

	token := login(t, router, "alice", "secret")

	rec = doRequest(t, router, http.MethodPost, "/buy", token, handlers.OrderRequest{Symbol: "AAPL", Shares: 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var trade models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trade))
	assert.Equal(t, "AAPL", trade.Symbol)
	assert.EqualValues(t, 10, trade.Shares)
	assert.NotEmpty(t, trade.Reference)

	rec = doRequest(t, router, http.MethodGet, "/portfolio", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var portfolio models.Portfolio
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &portfolio))
	require.Len(t, portfolio.Holdings, 1)
	assert.Equal(t, "AAPL", portfolio.Holdings[0].Symbol)
	assert.True(t, portfolio.Cash.Equal(decimal.RequireFromString("9000.00")))
	assert.True(t, portfolio.GrandTotal.Equal(decimal.RequireFromString("10000.00")))

	rec = doRequest(t, router, http.MethodPost, "/sell", token, handlers.OrderRequest{Symbol: "AAPL", Shares: 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.EqualValues(t, -10, history[1].Shares)

	rec = doRequest(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me handlers.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.Cash.Equal(decimal.RequireFromString("10000.00")))

	rec = doRequest(t, router, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmptyHistoryIsAnArray(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "", handlers.RegisterRequest{
		Username: "alice", Password: "secret", Confirmation: "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := login(t, router, "alice", "secret")

	rec = doRequest(t, router, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), "empty history must render as an empty array, not null")
}

func TestErrorStatuses(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/auth/register", "", handlers.RegisterRequest{
		Username: "alice", Password: "secret", Confirmation: "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := login(t, router, "alice", "secret")

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/auth/register", "", handlers.RegisterRequest{
			Username: "alice", Password: "other", Confirmation: "other",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("mismatched passwords rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/auth/register", "", handlers.RegisterRequest{
			Username: "bob", Password: "secret", Confirmation: "other",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong password unauthorized", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/auth/login", "", handlers.LoginRequest{Username: "alice", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("trading requires a token", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/buy", "", handlers.OrderRequest{Symbol: "AAPL", Shares: 1})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/quote/NOPE", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("overdrawn sell", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/sell", token, handlers.OrderRequest{Symbol: "AAPL", Shares: 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unaffordable buy", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/buy", token, handlers.OrderRequest{Symbol: "AAPL", Shares: 101})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative deposit rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/deposit", token, handlers.DepositRequest{Amount: decimal.RequireFromString("-10")})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deposit adds cash", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/deposit", token, handlers.DepositRequest{Amount: decimal.RequireFromString("500.00")})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]decimal.Decimal
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp["cash"].Equal(decimal.RequireFromString("10500.00")))
	})
}
