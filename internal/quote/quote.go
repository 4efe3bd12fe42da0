// Package quote fetches point-in-time stock quotes from an external
// market-data API.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 5 * time.Second

// Quote is a (symbol, name, price) snapshot at call time.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the market-data API. The API key is carried by the
// client, not read from process-global state.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Lookup resolves a ticker symbol. A symbol the provider does not know
// yields models.ErrUnknownSymbol; any other provider failure, including
// timeouts and bad payloads, yields models.ErrQuoteUnavailable.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: missing symbol", models.ErrValidation)
	}

	endpoint := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrUnknownSymbol
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", models.ErrQuoteUnavailable, resp.StatusCode)
	}

	var body struct {
		Symbol      string          `json:"symbol"`
		CompanyName string          `json:"companyName"`
		LatestPrice decimal.Decimal `json:"latestPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrQuoteUnavailable, err)
	}
	if body.Symbol == "" || !body.LatestPrice.IsPositive() {
		return nil, fmt.Errorf("%w: malformed quote payload", models.ErrQuoteUnavailable)
	}

	return &Quote{Symbol: body.Symbol, Name: body.CompanyName, Price: body.LatestPrice}, nil
}
