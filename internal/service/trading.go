package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/dooooncan/Stock-Trader/internal/quote"
	"github.com/shopspring/decimal"
)

// GetQuote looks up a live quote for the symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*quote.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: must provide symbol", models.ErrValidation)
	}
	return s.quotes.Lookup(ctx, symbol)
}

// Buy purchases shares at the current quoted price. The affordability
// check, the cash decrement and the ledger append run inside the trade
// store's atomic unit; a failure there leaves no trace of the order.
func (s *Service) Buy(ctx context.Context, userID uint64, symbol string, shares int64) (*models.Transaction, error) {
	if err := validateOrder(symbol, shares); err != nil {
		return nil, err
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.trades.ExecuteTrade(ctx, userID, q.Symbol, shares, q.Price)
}

// Sell disposes of shares at the current quoted price. The holding check
// runs inside the same atomic unit as the writes, so a symbol's net shares
// can never be driven negative, even by concurrent sells.
func (s *Service) Sell(ctx context.Context, userID uint64, symbol string, shares int64) (*models.Transaction, error) {
	if err := validateOrder(symbol, shares); err != nil {
		return nil, err
	}
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return s.trades.ExecuteTrade(ctx, userID, q.Symbol, -shares, q.Price)
}

// Deposit adds cash to the user's balance. The amount must be positive.
func (s *Service) Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: deposit amount must be positive", models.ErrValidation)
	}
	return s.users.Deposit(ctx, userID, amount)
}

// Portfolio derives current holdings from the ledger, quotes each held
// symbol live and totals market value plus cash. If any held symbol cannot
// be quoted the whole view fails.
func (s *Service) Portfolio(ctx context.Context, userID uint64) (*models.Portfolio, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sums, err := s.ledger.SumSharesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(sums))
	for symbol, net := range sums {
		if net > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	portfolio := models.Portfolio{
		Holdings: make([]models.Holding, 0, len(symbols)),
		Cash:     user.Cash,
	}
	total := user.Cash
	for _, symbol := range symbols {
		q, err := s.quotes.Lookup(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", models.ErrQuoteUnavailable, symbol)
		}
		value := q.Price.Mul(decimal.NewFromInt(sums[symbol]))
		portfolio.Holdings = append(portfolio.Holdings, models.Holding{
			Symbol: q.Symbol,
			Name:   q.Name,
			Shares: sums[symbol],
			Price:  q.Price,
			Value:  value,
		})
		total = total.Add(value)
	}
	portfolio.GrandTotal = total
	return &portfolio, nil
}

// History returns the user's ledger rows in insertion order.
func (s *Service) History(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	return s.ledger.ListByUser(ctx, userID)
}

func validateOrder(symbol string, shares int64) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%w: must provide symbol", models.ErrValidation)
	}
	if shares < 1 {
		return fmt.Errorf("%w: shares must be a positive whole number", models.ErrValidation)
	}
	return nil
}
