// Package service implements the trading business logic over store and
// quote-provider contracts.
package service

import (
	"context"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/dooooncan/Stock-Trader/internal/quote"
	"github.com/shopspring/decimal"
)

// Quoter resolves ticker symbols against a market-data source.
type Quoter interface {
	Lookup(ctx context.Context, symbol string) (*quote.Quote, error)
}

// UserStore holds credentials and the per-user cash balance.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	Deposit(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error)
}

// LedgerStore reads the append-only transaction ledger.
type LedgerStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]models.Transaction, error)
	SumSharesByUser(ctx context.Context, userID uint64) (map[string]int64, error)
}

// TradeStore applies a trade's cash update and ledger append as one atomic,
// per-user-serialized unit. Appending to the ledger happens only here.
type TradeStore interface {
	ExecuteTrade(ctx context.Context, userID uint64, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error)
}

type Service struct {
	users        UserStore
	ledger       LedgerStore
	trades       TradeStore
	quotes       Quoter
	startingCash decimal.Decimal
}

func New(users UserStore, ledger LedgerStore, trades TradeStore, quotes Quoter, startingCash decimal.Decimal) *Service {
	return &Service{
		users:        users,
		ledger:       ledger,
		trades:       trades,
		quotes:       quotes,
		startingCash: startingCash,
	}
}
