// Package memory is an in-memory implementation of the store contracts.
// Trades and deposits are serialized per user with a mutex, giving the same
// check-then-act guarantee the postgres store gets from a row lock. Used by
// tests and local development without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint64]*models.User
	byName map[string]uint64
	ledger []models.Transaction

	userMu map[uint64]*sync.Mutex
	mapMu  sync.Mutex
}

func New() *Store {
	return &Store{
		users:  make(map[uint64]*models.User),
		byName: make(map[string]uint64),
		userMu: make(map[uint64]*sync.Mutex),
	}
}

func (s *Store) userLock(userID uint64) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, ok := s.userMu[userID]; !ok {
		s.userMu[userID] = &sync.Mutex{}
	}
	return s.userMu[userID]
}

func (s *Store) Create(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[username]; taken {
		return nil, models.ErrUsernameTaken
	}
	s.nextID++
	user := &models.User{Username: username, PasswordHash: passwordHash, Cash: startingCash}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[uint64(user.ID)] = user
	s.byName[username] = uint64(user.ID)

	copied := *user
	return &copied, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *s.users[id]
	return &copied, nil
}

func (s *Store) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *Store) Deposit(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return decimal.Zero, models.ErrNotFound
	}
	newCash := user.Cash.Add(delta)
	if newCash.IsNegative() {
		return decimal.Zero, models.ErrNegativeBalance
	}
	user.Cash = newCash
	return newCash, nil
}

// ExecuteTrade holds the user's lock across the checks and both writes, so
// the cash update and the ledger append are observed together or not at all.
func (s *Store) ExecuteTrade(ctx context.Context, userID uint64, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}

	if shares < 0 {
		var held int64
		for _, t := range s.ledger {
			if t.UserID == userID && t.Symbol == symbol {
				held += t.Shares
			}
		}
		if held+shares < 0 {
			return nil, models.ErrInsufficientShares
		}
	}

	cost := price.Mul(decimal.NewFromInt(shares))
	newCash := user.Cash.Sub(cost)
	if newCash.IsNegative() {
		if shares > 0 {
			return nil, models.ErrInsufficientFunds
		}
		return nil, models.ErrNegativeBalance
	}

	user.Cash = newCash
	trade := models.Transaction{
		ID:        uint(len(s.ledger) + 1),
		Reference: uuid.NewString(),
		UserID:    userID,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		CreatedAt: time.Now(),
	}
	s.ledger = append(s.ledger, trade)

	copied := trade
	return &copied, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Transaction{}
	for _, t := range s.ledger {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *Store) SumSharesByUser(ctx context.Context, userID uint64) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[string]int64)
	for _, t := range s.ledger {
		if t.UserID == userID {
			sums[t.Symbol] += t.Shares
		}
	}
	return sums, nil
}
