// Package store persists users and the transaction ledger in postgres.
package store

import (
	"context"
	"errors"

	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new user. The unique index on username decides
// concurrent registrations of the same name: exactly one insert wins.
func (s *Store) Create(ctx context.Context, username, passwordHash string, startingCash decimal.Decimal) (*models.User, error) {
	user := models.User{Username: username, PasswordHash: passwordHash, Cash: startingCash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.ErrUsernameTaken
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Deposit adjusts the user's cash by delta under a row lock so concurrent
// adjustments cannot lose updates. The resulting balance must stay >= 0.
func (s *Store) Deposit(ctx context.Context, userID uint64, delta decimal.Decimal) (decimal.Decimal, error) {
	var newCash decimal.Decimal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		newCash = user.Cash.Add(delta)
		if newCash.IsNegative() {
			return models.ErrNegativeBalance
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("cash", newCash).Error
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newCash, nil
}

// ExecuteTrade applies the cash update and the ledger insert of one trade
// as a single database transaction. The user row is locked first, so the
// affordability check (buy) and the holding check (sell) read state no
// concurrent trade can invalidate.
func (s *Store) ExecuteTrade(ctx context.Context, userID uint64, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	var trade models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}

		if shares < 0 {
			var held int64
			if err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND symbol = ?", userID, symbol).
				Select("COALESCE(SUM(shares), 0)").
				Scan(&held).Error; err != nil {
				return err
			}
			if held+shares < 0 {
				return models.ErrInsufficientShares
			}
		}

		cost := price.Mul(decimal.NewFromInt(shares))
		newCash := user.Cash.Sub(cost)
		if newCash.IsNegative() {
			if shares > 0 {
				return models.ErrInsufficientFunds
			}
			return models.ErrNegativeBalance
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("cash", newCash).Error; err != nil {
			return err
		}

		trade = models.Transaction{
			Reference: uuid.NewString(),
			UserID:    userID,
			Symbol:    symbol,
			Shares:    shares,
			Price:     price,
		}
		return tx.Create(&trade).Error
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// ListByUser returns the user's ledger rows in insertion order. An empty
// history is an empty slice, not nil, so it serializes as a JSON array.
func (s *Store) ListByUser(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// SumSharesByUser returns net shares per symbol for the user.
func (s *Store) SumSharesByUser(ctx context.Context, userID uint64) (map[string]int64, error) {
	var rows []struct {
		Symbol string
		Net    int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("symbol, COALESCE(SUM(shares), 0) AS net").
		Where("user_id = ?", userID).
		Group("symbol").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sums := make(map[string]int64, len(rows))
	for _, row := range rows {
		sums[row.Symbol] = row.Net
	}
	return sums, nil
}
