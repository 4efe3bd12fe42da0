package seed

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/dooooncan/Stock-Trader/configs"
	"github.com/dooooncan/Stock-Trader/internal/logger"
	"github.com/dooooncan/Stock-Trader/internal/models"
	"github.com/dooooncan/Stock-Trader/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var demoUsers = []string{"demo1", "demo2", "demo3"}

// Run creates demo traders with the configured starting cash. demo1 also
// gets an opening AAPL position so the portfolio view has something to
// show; its cost is taken out of the cash balance so the ledger and the
// balance agree.
func Run() {
	db := store.DB
	var count int64
	if err := db.Model(&models.User{}).Where("username IN ?", demoUsers).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count >= int64(len(demoUsers)) {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatal("failed to hash seed password", zap.Error(err))
	}
	hashed := string(hash)

	startingCash, err := decimal.NewFromString(configs.AppConfig.Trading.StartingCash)
	if err != nil {
		logger.Log.Fatal("invalid starting cash in config", zap.Error(err))
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, name := range demoUsers {
			user := models.User{Username: name, PasswordHash: hashed, Cash: startingCash}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}

		var demo models.User
		if err := tx.Where("username = ?", demoUsers[0]).First(&demo).Error; err != nil {
			return err
		}

		price := decimal.RequireFromString("150.00")
		shares := int64(10)
		cost := price.Mul(decimal.NewFromInt(shares))
		opening := models.Transaction{
			Reference: uuid.NewString(),
			UserID:    uint64(demo.ID),
			Symbol:    "AAPL",
			Shares:    shares,
			Price:     price,
		}
		if err := tx.Create(&opening).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", demo.ID).
			Update("cash", startingCash.Sub(cost)).Error
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo traders", zap.Int("count", len(demoUsers)))
}
