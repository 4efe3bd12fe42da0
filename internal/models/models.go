package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string          `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Cash         decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"cash"`
}

// Transaction is one ledger row. Positive shares record a buy, negative a
// sell. Rows are append-only: never updated, never deleted.
type Transaction struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Reference string          `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID    uint64          `gorm:"index;not null" json:"-"`
	Symbol    string          `gorm:"size:10;index;not null" json:"symbol"`
	Shares    int64           `gorm:"not null" json:"shares"`
	Price     decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"price"`
	CreatedAt time.Time       `json:"transacted"`
}

// Holding is derived from the ledger by summing shares per symbol. It is
// never stored.
type Holding struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
}

type Portfolio struct {
	Holdings   []Holding       `json:"holdings"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
