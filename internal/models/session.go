package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradingSession is a named container of trades with its own capital
// ledger. SessionType is fixed at creation. CurrentCapital is derived
// from the trades and persisted opportunistically; the invariant is
// CurrentCapital == InitialCapital + sum of ProfitLoss over all trades.
type TradingSession struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	UserID         string    `json:"user_id" gorm:"size:36;index;not null"`
	Name           string    `json:"name" gorm:"not null"`
	SessionType    TradeKind `json:"session_type" gorm:"size:8;not null"`
	InitialCapital float64   `json:"initial_capital"`
	CurrentCapital float64   `json:"current_capital"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate assigns the opaque identifier on first insert.
func (s *TradingSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
