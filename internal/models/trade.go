package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TradeKind discriminates the two trade record variants. It doubles as
// the session type, since a session only ever holds trades of its own
// asset class.
type TradeKind string

const (
	TradeKindForex  TradeKind = "Forex"
	TradeKindCrypto TradeKind = "Crypto"
)

// Valid reports whether k is one of the known kinds.
func (k TradeKind) Valid() bool {
	return k == TradeKindForex || k == TradeKindCrypto
}

// ForexFields are the fields only a Forex trade carries.
type ForexFields struct {
	Symbol     string  `json:"symbol"`
	Type       string  `json:"type"` // "Buy" or "Sell"
	VolumeLot  float64 `json:"volume_lot"`
	OpenPrice  float64 `json:"open_price"`
	ClosePrice float64 `json:"close_price"`
	Leverage   float64 `json:"leverage"`
	TP         float64 `json:"tp"`
	SL         float64 `json:"sl"`
	Position   string  `json:"position"`
	Reason     string  `json:"reason"`
	OpenTime   string  `json:"open_time"`
	CloseTime  string  `json:"close_time"`
}

// CryptoFields are the fields only a Crypto futures trade carries.
type CryptoFields struct {
	FuturesSymbol           string  `json:"futures_symbol"`
	MarginMode              string  `json:"margin_mode"`
	AvgEntryPrice           float64 `json:"avg_entry_price"`
	AvgClosePrice           float64 `json:"avg_close_price"`
	Direction               string  `json:"direction"` // "Long" or "Short"
	ClosingQuantity         float64 `json:"closing_quantity"`
	RealizedPnl             float64 `json:"realized_pnl"`
	MarginAdjustmentHistory string  `json:"margin_adjustment_history"`
}

// Trade is one logged position belonging to a session. Kind selects
// which of the two embedded field sets is meaningful; code consuming a
// trade switches on Kind instead of probing field presence.
//
// ProfitLoss classifies the trade: positive is a win, negative a loss,
// exactly zero is neither.
type Trade struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	SessionID string    `json:"session_id" gorm:"size:36;index;not null"`
	Kind      TradeKind `json:"kind" gorm:"size:8;not null"`

	// Common fields, present on both variants.
	Margin     float64 `json:"margin"`
	ROI        float64 `json:"roi"`
	EntrySide  string  `json:"entry_side"`
	ProfitLoss float64 `json:"profit_loss"`
	Comments   string  `json:"comments"`

	Forex  ForexFields  `json:"forex" gorm:"embedded;embeddedPrefix:fx_"`
	Crypto CryptoFields `json:"crypto" gorm:"embedded;embeddedPrefix:cx_"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the opaque identifier on first insert.
func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
