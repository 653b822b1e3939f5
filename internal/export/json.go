package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"
)

// ErrInvalidJSON is returned by FromJSON when the payload is not a
// well-formed session export.
var ErrInvalidJSON = errors.New("invalid session export file")

// SessionExport is the lossy session projection written to JSON
// exports. Identifiers and the owning user are deliberately omitted so
// an exported file can be re-imported into any account.
type SessionExport struct {
	Name           string    `json:"name"`
	InitialCapital float64   `json:"initial_capital"`
	CurrentCapital float64   `json:"current_capital"`
	CreatedAt      time.Time `json:"created_at"`
}

// TradeExport is the lossy trade projection written to JSON exports.
// Only the fields common to both trade variants survive; type-specific
// fields are dropped and do not round-trip.
type TradeExport struct {
	Margin     float64   `json:"margin"`
	ROI        float64   `json:"roi"`
	EntrySide  string    `json:"entry_side"`
	ProfitLoss float64   `json:"profit_loss"`
	Comments   string    `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}

// Document is the top-level JSON export shape, and equally the shape an
// import is parsed back into.
type Document struct {
	Session    SessionExport      `json:"session"`
	Trades     []TradeExport      `json:"trades"`
	Statistics stats.SessionStats `json:"statistics"`
}

// ToJSON serializes a session, its trades and their computed statistics
// into the export document.
func ToJSON(session models.TradingSession, trades []models.Trade, st stats.SessionStats) ([]byte, error) {
	doc := Document{
		Session: SessionExport{
			Name:           session.Name,
			InitialCapital: session.InitialCapital,
			CurrentCapital: session.CurrentCapital,
			CreatedAt:      session.CreatedAt,
		},
		Trades:     make([]TradeExport, 0, len(trades)),
		Statistics: st,
	}
	for _, trade := range trades {
		doc.Trades = append(doc.Trades, TradeExport{
			Margin:     trade.Margin,
			ROI:        trade.ROI,
			EntrySide:  trade.EntrySide,
			ProfitLoss: trade.ProfitLoss,
			Comments:   trade.Comments,
			CreatedAt:  trade.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session export: %w", err)
	}
	return data, nil
}

// FromJSON parses a previously exported document. Trades keep the order
// they were exported in.
func FromJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &doc, nil
}

// slug collapses whitespace runs in a session name to underscores for
// use in download filenames.
func slug(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// JSONFilename is the download name for a JSON export.
func JSONFilename(sessionName string) string {
	return slug(sessionName) + "_trading_session.json"
}

// WorkbookFilename is the download name for the two-sheet workbook export.
func WorkbookFilename(sessionName string) string {
	return slug(sessionName) + "_detailed_trading_session.xlsx"
}

// TradesFilename is the download name for the trades-only export.
func TradesFilename(sessionName string) string {
	return slug(sessionName) + "_detailed_trades.xlsx"
}
