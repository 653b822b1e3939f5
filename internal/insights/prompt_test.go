package insights

import (
	"strings"
	"testing"
	"time"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"

	"github.com/stretchr/testify/assert"
)

func TestBuildSessionPrompt(t *testing.T) {
	session := models.TradingSession{
		Name:           "London Scalps",
		SessionType:    models.TradeKindForex,
		InitialCapital: 5000,
		CreatedAt:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	trades := []models.Trade{
		{
			Kind: models.TradeKindForex, ProfitLoss: 100, Margin: 1000, ROI: 10,
			Forex:     models.ForexFields{Symbol: "EURUSD", Type: "Buy"},
			CreatedAt: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}
	st := stats.Compute(trades, session.InitialCapital)

	prompt := buildSessionPrompt(session, st, trades)
	assert.Contains(t, prompt, `Session "London Scalps" (Forex)`)
	assert.Contains(t, prompt, "win rate 100.0%")
	assert.Contains(t, prompt, "EURUSD Buy")
}

func TestBuildSessionPromptEmpty(t *testing.T) {
	session := models.TradingSession{Name: "Empty", SessionType: models.TradeKindCrypto}
	st := stats.Compute(nil, 0)

	prompt := buildSessionPrompt(session, st, nil)
	assert.Contains(t, prompt, "No trades have been logged yet.")
}

func TestBuildSessionPromptCapsTrades(t *testing.T) {
	session := models.TradingSession{Name: "Busy", SessionType: models.TradeKindForex}
	var trades []models.Trade
	for i := 0; i < maxPromptTrades+10; i++ {
		trades = append(trades, models.Trade{Kind: models.TradeKindForex, ProfitLoss: 1})
	}
	st := stats.Compute(trades, 100)

	prompt := buildSessionPrompt(session, st, trades)
	lines := strings.Count(prompt, "\n- ")
	// The bullet list never exceeds the cap even when the session has more.
	assert.LessOrEqual(t, lines, maxPromptTrades)
}
