package insights

import (
	"fmt"
	"strings"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"
)

const systemPrompt = "You are a trading performance coach. You are given " +
	"the statistics of one trading journal session and its recent trades. " +
	"Write a short, plain-language summary of how the session went, then " +
	"point out one strength and one area to improve. Do not invent numbers."

// maxPromptTrades caps how many recent trades are sent with the prompt.
const maxPromptTrades = 20

// buildSessionPrompt renders the session, its statistics and the most
// recent trades as the user message for the summary request.
func buildSessionPrompt(session models.TradingSession, st stats.SessionStats, trades []models.Trade) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %q (%s), started %s.\n",
		session.Name, session.SessionType, session.CreatedAt.Format("2 Jan 2006"))
	fmt.Fprintf(&b, "Initial capital %.2f, current capital %.2f.\n",
		session.InitialCapital, st.CurrentCapital)
	fmt.Fprintf(&b, "Trades: %d total, %d winning, %d losing, win rate %.1f%%.\n",
		st.TotalTrades, st.WinningTrades, st.LosingTrades, st.WinRate)
	fmt.Fprintf(&b, "Net P/L %.2f (%.2f%%), total margin used %.2f, average ROI %.2f%%.\n",
		st.NetProfitLoss, st.NetProfitLossPercentage, st.TotalMarginUsed, st.AverageROI)

	if len(trades) == 0 {
		b.WriteString("No trades have been logged yet.\n")
		return b.String()
	}

	recent := trades
	if len(recent) > maxPromptTrades {
		recent = recent[len(recent)-maxPromptTrades:]
	}

	b.WriteString("Recent trades (oldest first):\n")
	for _, trade := range recent {
		fmt.Fprintf(&b, "- %s %s: P/L %.2f, margin %.2f, ROI %.2f%%",
			trade.CreatedAt.Format("2 Jan"), tradeLabel(trade), trade.ProfitLoss, trade.Margin, trade.ROI)
		if trade.Comments != "" {
			fmt.Fprintf(&b, " (%s)", trade.Comments)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// tradeLabel names a trade by whatever identifies it for its kind.
func tradeLabel(trade models.Trade) string {
	switch trade.Kind {
	case models.TradeKindForex:
		if trade.Forex.Symbol != "" {
			return trade.Forex.Symbol + " " + trade.Forex.Type
		}
	case models.TradeKindCrypto:
		if trade.Crypto.FuturesSymbol != "" {
			return trade.Crypto.FuturesSymbol + " " + trade.Crypto.Direction
		}
	}
	if trade.EntrySide != "" {
		return trade.EntrySide
	}
	return "trade"
}
