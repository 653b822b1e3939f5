package stats

import "trading-journal-go/internal/models"

// SessionStats is the derived summary of a session's trades. It is
// recomputed from scratch from the full trade set and never persisted.
type SessionStats struct {
	TotalTrades             int     `json:"totalTrades"`
	WinningTrades           int     `json:"winningTrades"`
	LosingTrades            int     `json:"losingTrades"`
	WinRate                 float64 `json:"winRate"`
	CurrentCapital          float64 `json:"currentCapital"`
	NetProfitLoss           float64 `json:"netProfitLoss"`
	NetProfitLossPercentage float64 `json:"netProfitLossPercentage"`
	TotalMarginUsed         float64 `json:"totalMarginUsed"`
	AverageROI              float64 `json:"averageROI"`
}

// Compute aggregates a trade set against the session's initial capital.
// It is pure: callers own any write-back of CurrentCapital.
//
// A trade counts as a win when ProfitLoss > 0 and as a loss when
// ProfitLoss < 0; a trade with exactly zero ProfitLoss counts toward
// neither. All ratios are defined as 0 where the denominator would be
// zero (no trades, or zero initial capital).
func Compute(trades []models.Trade, initialCapital float64) SessionStats {
	s := SessionStats{
		TotalTrades:    len(trades),
		CurrentCapital: initialCapital,
	}

	var roiSum float64
	for _, trade := range trades {
		switch {
		case trade.ProfitLoss > 0:
			s.WinningTrades++
		case trade.ProfitLoss < 0:
			s.LosingTrades++
		}
		s.NetProfitLoss += trade.ProfitLoss
		s.TotalMarginUsed += trade.Margin
		roiSum += trade.ROI
	}

	s.CurrentCapital = initialCapital + s.NetProfitLoss

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
		s.AverageROI = roiSum / float64(s.TotalTrades)
	}
	if initialCapital != 0 {
		s.NetProfitLossPercentage = s.NetProfitLoss / initialCapital * 100
	}

	return s
}
