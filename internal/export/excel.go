package export

import (
	"fmt"
	"time"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"

	"github.com/xuri/excelize/v2"
)

// cellFormat selects the number format applied to a column's data cells.
type cellFormat int

const (
	formatText cellFormat = iota
	formatCurrency
	formatPercent
)

// column describes one spreadsheet column declaratively: header title,
// width, number format and a selector pulling the cell value out of a
// trade. Selectors switch on the trade kind and return "" for fields
// the variant does not carry.
type column struct {
	title  string
	width  float64
	format cellFormat
	value  func(t models.Trade) interface{}
}

const (
	summarySheet = "Summary"
	detailSheet  = "Detailed Trades"
	tradesSheet  = "Trades"

	headerFillColor = "2563EB"
	bandFillColor   = "F1F5F9"
	borderColor     = "CCCCCC"
)

// formatDateTime renders the free-form open/close time strings the way
// the trade forms record them, falling back to the raw text when it is
// not a recognizable timestamp.
func formatDateTime(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Format("1/2/2006 3:04:05 PM")
		}
	}
	return value
}

// entryType maps a crypto direction onto the Buy/Sell vocabulary used
// by the forex "Type" column.
func entryType(t models.Trade) interface{} {
	switch t.Kind {
	case models.TradeKindForex:
		return t.Forex.Type
	case models.TradeKindCrypto:
		switch t.Crypto.Direction {
		case "Long":
			return "Buy"
		case "Short":
			return "Sell"
		}
	}
	return ""
}

// profitLoss prefers the common field and falls back to the realized
// PnL a crypto trade reports when the common field was never set.
func profitLoss(t models.Trade) interface{} {
	if t.Kind == models.TradeKindCrypto && t.ProfitLoss == 0 {
		return t.Crypto.RealizedPnl
	}
	return t.ProfitLoss
}

func entrySide(t models.Trade) interface{} {
	if t.EntrySide != "" {
		return t.EntrySide
	}
	if t.Kind == models.TradeKindCrypto {
		return t.Crypto.Direction
	}
	return ""
}

// forexNum returns a forex-only numeric field, blank for crypto rows.
func forexNum(sel func(models.ForexFields) float64) func(models.Trade) interface{} {
	return func(t models.Trade) interface{} {
		if t.Kind != models.TradeKindForex {
			return ""
		}
		return sel(t.Forex)
	}
}

// forexStr returns a forex-only text field, blank for crypto rows.
func forexStr(sel func(models.ForexFields) string) func(models.Trade) interface{} {
	return func(t models.Trade) interface{} {
		if t.Kind != models.TradeKindForex {
			return ""
		}
		return sel(t.Forex)
	}
}

// cryptoNum returns a crypto-only numeric field, blank for forex rows.
func cryptoNum(sel func(models.CryptoFields) float64) func(models.Trade) interface{} {
	return func(t models.Trade) interface{} {
		if t.Kind != models.TradeKindCrypto {
			return ""
		}
		return sel(t.Crypto)
	}
}

// cryptoStr returns a crypto-only text field, blank for forex rows.
func cryptoStr(sel func(models.CryptoFields) string) func(models.Trade) interface{} {
	return func(t models.Trade) interface{} {
		if t.Kind != models.TradeKindCrypto {
			return ""
		}
		return sel(t.Crypto)
	}
}

// detailColumns is the 26-column superset of both trade variants used
// by the full workbook export. The first 17 columns carry the shared
// and forex view of a trade; the tail carries the crypto-only fields.
func detailColumns() []column {
	return []column{
		{"Date", 12, formatText, func(t models.Trade) interface{} { return t.CreatedAt.Format("1/2/2006") }},
		{"Symbol", 15, formatText, func(t models.Trade) interface{} {
			switch t.Kind {
			case models.TradeKindForex:
				return t.Forex.Symbol
			case models.TradeKindCrypto:
				return t.Crypto.FuturesSymbol
			}
			return ""
		}},
		{"Type", 8, formatText, entryType},
		{"Volume (Lot)", 12, formatText, func(t models.Trade) interface{} {
			switch t.Kind {
			case models.TradeKindForex:
				return t.Forex.VolumeLot
			case models.TradeKindCrypto:
				return t.Crypto.ClosingQuantity
			}
			return ""
		}},
		{"Open Price", 12, formatText, func(t models.Trade) interface{} {
			switch t.Kind {
			case models.TradeKindForex:
				return t.Forex.OpenPrice
			case models.TradeKindCrypto:
				return t.Crypto.AvgEntryPrice
			}
			return ""
		}},
		{"Close Price", 12, formatText, func(t models.Trade) interface{} {
			switch t.Kind {
			case models.TradeKindForex:
				return t.Forex.ClosePrice
			case models.TradeKindCrypto:
				return t.Crypto.AvgClosePrice
			}
			return ""
		}},
		{"Leverage", 10, formatText, forexNum(func(f models.ForexFields) float64 { return f.Leverage })},
		{"Take Profit (TP)", 12, formatText, forexNum(func(f models.ForexFields) float64 { return f.TP })},
		{"Stop Loss (SL)", 12, formatText, forexNum(func(f models.ForexFields) float64 { return f.SL })},
		{"Position", 10, formatText, forexStr(func(f models.ForexFields) string { return f.Position })},
		{"Close Reason", 12, formatText, forexStr(func(f models.ForexFields) string { return f.Reason })},
		{"Open Time", 18, formatText, forexStr(func(f models.ForexFields) string { return formatDateTime(f.OpenTime) })},
		{"Close Time", 18, formatText, forexStr(func(f models.ForexFields) string { return formatDateTime(f.CloseTime) })},
		{"P&L (USD)", 12, formatCurrency, profitLoss},
		{"Margin (USD)", 12, formatCurrency, func(t models.Trade) interface{} { return t.Margin }},
		{"Entry Side", 12, formatText, entrySide},
		{"ROI %", 10, formatPercent, func(t models.Trade) interface{} { return t.ROI }},
		{"Comments", 30, formatText, func(t models.Trade) interface{} { return t.Comments }},
		{"Futures Symbol", 15, formatText, cryptoStr(func(c models.CryptoFields) string { return c.FuturesSymbol })},
		{"Margin Mode", 12, formatText, cryptoStr(func(c models.CryptoFields) string { return c.MarginMode })},
		{"Avg Entry Price", 15, formatText, cryptoNum(func(c models.CryptoFields) float64 { return c.AvgEntryPrice })},
		{"Avg Close Price", 15, formatText, cryptoNum(func(c models.CryptoFields) float64 { return c.AvgClosePrice })},
		{"Direction", 10, formatText, cryptoStr(func(c models.CryptoFields) string { return c.Direction })},
		{"Closing Quantity", 15, formatText, cryptoNum(func(c models.CryptoFields) float64 { return c.ClosingQuantity })},
		{"Realized PNL", 12, formatText, cryptoNum(func(c models.CryptoFields) float64 { return c.RealizedPnl })},
		{"Margin Adjustment History", 25, formatText, cryptoStr(func(c models.CryptoFields) string { return c.MarginAdjustmentHistory })},
	}
}

// reducedColumns is the 17-column trades-only variant without the
// crypto tail, for quick review. Its Type column shows the entry side.
func reducedColumns() []column {
	cols := detailColumns()[:17]
	out := make([]column, len(cols))
	copy(out, cols)
	out[2] = column{"Type", 8, formatText, func(t models.Trade) interface{} {
		if t.EntrySide != "" {
			return t.EntrySide
		}
		return entryType(t)
	}}
	return out
}

// rowStyles holds the style ids for one band (odd or even data rows),
// one per number format.
type rowStyles struct {
	text     int
	currency int
	percent  int
}

func thinBorder() []excelize.Border {
	sides := []string{"top", "bottom", "left", "right"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: borderColor, Style: 1})
	}
	return borders
}

// newRowStyles builds the three data-cell styles for a band fill color.
func newRowStyles(f *excelize.File, fill string) (rowStyles, error) {
	base := excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Border: thinBorder(),
	}

	var rs rowStyles
	var err error
	if rs.text, err = f.NewStyle(&base); err != nil {
		return rs, err
	}

	currencyFmt := "$0.00"
	withCurrency := base
	withCurrency.CustomNumFmt = &currencyFmt
	if rs.currency, err = f.NewStyle(&withCurrency); err != nil {
		return rs, err
	}

	percentFmt := "0.00%"
	withPercent := base
	withPercent.CustomNumFmt = &percentFmt
	if rs.percent, err = f.NewStyle(&withPercent); err != nil {
		return rs, err
	}

	return rs, nil
}

func (rs rowStyles) forFormat(format cellFormat) int {
	switch format {
	case formatCurrency:
		return rs.currency
	case formatPercent:
		return rs.percent
	default:
		return rs.text
	}
}

// writeTradesSheet populates one sheet from a column schema. When
// styled, it writes a bold title row, a shaded header row, alternating
// band fills and thin borders; otherwise it writes a bare header plus
// data rows.
func writeTradesSheet(f *excelize.File, sheet, title string, cols []column, trades []models.Trade, styled bool) error {
	headerRow := 1
	if title != "" {
		headerRow = 2
	}

	for i, col := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.title); err != nil {
			return err
		}
	}

	for r, trade := range trades {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, col.value(trade)); err != nil {
				return err
			}
		}
	}

	if !styled {
		return nil
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}

	if title != "" {
		if err := f.SetCellValue(sheet, "A1", title); err != nil {
			return err
		}
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "1E293B"},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}
	headerRef := fmt.Sprintf("A%d:%s%d", headerRow, lastCol, headerRow)
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, headerRef, nil); err != nil {
		return err
	}

	bands := [2]rowStyles{}
	if bands[0], err = newRowStyles(f, "FFFFFF"); err != nil {
		return err
	}
	if bands[1], err = newRowStyles(f, bandFillColor); err != nil {
		return err
	}

	for r := range trades {
		band := bands[r%2]
		row := headerRow + 1 + r
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, band.forFormat(col.format)); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeSummarySheet writes the ordered key/value overview rows.
func writeSummarySheet(f *excelize.File, session models.TradingSession, st stats.SessionStats) error {
	rows := []struct {
		label string
		value interface{}
	}{
		{"Session Name", session.Name},
		{"Session Type", string(session.SessionType)},
		{"Initial Capital", session.InitialCapital},
		{"Current Capital", session.CurrentCapital},
		{"Net P/L", st.NetProfitLoss},
		{"Net P/L %", st.NetProfitLossPercentage},
		{"Total Trades", st.TotalTrades},
		{"Win Rate %", st.WinRate},
		{"Winning Trades", st.WinningTrades},
		{"Losing Trades", st.LosingTrades},
		{"Total Margin Used", st.TotalMarginUsed},
		{"Average ROI %", st.AverageROI},
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return err
	}
	for i, row := range rows {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row.label); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row.value); err != nil {
			return err
		}
	}
	return nil
}

// Workbook builds the full two-sheet export: a Summary sheet of
// key/value rows and the styled 26-column Detailed Trades sheet.
func Workbook(session models.TradingSession, trades []models.Trade, st stats.SessionStats) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, session, st); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	title := fmt.Sprintf("%s - All Trades", session.Name)
	if err := writeTradesSheet(f, detailSheet, title, detailColumns(), trades, true); err != nil {
		return nil, err
	}

	return f, nil
}

// TradesWorkbook builds the reduced single-sheet 17-column export.
func TradesWorkbook(session models.TradingSession, trades []models.Trade) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", tradesSheet); err != nil {
		return nil, err
	}
	if err := writeTradesSheet(f, tradesSheet, "", reducedColumns(), trades, false); err != nil {
		return nil, err
	}
	return f, nil
}
