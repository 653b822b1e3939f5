package export

import (
	"testing"

	"trading-journal-go/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookLayout(t *testing.T) {
	session := sampleSession()
	trades := sampleTrades()
	st := stats.Compute(trades, session.InitialCapital)

	f, err := Workbook(session, trades, st)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Detailed Trades"}, f.GetSheetList())

	// Summary sheet: ordered key/value rows.
	name, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "London Scalps", name)
	kind, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Forex", kind)
	totalTrades, err := f.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "2", totalTrades)

	// Detailed sheet: title row, then the 26-column header.
	title, err := f.GetCellValue("Detailed Trades", "A1")
	require.NoError(t, err)
	assert.Equal(t, "London Scalps - All Trades", title)

	cols := detailColumns()
	require.Len(t, cols, 26)
	firstHeader, err := f.GetCellValue("Detailed Trades", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Date", firstHeader)
	lastHeader, err := f.GetCellValue("Detailed Trades", "Z2")
	require.NoError(t, err)
	assert.Equal(t, "Margin Adjustment History", lastHeader)
}

func TestWorkbookVariantCells(t *testing.T) {
	session := sampleSession()
	trades := sampleTrades()
	st := stats.Compute(trades, session.InitialCapital)

	f, err := Workbook(session, trades, st)
	require.NoError(t, err)
	defer f.Close()

	// Forex row (row 3): symbol from the forex fields, crypto tail blank.
	symbol, err := f.GetCellValue("Detailed Trades", "B3")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", symbol)
	futSymbol, err := f.GetCellValue("Detailed Trades", "S3")
	require.NoError(t, err)
	assert.Empty(t, futSymbol)

	// Crypto row (row 4): symbol falls back to the futures symbol, type
	// maps Short to Sell, forex-only cells stay blank.
	symbol, err = f.GetCellValue("Detailed Trades", "B4")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", symbol)
	tradeType, err := f.GetCellValue("Detailed Trades", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Sell", tradeType)
	leverage, err := f.GetCellValue("Detailed Trades", "G4")
	require.NoError(t, err)
	assert.Empty(t, leverage)
}

func TestTradesWorkbookReduced(t *testing.T) {
	session := sampleSession()
	trades := sampleTrades()

	f, err := TradesWorkbook(session, trades)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Trades"}, f.GetSheetList())

	cols := reducedColumns()
	require.Len(t, cols, 17)

	// No title row: header sits on row 1 and stops before the crypto tail.
	firstHeader, err := f.GetCellValue("Trades", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", firstHeader)
	lastHeader, err := f.GetCellValue("Trades", "Q1")
	require.NoError(t, err)
	assert.Equal(t, "ROI %", lastHeader)
	beyond, err := f.GetCellValue("Trades", "R1")
	require.NoError(t, err)
	assert.Empty(t, beyond)

	// Type column shows the entry side in the reduced export.
	tradeType, err := f.GetCellValue("Trades", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Buy", tradeType)
}
