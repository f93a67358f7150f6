package analysis

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/codec"
)

func tradeAt(ts time.Time, symbol, instrument string, price int64, qty int64) TradeRow {
	return TradeRow{
		Symbol:     symbol,
		Instrument: instrument,
		Timestamp:  ts,
		Price:      codec.Decimal{Integer: price, Scale: PriceScale},
		Quantity:   qty,
	}
}

func TestAnalyzeVWAPExactRounding(t *testing.T) {
	base := time.Date(2012, 9, 3, 10, 0, 0, 0, time.UTC)
	trades := []TradeRow{
		tradeAt(base, "NIFTY", "FUTIDX", 10025, 10),
		tradeAt(base.Add(time.Minute), "NIFTY", "FUTIDX", 10050, 20),
		tradeAt(base.Add(2*time.Minute), "NIFTY", "FUTIDX", 9975, 15),
	}

	result, err := Analyze("trades.csv", trades)
	require.NoError(t, err)

	// 450875/45 rounds half-up to 10019 at scale 2
	assert.Equal(t, "100.19", result.Report.VWAP.String())
	assert.Equal(t, int64(3), result.Report.Trades)
	assert.Equal(t, int64(1), result.Report.Symbols)
	assert.Equal(t, int64(1), result.Report.Days)
	assert.Equal(t, int64(10), result.Report.QtyMin)
	assert.Equal(t, int64(20), result.Report.QtyMax)
	assert.InDelta(t, 15.0, result.Report.QtyMean, 1e-9)
	assert.InDelta(t, 100.0+1.0/6, result.Report.MeanPrice, 1e-9)

	require.Len(t, result.Instruments, 1)
	assert.Equal(t, "FUTIDX", result.Instruments[0].Instrument)
	assert.Equal(t, int64(45), result.Instruments[0].Volume)
	assert.Equal(t, "100.19", result.Instruments[0].VWAP.String())

	require.Len(t, result.Buckets, 1)
	assert.Equal(t, "10:00", result.Buckets[0].Bucket)
	assert.Equal(t, int64(3), result.Buckets[0].Trades)
}

func TestAnalyzeDailyAndInterarrival(t *testing.T) {
	day1 := time.Date(2012, 9, 3, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2012, 9, 4, 10, 0, 0, 0, time.UTC)
	trades := []TradeRow{
		tradeAt(day1, "NIFTY", "FUTIDX", 10000, 10),
		tradeAt(day1.Add(10*time.Second), "NIFTY", "FUTIDX", 10000, 20),
		tradeAt(day1.Add(30*time.Second), "NIFTY", "FUTIDX", 10000, 30),
		tradeAt(day2, "NIFTY", "FUTIDX", 10000, 40),
	}

	result, err := Analyze("trades.csv", trades)
	require.NoError(t, err)
	rep := result.Report

	assert.Equal(t, int64(2), rep.Days)
	// gaps are within-day only: 10s and 20s
	assert.InDelta(t, 15.0, rep.InterarrivalP50, 1e-9)
	assert.InDelta(t, 60.0, rep.DailyVolumeMax, 1e-9)
	assert.InDelta(t, 40.0, rep.DailyVolumeMin, 1e-9)
	assert.InDelta(t, 50.0, rep.DailyVolumeMean, 1e-9)
	assert.InDelta(t, 50.0, rep.DailyVolumeMedian, 1e-9)

	// flat prices leave no excursion from the open
	assert.InDelta(t, 0.0, rep.DailyPriceMaxBps, 1e-9)
	assert.InDelta(t, 0.0, rep.DailyPriceMinBps, 1e-9)
}

func TestAnalyzeDailyPriceExtremes(t *testing.T) {
	day1 := time.Date(2012, 9, 3, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2012, 9, 4, 10, 0, 0, 0, time.UTC)
	trades := []TradeRow{
		tradeAt(day1, "NIFTY", "FUTIDX", 10000, 10),
		tradeAt(day1.Add(time.Minute), "NIFTY", "FUTIDX", 10100, 10),
		tradeAt(day1.Add(2*time.Minute), "NIFTY", "FUTIDX", 9900, 10),
		tradeAt(day2, "NIFTY", "FUTIDX", 10000, 10),
		tradeAt(day2.Add(time.Minute), "NIFTY", "FUTIDX", 10200, 10),
	}

	result, err := Analyze("trades.csv", trades)
	require.NoError(t, err)
	rep := result.Report

	// day1 ranges -100..+100 bps off its open, day2 reaches +200
	assert.InDelta(t, 200.0, rep.DailyPriceMaxBps, 1e-9)
	assert.InDelta(t, -100.0, rep.DailyPriceMinBps, 1e-9)
}

func TestAnalyzeSampledSeries(t *testing.T) {
	open := time.Date(2012, 9, 3, 9, 15, 0, 0, time.UTC)
	trades := []TradeRow{
		tradeAt(open.Add(time.Second), "NIFTY", "FUTIDX", 10000, 10),
		tradeAt(open.Add(4*time.Minute), "NIFTY", "FUTIDX", 10100, 10),
		tradeAt(open.Add(10*time.Minute), "NIFTY", "FUTIDX", 10200, 10),
	}

	result, err := Analyze("trades.csv", trades)
	require.NoError(t, err)
	rep := result.Report

	// series carries the last price forward, so the stddev reflects steps
	assert.False(t, math.IsNaN(rep.SampledPriceStd))
	assert.False(t, math.IsNaN(rep.ReturnsMeanBps))
	assert.Greater(t, rep.ReturnsSumAbsBps, 0.0)
}

func TestAnalyzeNoTrades(t *testing.T) {
	_, err := Analyze("empty.csv", nil)
	require.Error(t, err)
}

func TestLoadTrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "day1-trade.csv")
	content := "record_type,symbol,instrument,timestamp,trade_price,trade_quantity\n" +
		"3000,NIFTY,FUTIDX,09/03/2012 10:00:00.000000,100.25,10\n" +
		"3000,RELIANCE,FUTSTK,09/03/2012 09:59:00.000000,99.50,5\n" +
		"3000,NIFTY,FUTIDX,09/03/2012 10:01:00.000000,!ERROR,10\n" +
		"3000,NIFTY,FUTIDX,bogus,100.00,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	trades, err := LoadTrades(path)
	require.NoError(t, err)
	require.Len(t, trades, 2, "error and unparsable rows are skipped")

	// sorted by timestamp
	assert.Equal(t, "RELIANCE", trades[0].Symbol)
	assert.Equal(t, "NIFTY", trades[1].Symbol)
	assert.Equal(t, int64(10025), trades[1].Price.Integer)
	assert.Equal(t, int64(10), trades[1].Quantity)
	assert.Equal(t, 10, trades[1].Timestamp.Hour())
}

func TestLoadTradesMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,timestamp\nNIFTY,x\n"), 0o644))

	_, err := LoadTrades(path)
	require.Error(t, err)
}

func TestQuantileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	testCases := []struct {
		q        float64
		expected float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tc := range testCases {
		if got := quantile(sorted, tc.q); math.Abs(got-tc.expected) > 1e-9 {
			t.Fatalf("quantile(%v) mismatch! should be %v but got %v", tc.q, tc.expected, got)
		}
	}
}

func TestMedian(t *testing.T) {
	if got := median([]float64{9, 1, 5}); math.Abs(got-5) > 1e-9 {
		t.Fatalf("median mismatch! should be 5 but got %v", got)
	}
	if got := median([]float64{4, 1, 3, 2}); math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("median mismatch! should be 2.5 but got %v", got)
	}
}

func TestStddevPopulation(t *testing.T) {
	got := stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("stddev mismatch! should be 2 but got %v", got)
	}
}
