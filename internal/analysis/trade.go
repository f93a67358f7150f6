// Package analysis aggregates reformatted trade CSVs into per-file,
// per-instrument, and per-bucket statistics.
package analysis

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/codec"
)

// PriceScale is the fixed-point scale of trade prices in the dump format.
const PriceScale = 2

// TradeRow is one trade parsed back from the reformatter's CSV output.
//
//go:generate csvable
type TradeRow struct {
	Symbol     string        `csv:"symbol"`
	Instrument string        `csv:"instrument"`
	Timestamp  time.Time     `csv:"timestamp"`
	Price      codec.Decimal `csv:"trade_price"`
	Quantity   int64         `csv:"trade_quantity"`
}

var tradeColumns = []string{"symbol", "instrument", "timestamp", "trade_price", "trade_quantity"}

// LoadTrades reads a trade CSV produced by the reformatter. Columns are
// located by header name, so extra columns and reordering are harmless. Rows
// carrying an error marker in a required cell are skipped and counted, not
// fatal. Trades come back sorted by timestamp.
func LoadTrades(path string) ([]TradeRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open trade csv")
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read csv header").With("path", path)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	idx := make([]int, len(tradeColumns))
	for i, name := range tradeColumns {
		pos, ok := cols[name]
		if !ok {
			return nil, errors.Errorf("trade csv %s missing column %q", path, name)
		}
		idx[i] = pos
	}

	var (
		trades  []TradeRow
		skipped int
		line    = 1
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrap(err, "read csv row").With("path", path)
		}

		row, ok := parseTrade(rec, idx)
		if !ok {
			skipped++
			continue
		}
		trades = append(trades, row)
	}
	if skipped > 0 {
		logs.Warnf("%s: skipped %d unusable trade rows", path, skipped)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})
	return trades, nil
}

func parseTrade(rec []string, idx []int) (TradeRow, bool) {
	for _, pos := range idx {
		if rec[pos] == codec.ErrorMarker {
			return TradeRow{}, false
		}
	}

	ts, err := time.Parse(codec.TimestampLayout, rec[idx[2]])
	if err != nil {
		return TradeRow{}, false
	}
	price, err := codec.ParseDecimal(rec[idx[3]], PriceScale)
	if err != nil {
		return TradeRow{}, false
	}
	qty, err := strconv.ParseInt(rec[idx[4]], 10, 64)
	if err != nil || qty <= 0 {
		return TradeRow{}, false
	}

	return TradeRow{
		Symbol:     rec[idx[0]],
		Instrument: rec[idx[1]],
		Timestamp:  ts,
		Price:      price,
		Quantity:   qty,
	}, true
}
