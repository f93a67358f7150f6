// Package mdg generates synthetic dump files so the pipeline can be
// exercised without exchange data. Output is deterministic for a given seed.
package mdg

import (
	"math/rand"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/codec"
	"main/internal/schema"
)

// Config is the generator profile. Prices are scaled integers (two decimal
// places) matching the wire format.
type Config struct {
	Symbols   []string
	Records   int
	Seed      int64
	BasePrice int64
	Tick      int64
	BaseQty   int64
	Start     time.Time
}

func (c Config) withDefaults() Config {
	if len(c.Symbols) == 0 {
		c.Symbols = []string{"NIFTY", "BANKNIFTY", "RELIANCE"}
	}
	if c.Records <= 0 {
		c.Records = 1000
	}
	if c.BasePrice <= 0 {
		c.BasePrice = 10000
	}
	if c.Tick <= 0 {
		c.Tick = 5
	}
	if c.BaseQty <= 0 {
		c.BaseQty = 25
	}
	if c.Start.IsZero() {
		c.Start = time.Date(2012, time.September, 3, 0, 0, 0, 0, time.UTC)
	}
	return c
}

// Generator produces encoded record bodies one at a time. Each symbol walks
// its own price; timestamps advance monotonically through the session.
type Generator struct {
	reg    *schema.Registry
	cfg    Config
	rng    *rand.Rand
	now    time.Time
	seq    uint64
	prices map[string]int64
	expiry codec.Date
	buf    []byte
}

// NewGenerator creates a generator over the registry's built-in layouts.
func NewGenerator(reg *schema.Registry, cfg Config) (*Generator, error) {
	if reg == nil {
		return nil, errors.New("generator requires a schema registry")
	}
	cfg = cfg.withDefaults()
	for _, t := range []schema.RecordType{
		schema.TypeOrderNew, schema.TypeOrderModify, schema.TypeOrderCancel,
		schema.TypeTrade, schema.TypeMarketStats,
	} {
		if _, ok := reg.SchemaFor(t); !ok {
			return nil, errors.Errorf("registry has no layout for type %d", t)
		}
	}

	start := cfg.Start
	open := time.Date(start.Year(), start.Month(), start.Day(), 9, 15, 0, 0, time.UTC)
	prices := make(map[string]int64, len(cfg.Symbols))
	for i, symbol := range cfg.Symbols {
		prices[symbol] = cfg.BasePrice + int64(i)*cfg.Tick*20
	}

	// expiry is the last Thursday of the start month
	last := time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for last.Weekday() != time.Thursday {
		last = last.AddDate(0, 0, -1)
	}

	return &Generator{
		reg:    reg,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		now:    open,
		prices: prices,
		expiry: codec.Date{Year: last.Year(), Month: int(last.Month()), Day: last.Day()},
	}, nil
}

// Records returns the configured record count.
func (g *Generator) Records() int {
	return g.cfg.Records
}

// Next encodes one record body. The returned slice is reused on the next
// call.
func (g *Generator) Next() ([]byte, schema.RecordType, error) {
	g.seq++
	g.now = g.now.Add(time.Duration(1+g.rng.Intn(200)) * time.Millisecond)

	symbol := g.cfg.Symbols[g.rng.Intn(len(g.cfg.Symbols))]
	g.prices[symbol] += int64(g.rng.Intn(5)-2) * g.cfg.Tick
	if g.prices[symbol] < g.cfg.Tick {
		g.prices[symbol] = g.cfg.Tick
	}

	var t schema.RecordType
	switch roll := g.rng.Intn(100); {
	case roll < 60:
		t = schema.TypeOrderNew
	case roll < 70:
		t = schema.TypeOrderModify
	case roll < 80:
		t = schema.TypeOrderCancel
	case roll < 98:
		t = schema.TypeTrade
	default:
		t = schema.TypeMarketStats
	}

	sch, _ := g.reg.SchemaFor(t)
	body, err := g.encode(sch, symbol)
	if err != nil {
		return nil, t, err
	}
	return body, t, nil
}

func (g *Generator) encode(sch *schema.RecordSchema, symbol string) ([]byte, error) {
	if cap(g.buf) < sch.Length {
		g.buf = make([]byte, sch.Length)
	}
	g.buf = g.buf[:sch.Length]
	for i := range g.buf {
		g.buf[i] = 0
	}

	price := g.prices[symbol]
	qty := g.cfg.BaseQty * int64(1+g.rng.Intn(8))
	for _, f := range sch.Fields {
		v, err := g.fieldValue(sch, f, symbol, price, qty)
		if err != nil {
			return nil, err
		}
		if err := codec.EncodeField(f, v, g.buf[f.Offset:f.Offset+f.Length]); err != nil {
			return nil, errors.Wrap(err, "encode record").With("record", sch.Name)
		}
	}
	return g.buf, nil
}

func (g *Generator) fieldValue(sch *schema.RecordSchema, f schema.FieldSpec, symbol string, price, qty int64) (codec.Value, error) {
	switch f.Name {
	case "record_type":
		return codec.Value{Kind: codec.ValueUint, Uint: uint64(sch.Type)}, nil
	case "segment":
		return codec.Value{Kind: codec.ValueText, Text: "FO"}, nil
	case "order_number", "trade_number", "buy_order_number", "sell_order_number":
		return codec.Value{Kind: codec.ValueUint, Uint: g.seq}, nil
	case "timestamp":
		return codec.Value{Kind: codec.ValueTimestamp, TS: g.now}, nil
	case "symbol":
		return codec.Value{Kind: codec.ValueText, Text: symbol}, nil
	case "instrument":
		if g.rng.Intn(2) == 0 {
			return codec.Value{Kind: codec.ValueEnum, Text: "FUTIDX"}, nil
		}
		return codec.Value{Kind: codec.ValueEnum, Text: "FUTSTK"}, nil
	case "expiry_date":
		return codec.Value{Kind: codec.ValueDate, Date: g.expiry}, nil
	case "buy_sell":
		if g.rng.Intn(2) == 0 {
			return codec.Value{Kind: codec.ValueEnum, Text: "B"}, nil
		}
		return codec.Value{Kind: codec.ValueEnum, Text: "S"}, nil
	case "option_type":
		return codec.Value{Kind: codec.ValueText, Text: "XX"}, nil
	case "strike_price", "trigger_price":
		return codec.Value{Kind: codec.ValueDecimal, Dec: codec.Decimal{Scale: f.Scale}}, nil
	case "limit_price", "trade_price", "open_price", "high_price", "low_price", "close_price":
		return codec.Value{Kind: codec.ValueDecimal, Dec: codec.Decimal{Integer: price, Scale: f.Scale}}, nil
	case "volume_disclosed", "volume_original", "trade_quantity", "total_traded_qty":
		return codec.Value{Kind: codec.ValueInt, Int: qty}, nil
	case "total_traded_value":
		return codec.Value{Kind: codec.ValueDecimal, Dec: codec.Decimal{Integer: price * qty, Scale: f.Scale}}, nil
	case "number_of_trades":
		return codec.Value{Kind: codec.ValueInt, Int: int64(g.seq)}, nil
	case "session_start":
		return codec.Value{Kind: codec.ValueTimeOfDay, Time: codec.TimeOfDay{Hour: 9, Minute: 15}}, nil
	case "session_end":
		return codec.Value{Kind: codec.ValueTimeOfDay, Time: codec.TimeOfDay{Hour: 15, Minute: 30}}, nil
	case "mkt_flag", "on_stop_flag", "io_flag", "spread_comb_type":
		return codec.Value{Kind: codec.ValueEnum, Text: "N"}, nil
	case "algo_ind", "buy_algo_ind", "sell_algo_ind":
		return codec.Value{Kind: codec.ValueEnum, Text: "0"}, nil
	case "client_id_flag", "buy_client_flag", "sell_client_flag":
		return codec.Value{Kind: codec.ValueEnum, Text: "1"}, nil
	}
	return codec.Value{}, errors.Errorf("no generator value for field %s.%s", sch.Name, f.Name)
}
