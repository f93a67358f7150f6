package split

import (
	"bytes"
	stderrors "errors"
	"io"
	"testing"
	"time"

	"main/internal/codec"
	"main/internal/schema"
	"main/pkg/exception"
)

func encodeRecord(t *testing.T, reg *schema.Registry, rt schema.RecordType) []byte {
	t.Helper()
	sch, ok := reg.SchemaFor(rt)
	if !ok {
		t.Fatalf("missing schema for %d", rt)
	}
	body := make([]byte, sch.Length)
	for _, f := range sch.Fields {
		var v codec.Value
		switch f.Name {
		case "record_type":
			v = codec.Value{Kind: codec.ValueUint, Uint: uint64(rt)}
		case "segment":
			v = codec.Value{Kind: codec.ValueText, Text: "FO"}
		case "symbol":
			v = codec.Value{Kind: codec.ValueText, Text: "NIFTY"}
		case "instrument":
			v = codec.Value{Kind: codec.ValueEnum, Text: "FUTIDX"}
		case "buy_sell":
			v = codec.Value{Kind: codec.ValueEnum, Text: "B"}
		case "option_type":
			v = codec.Value{Kind: codec.ValueText, Text: "XX"}
		case "mkt_flag", "on_stop_flag", "io_flag", "spread_comb_type":
			v = codec.Value{Kind: codec.ValueEnum, Text: "N"}
		case "algo_ind", "buy_algo_ind", "sell_algo_ind":
			v = codec.Value{Kind: codec.ValueEnum, Text: "0"}
		case "client_id_flag", "buy_client_flag", "sell_client_flag":
			v = codec.Value{Kind: codec.ValueEnum, Text: "1"}
		default:
			switch f.Kind {
			case schema.KindFixedInt:
				if f.Unsigned {
					v = codec.Value{Kind: codec.ValueUint, Uint: 7}
				} else {
					v = codec.Value{Kind: codec.ValueInt, Int: 7}
				}
			case schema.KindFixedPoint:
				v = codec.Value{Kind: codec.ValueDecimal, Dec: codec.Decimal{Integer: 10000, Scale: f.Scale}}
			case schema.KindPackedDate:
				v = codec.Value{Kind: codec.ValueDate, Date: codec.Date{Year: 2012, Month: 9, Day: 27}}
			case schema.KindPackedTime:
				v = codec.Value{Kind: codec.ValueTimeOfDay, Time: codec.TimeOfDay{Hour: 9, Minute: 15}}
			case schema.KindPackedTimestamp:
				v = codec.Value{Kind: codec.ValueTimestamp, TS: time.Date(2012, 9, 3, 11, 0, 0, 0, time.UTC)}
			default:
				v = codec.Value{Kind: codec.ValueText}
			}
		}
		if err := codec.EncodeField(f, v, body[f.Offset:f.Offset+f.Length]); err != nil {
			t.Fatalf("encode %s failed: %v", f.Name, err)
		}
	}
	return body
}

func prefixed(body []byte) []byte {
	out := make([]byte, 0, len(body)+2)
	out = append(out, byte(len(body)>>8), byte(len(body)))
	return append(out, body...)
}

func TestFixedFramingWalksStream(t *testing.T) {
	reg := schema.Builtin()
	var stream bytes.Buffer
	types := []schema.RecordType{schema.TypeOrderNew, schema.TypeTrade, schema.TypeMarketStats, schema.TypeOrderCancel}
	for _, rt := range types {
		stream.Write(encodeRecord(t, reg, rt))
	}

	sp := New(&stream, reg, FramingFixed, Options{})
	for i, want := range types {
		raw, err := sp.Next()
		if err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
		if raw.Type != want {
			t.Fatalf("record %d type mismatch! should be %d but got %d", i, want, raw.Type)
		}
	}
	if _, err := sp.Next(); err != io.EOF {
		t.Fatalf("expected clean EOF, got %v", err)
	}
}

func TestFixedFramingTruncatedTail(t *testing.T) {
	reg := schema.Builtin()
	full := encodeRecord(t, reg, schema.TypeTrade)

	testCases := []struct {
		desc string
		cut  int
	}{
		{"partial discriminator", len(full) + 1},
		{"short body", len(full) + 40},
		{"missing last byte", 2*len(full) - 1},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			stream := append(append([]byte{}, full...), full...)
			sp := New(bytes.NewReader(stream[:tc.cut]), reg, FramingFixed, Options{})
			if _, err := sp.Next(); err != nil {
				t.Fatalf("first record failed: %v", err)
			}
			_, err := sp.Next()
			if !stderrors.Is(err, exception.ErrTruncatedRecord) {
				t.Fatalf("expected truncated error, got %v", err)
			}
		})
	}
}

func TestFixedFramingUnknownTypeStops(t *testing.T) {
	reg := schema.Builtin()
	stream := encodeRecord(t, reg, schema.TypeOrderNew)
	stream = append(stream, 0x27, 0x0F) // discriminator 9999
	stream = append(stream, encodeRecord(t, reg, schema.TypeTrade)...)

	sp := New(bytes.NewReader(stream), reg, FramingFixed, Options{})
	if _, err := sp.Next(); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	raw, err := sp.Next()
	if !stderrors.Is(err, exception.ErrUnknownRecordType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if raw.Type != schema.RecordType(9999) {
		t.Fatalf("discriminator mismatch! should be 9999 but got %d", raw.Type)
	}
}

func TestPrefixedFramingSkipsUnknownType(t *testing.T) {
	reg := schema.Builtin()
	var stream bytes.Buffer
	stream.Write(prefixed(encodeRecord(t, reg, schema.TypeOrderNew)))
	unknown := []byte{0x27, 0x0F, 1, 2, 3, 4, 5}
	stream.Write(prefixed(unknown))
	stream.Write(prefixed(encodeRecord(t, reg, schema.TypeTrade)))

	sp := New(&stream, reg, FramingPrefixed, Options{})
	if _, err := sp.Next(); err != nil {
		t.Fatalf("first record failed: %v", err)
	}

	_, err := sp.Next()
	if !stderrors.Is(err, exception.ErrUnknownRecordType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}

	// the unknown body was consumed by its declared length; the stream continues
	raw, err := sp.Next()
	if err != nil {
		t.Fatalf("stream did not continue: %v", err)
	}
	if raw.Type != schema.TypeTrade {
		t.Fatalf("type mismatch after skip! should be %d but got %d", schema.TypeTrade, raw.Type)
	}
	if _, err := sp.Next(); err != io.EOF {
		t.Fatalf("expected clean EOF, got %v", err)
	}
}

func TestPrefixedFramingMalformedLengths(t *testing.T) {
	reg := schema.Builtin()

	t.Run("below discriminator size", func(t *testing.T) {
		sp := New(bytes.NewReader([]byte{0x00, 0x01, 0xAA}), reg, FramingPrefixed, Options{})
		if _, err := sp.Next(); !stderrors.Is(err, exception.ErrMalformedRecordLength) {
			t.Fatalf("expected malformed length error, got %v", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		body := encodeRecord(t, reg, schema.TypeTrade)
		sp := New(bytes.NewReader(prefixed(body)), reg, FramingPrefixed, Options{MaxRecordLength: 16})
		if _, err := sp.Next(); !stderrors.Is(err, exception.ErrRecordTooLarge) {
			t.Fatalf("expected record too large error, got %v", err)
		}
	})

	t.Run("body shorter than declared", func(t *testing.T) {
		body := encodeRecord(t, reg, schema.TypeTrade)
		framed := prefixed(body)
		sp := New(bytes.NewReader(framed[:len(framed)-5]), reg, FramingPrefixed, Options{})
		if _, err := sp.Next(); !stderrors.Is(err, exception.ErrTruncatedRecord) {
			t.Fatalf("expected truncated error, got %v", err)
		}
	})

	t.Run("partial prefix", func(t *testing.T) {
		sp := New(bytes.NewReader([]byte{0x00}), reg, FramingPrefixed, Options{})
		if _, err := sp.Next(); !stderrors.Is(err, exception.ErrTruncatedRecord) {
			t.Fatalf("expected truncated error, got %v", err)
		}
	})
}

func TestFramingForPath(t *testing.T) {
	if got := FramingForPath("dump/foo.jrn"); got != FramingPrefixed {
		t.Fatalf("jrn should be prefixed, got %v", got)
	}
	if got := FramingForPath("dump/foo.dat"); got != FramingFixed {
		t.Fatalf("dat should be fixed, got %v", got)
	}
	if got := FramingForPath("dump/FOO.JRN"); got != FramingPrefixed {
		t.Fatalf("extension match should be case-insensitive, got %v", got)
	}
}
