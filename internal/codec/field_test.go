package codec

import (
	stderrors "errors"
	"testing"
	"time"

	"main/internal/schema"
	"main/pkg/exception"
)

func TestFixedIntRoundTrip(t *testing.T) {
	testCases := []struct {
		desc     string
		length   int
		unsigned bool
		value    int64
	}{
		{"u16", 2, true, 3000},
		{"u64", 8, true, 1 << 40},
		{"i8 negative", 1, false, -5},
		{"i16 negative", 2, false, -30000},
		{"i64", 8, false, -123456789},
		{"zero", 4, false, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			spec := schema.FieldSpec{Name: "f", Length: tc.length, Kind: schema.KindFixedInt, Unsigned: tc.unsigned}
			buf := make([]byte, tc.length)
			var v Value
			if tc.unsigned {
				v = Value{Kind: ValueUint, Uint: uint64(tc.value)}
			} else {
				v = Value{Kind: ValueInt, Int: tc.value}
			}
			if err := EncodeField(spec, v, buf); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			got, err := DecodeField(spec, buf)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if tc.unsigned {
				if got.Uint != uint64(tc.value) {
					t.Fatalf("round-trip mismatch! should be %d but got %d", tc.value, got.Uint)
				}
			} else if got.Int != tc.value {
				t.Fatalf("round-trip mismatch! should be %d but got %d", tc.value, got.Int)
			}
		})
	}
}

func TestFixedIntWidthOverflow(t *testing.T) {
	spec := schema.FieldSpec{Name: "f", Length: 1, Kind: schema.KindFixedInt}
	if err := EncodeField(spec, Value{Kind: ValueInt, Int: 200}, make([]byte, 1)); err == nil {
		t.Fatalf("expected width overflow error")
	}
	uspec := schema.FieldSpec{Name: "f", Length: 2, Kind: schema.KindFixedInt, Unsigned: true}
	if err := EncodeField(uspec, Value{Kind: ValueUint, Uint: 1 << 16}, make([]byte, 2)); err == nil {
		t.Fatalf("expected width overflow error")
	}
}

func TestFixedTextTrimsPadding(t *testing.T) {
	spec := schema.FieldSpec{Name: "symbol", Length: 10, Kind: schema.KindFixedText}
	buf := make([]byte, 10)
	if err := EncodeField(spec, Value{Kind: ValueText, Text: "NIFTY"}, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := DecodeField(spec, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Text != "NIFTY" {
		t.Fatalf("text mismatch! should be NIFTY but got %q", got.Text)
	}

	// NUL padding decodes the same as space padding
	copy(buf, "FO\x00\x00\x00\x00\x00\x00\x00\x00")
	got, err = DecodeField(spec, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Text != "FO" {
		t.Fatalf("text mismatch! should be FO but got %q", got.Text)
	}

	buf[1] = 0x01
	if _, err := DecodeField(spec, buf); !stderrors.Is(err, exception.ErrFieldDecode) {
		t.Fatalf("expected field decode error, got %v", err)
	}
}

func TestPackedDate(t *testing.T) {
	testCases := []struct {
		desc    string
		packed  uint32
		wantErr bool
	}{
		{"valid", 20120927, false},
		{"leap day", 20120229, false},
		{"month 13", 20121340, true},
		{"feb 30", 20120230, true},
		{"year too small", 18991231, true},
	}

	spec := schema.FieldSpec{Name: "expiry_date", Length: 4, Kind: schema.KindPackedDate}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			buf := []byte{byte(tc.packed >> 24), byte(tc.packed >> 16), byte(tc.packed >> 8), byte(tc.packed)}
			got, err := DecodeField(spec, buf)
			if tc.wantErr {
				if !stderrors.Is(err, exception.ErrFieldDecode) {
					t.Fatalf("expected field decode error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			packed := uint32(got.Date.Year*10000 + got.Date.Month*100 + got.Date.Day)
			if packed != tc.packed {
				t.Fatalf("date mismatch! should be %d but got %d", tc.packed, packed)
			}
		})
	}
}

func TestPackedTime(t *testing.T) {
	spec := schema.FieldSpec{Name: "session_start", Length: 4, Kind: schema.KindPackedTime}
	buf := make([]byte, 4)
	v := Value{Kind: ValueTimeOfDay, Time: TimeOfDay{Hour: 9, Minute: 15, Second: 30, Milli: 250}}
	if err := EncodeField(spec, v, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := DecodeField(spec, buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Time != v.Time {
		t.Fatalf("time mismatch! should be %+v but got %+v", v.Time, got.Time)
	}
	if got.String() != "09:15:30.250" {
		t.Fatalf("render mismatch! should be 09:15:30.250 but got %s", got.String())
	}

	bad := uint32(25_00_00_000)
	buf = []byte{byte(bad >> 24), byte(bad >> 16), byte(bad >> 8), byte(bad)}
	if _, err := DecodeField(spec, buf); !stderrors.Is(err, exception.ErrFieldDecode) {
		t.Fatalf("expected field decode error, got %v", err)
	}
}

func TestJiffyTimestampRoundTrip(t *testing.T) {
	spec := schema.FieldSpec{Name: "timestamp", Length: 8, Kind: schema.KindPackedTimestamp}

	// every jiffy must survive decode->encode exactly, including values whose
	// fractional nanoseconds truncate
	for _, jiffies := range []int64{0, 1, 65535, 65536, 65537, 67_649_218_560_000, 1<<45 + 12345} {
		buf := make([]byte, 8)
		u := uint64(jiffies)
		for i := 7; i >= 0; i-- {
			buf[i] = byte(u)
			u >>= 8
		}
		decoded, err := DecodeField(spec, buf)
		if err != nil {
			t.Fatalf("decode failed for %d: %v", jiffies, err)
		}
		if decoded.Int != jiffies {
			t.Fatalf("raw jiffies mismatch! should be %d but got %d", jiffies, decoded.Int)
		}

		out := make([]byte, 8)
		if err := EncodeField(spec, decoded, out); err != nil {
			t.Fatalf("encode failed for %d: %v", jiffies, err)
		}
		for i := range out {
			if out[i] != buf[i] {
				t.Fatalf("round-trip mismatch for %d: got % x want % x", jiffies, out, buf)
			}
		}
	}

	if got, _ := DecodeField(spec, make([]byte, 8)); !got.TS.Equal(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("epoch mismatch! got %v", got.TS)
	}

	neg := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	if _, err := DecodeField(spec, neg); !stderrors.Is(err, exception.ErrFieldDecode) {
		t.Fatalf("expected field decode error for negative jiffies, got %v", err)
	}
}

func TestEnumDecode(t *testing.T) {
	table := schema.NewEnumTable("buy_sell", map[string]string{"B": "B", "S": "S"})
	spec := schema.FieldSpec{Name: "buy_sell", Length: 1, Kind: schema.KindEnum, Enum: table}

	got, err := DecodeField(spec, []byte{'B'})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Kind != ValueEnum || got.Text != "B" {
		t.Fatalf("enum mismatch! got %+v", got)
	}

	got, err = DecodeField(spec, []byte{'X'})
	if !stderrors.Is(err, exception.ErrUnknownEnumValue) {
		t.Fatalf("expected unknown enum error, got %v", err)
	}
	if got.Kind != ValueRawCode || got.Text != "X" {
		t.Fatalf("raw code not preserved! got %+v", got)
	}
}

func TestDecodeFieldWindowMismatch(t *testing.T) {
	spec := schema.FieldSpec{Name: "f", Length: 4, Kind: schema.KindFixedInt}
	if _, err := DecodeField(spec, make([]byte, 3)); !stderrors.Is(err, exception.ErrFieldDecode) {
		t.Fatalf("expected field decode error, got %v", err)
	}
	if err := EncodeField(spec, Value{Kind: ValueInt}, make([]byte, 5)); !stderrors.Is(err, exception.ErrFieldEncode) {
		t.Fatalf("expected field encode error, got %v", err)
	}
}

func TestErrorValueRendersMarker(t *testing.T) {
	if got := ErrorValue().String(); got != ErrorMarker {
		t.Fatalf("marker mismatch! should be %s but got %s", ErrorMarker, got)
	}
}
