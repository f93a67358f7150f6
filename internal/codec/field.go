package codec

import (
	"time"

	"github.com/yanun0323/errors"

	"main/internal/schema"
	"main/pkg/exception"
	"main/pkg/scanner"
)

// jiffyEpoch is the exchange clock origin. Timestamps on the wire are
// jiffies (1/65536 s) elapsed since this instant.
var jiffyEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

const jiffiesPerSecond = 65536

// DecodeField decodes one field window according to its spec. The window
// must be exactly spec.Length bytes. An unknown enum code returns the raw
// code value together with exception.ErrUnknownEnumValue; every other
// failure wraps exception.ErrFieldDecode.
func DecodeField(spec schema.FieldSpec, window []byte) (Value, error) {
	if len(window) != spec.Length {
		return Value{}, errors.Wrap(exception.ErrFieldDecode, "window size mismatch").
			With("field", spec.Name).With("want", spec.Length).With("got", len(window))
	}

	switch spec.Kind {
	case schema.KindFixedInt:
		if spec.Unsigned {
			return Value{Kind: ValueUint, Uint: beUint(window)}, nil
		}
		return Value{Kind: ValueInt, Int: beInt(window)}, nil

	case schema.KindFixedPoint:
		return Value{Kind: ValueDecimal, Dec: Decimal{Integer: beInt(window), Scale: spec.Scale}}, nil

	case schema.KindFixedText:
		return decodeText(spec, window)

	case schema.KindPackedDate:
		return decodePackedDate(spec, window)

	case schema.KindPackedTime:
		return decodePackedTime(spec, window)

	case schema.KindPackedTimestamp:
		return decodeJiffyTimestamp(spec, window)

	case schema.KindEnum:
		return decodeEnum(spec, window)

	default:
		return Value{}, errors.Wrap(exception.ErrFieldDecode, "invalid codec kind").
			With("field", spec.Name)
	}
}

// EncodeField is the inverse of DecodeField. It writes exactly spec.Length
// bytes into dst. Used by the dump generator and round-trip tests.
func EncodeField(spec schema.FieldSpec, v Value, dst []byte) error {
	if len(dst) != spec.Length {
		return errors.Wrap(exception.ErrFieldEncode, "window size mismatch").
			With("field", spec.Name).With("want", spec.Length).With("got", len(dst))
	}

	switch spec.Kind {
	case schema.KindFixedInt:
		if spec.Unsigned {
			return putBEUint(spec, v.Uint, dst)
		}
		return putBEInt(spec, v.Int, dst)

	case schema.KindFixedPoint:
		if v.Dec.Scale != spec.Scale {
			return errors.Wrap(exception.ErrFieldEncode, "scale mismatch").
				With("field", spec.Name).With("want", spec.Scale).With("got", v.Dec.Scale)
		}
		return putBEInt(spec, v.Dec.Integer, dst)

	case schema.KindFixedText:
		return encodeText(spec, v.Text, dst)

	case schema.KindPackedDate:
		d := v.Date
		packed := uint64(d.Year)*10000 + uint64(d.Month)*100 + uint64(d.Day)
		return putBEUint(spec, packed, dst)

	case schema.KindPackedTime:
		t := v.Time
		packed := uint64(t.Hour)*10000000 + uint64(t.Minute)*100000 + uint64(t.Second)*1000 + uint64(t.Milli)
		return putBEUint(spec, packed, dst)

	case schema.KindPackedTimestamp:
		j, err := jiffiesFromTime(v.TS)
		if err != nil {
			return errors.Wrap(exception.ErrFieldEncode, "timestamp before epoch").
				With("field", spec.Name)
		}
		return putBEInt(spec, j, dst)

	case schema.KindEnum:
		return encodeText(spec, v.Text, dst)

	default:
		return errors.Wrap(exception.ErrFieldEncode, "invalid codec kind").
			With("field", spec.Name)
	}
}

func beUint(window []byte) uint64 {
	var v uint64
	for _, b := range window {
		v = v<<8 | uint64(b)
	}
	return v
}

func beInt(window []byte) int64 {
	v := beUint(window)
	bits := uint(len(window)) * 8
	if bits < 64 && v&(1<<(bits-1)) != 0 {
		v |= ^uint64(0) << bits
	}
	return int64(v)
}

func putBEUint(spec schema.FieldSpec, v uint64, dst []byte) error {
	bits := uint(len(dst)) * 8
	if bits < 64 && v>>bits != 0 {
		return errors.Wrap(exception.ErrFieldEncode, "value does not fit width").
			With("field", spec.Name).With("value", v)
	}
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
	return nil
}

func putBEInt(spec schema.FieldSpec, v int64, dst []byte) error {
	bits := uint(len(dst)) * 8
	if bits < 64 {
		max := int64(1)<<(bits-1) - 1
		min := -int64(1) << (bits - 1)
		if v > max || v < min {
			return errors.Wrap(exception.ErrFieldEncode, "value does not fit width").
				With("field", spec.Name).With("value", v)
		}
	}
	u := uint64(v)
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(u)
		u >>= 8
	}
	return nil
}

func decodeText(spec schema.FieldSpec, window []byte) (Value, error) {
	trimmed := scanner.TrimRightPad(window, ' ', 0)
	for _, b := range trimmed {
		if !scanner.IsPrintableASCII(b) {
			return Value{}, errors.Wrap(exception.ErrFieldDecode, "non-printable byte in text field").
				With("field", spec.Name).With("raw", window)
		}
	}
	return Value{Kind: ValueText, Text: string(trimmed)}, nil
}

func encodeText(spec schema.FieldSpec, s string, dst []byte) error {
	if len(s) > len(dst) {
		return errors.Wrap(exception.ErrFieldEncode, "text does not fit width").
			With("field", spec.Name).With("text", s)
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = ' '
	}
	return nil
}

func decodePackedDate(spec schema.FieldSpec, window []byte) (Value, error) {
	v := beUint(window)
	year := int(v / 10000)
	month := int(v/100) % 100
	day := int(v % 100)
	if !validDate(year, month, day) {
		return Value{}, errors.Wrap(exception.ErrFieldDecode, "invalid calendar date").
			With("field", spec.Name).With("packed", v)
	}
	return Value{Kind: ValueDate, Date: Date{Year: year, Month: month, Day: day}}, nil
}

func validDate(year, month, day int) bool {
	if year < 1900 || year > 2199 || month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func decodePackedTime(spec schema.FieldSpec, window []byte) (Value, error) {
	v := beUint(window)
	hour := int(v / 10000000)
	minute := int(v/100000) % 100
	second := int(v/1000) % 100
	milli := int(v % 1000)
	if hour > 23 || minute > 59 || second > 59 {
		return Value{}, errors.Wrap(exception.ErrFieldDecode, "invalid time of day").
			With("field", spec.Name).With("packed", v)
	}
	return Value{Kind: ValueTimeOfDay, Time: TimeOfDay{Hour: hour, Minute: minute, Second: second, Milli: milli}}, nil
}

func decodeJiffyTimestamp(spec schema.FieldSpec, window []byte) (Value, error) {
	j := beInt(window)
	if j < 0 {
		return Value{}, errors.Wrap(exception.ErrFieldDecode, "negative jiffy timestamp").
			With("field", spec.Name).With("jiffies", j)
	}
	secs := j / jiffiesPerSecond
	frac := j % jiffiesPerSecond
	nanos := frac * 1_000_000_000 / jiffiesPerSecond
	ts := jiffyEpoch.Add(time.Duration(secs)*time.Second + time.Duration(nanos))
	return Value{Kind: ValueTimestamp, TS: ts, Int: j}, nil
}

// jiffiesFromTime converts a timestamp back to jiffies. The fractional part
// uses ceiling division so it is the exact inverse of the truncating decode.
func jiffiesFromTime(ts time.Time) (int64, error) {
	d := ts.Sub(jiffyEpoch)
	if d < 0 {
		return 0, errors.New("timestamp before jiffy epoch")
	}
	secs := int64(d / time.Second)
	nanos := int64(d % time.Second)
	frac := (nanos*jiffiesPerSecond + 999_999_999) / 1_000_000_000
	if frac >= jiffiesPerSecond {
		secs++
		frac -= jiffiesPerSecond
	}
	return secs*jiffiesPerSecond + frac, nil
}

func decodeEnum(spec schema.FieldSpec, window []byte) (Value, error) {
	code := string(scanner.TrimRightPad(window, ' ', 0))
	symbol, ok := spec.Enum.Lookup(code)
	if !ok {
		return Value{Kind: ValueRawCode, Text: code},
			errors.Wrap(exception.ErrUnknownEnumValue, spec.Enum.Name()).
				With("field", spec.Name).With("code", code)
	}
	return Value{Kind: ValueEnum, Text: symbol}, nil
}
