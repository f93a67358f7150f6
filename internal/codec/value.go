package codec

import (
	"strconv"
	"time"
)

// ValueKind tags the decoded value union.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueUint
	ValueDecimal
	ValueText
	ValueDate
	ValueTimeOfDay
	ValueTimestamp
	ValueEnum    // Text holds the mapped symbol
	ValueRawCode // Text holds an unmapped enum code, kept verbatim
	ValueError   // decode failed; rendered as ErrorMarker to keep row shape
)

// ErrorMarker is the cell content for a field whose codec failed. The row
// keeps its full shape so every record of a type has identical columns.
const ErrorMarker = "!ERROR"

// TimestampLayout matches the original reformatted output: UTC date and time
// of day with microseconds.
const TimestampLayout = "01/02/2006 15:04:05.000000"

// DateLayout renders calendar dates the way the original output does.
const DateLayout = "01/02/2006"

// Date is a calendar date without time zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

// TimeOfDay is a millisecond-resolution wall clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	Milli  int
}

// Value is the decoded form of one field window.
type Value struct {
	Kind ValueKind
	Int  int64
	Uint uint64
	Dec  Decimal
	Text string
	Date Date
	Time TimeOfDay
	TS   time.Time
}

// AppendString renders the value exactly, without floating point.
func (v Value) AppendString(buf []byte) []byte {
	switch v.Kind {
	case ValueInt:
		return strconv.AppendInt(buf, v.Int, 10)
	case ValueUint:
		return strconv.AppendUint(buf, v.Uint, 10)
	case ValueDecimal:
		return v.Dec.AppendString(buf)
	case ValueText, ValueEnum, ValueRawCode:
		return append(buf, v.Text...)
	case ValueDate:
		buf = appendZeroPadded(buf, v.Date.Month, 2)
		buf = append(buf, '/')
		buf = appendZeroPadded(buf, v.Date.Day, 2)
		buf = append(buf, '/')
		return appendZeroPadded(buf, v.Date.Year, 4)
	case ValueTimeOfDay:
		buf = appendZeroPadded(buf, v.Time.Hour, 2)
		buf = append(buf, ':')
		buf = appendZeroPadded(buf, v.Time.Minute, 2)
		buf = append(buf, ':')
		buf = appendZeroPadded(buf, v.Time.Second, 2)
		buf = append(buf, '.')
		return appendZeroPadded(buf, v.Time.Milli, 3)
	case ValueTimestamp:
		return v.TS.AppendFormat(buf, TimestampLayout)
	case ValueError:
		return append(buf, ErrorMarker...)
	default:
		return buf
	}
}

// String renders the value for CSV cells and logs.
func (v Value) String() string {
	return string(v.AppendString(nil))
}

func appendZeroPadded(buf []byte, v, width int) []byte {
	if v < 0 {
		v = 0
	}
	var tmp [8]byte
	digits := strconv.AppendInt(tmp[:0], int64(v), 10)
	for i := len(digits); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, digits...)
}

// ErrorValue is the marker stored for a failed field decode.
func ErrorValue() Value {
	return Value{Kind: ValueError}
}
