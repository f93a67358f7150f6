package record

import (
	stderrors "errors"

	"github.com/yanun0323/errors"

	"main/internal/codec"
	"main/internal/schema"
	"main/pkg/exception"
)

// Decode turns one raw record into a row using the schema's field specs in
// declared order.
//
// A record whose length does not match the schema is rejected wholesale with
// exception.ErrMalformedRecordLength: partially decoding a misaligned record
// would silently shift every later field. Individual codec failures do not
// reject the record; the field gets the error marker and the row keeps its
// shape. Unknown enum codes keep the raw code and only count as warnings.
func Decode(raw RawRecord, s *schema.RecordSchema) (Row, error) {
	if s == nil {
		return Row{}, errors.Wrap(exception.ErrUnknownRecordType, "decode without schema")
	}
	if len(raw.Bytes) != s.Length {
		return Row{}, errors.Wrap(exception.ErrMalformedRecordLength, "record length mismatch").
			With("schema", s.Name).
			With("want", s.Length).
			With("got", len(raw.Bytes)).
			With("offset", raw.Offset)
	}

	row := Row{
		Type:   s.Type,
		Fields: make([]Field, len(s.Fields)),
	}
	for i, spec := range s.Fields {
		window := raw.Bytes[spec.Offset : spec.Offset+spec.Length]
		v, err := codec.DecodeField(spec, window)
		switch {
		case err == nil:
		case stderrors.Is(err, exception.ErrUnknownEnumValue):
			row.Warnings++
		default:
			v = codec.ErrorValue()
			row.FieldErrors++
		}
		row.Fields[i] = Field{Name: spec.Name, Value: v}
	}
	return row, nil
}
