// Package record holds the raw and decoded record types and the
// schema-driven record decoder.
package record

import (
	"main/internal/codec"
	"main/internal/schema"
)

// RawRecord is one framed record body plus where it came from. The byte
// slice is only valid until the splitter's next call; Decode consumes it
// immediately and never retains it.
type RawRecord struct {
	Type   schema.RecordType
	Offset int64 // byte offset of the body within the source file
	Bytes  []byte
}

// Field is one decoded column.
type Field struct {
	Name  string
	Value codec.Value
}

// Row is a fully decoded record. Fields always match the schema's declared
// order and count; failed fields carry an explicit error marker value so the
// shape never varies within a record type.
type Row struct {
	Type        schema.RecordType
	Fields      []Field
	FieldErrors int // fields holding the error marker
	Warnings    int // unknown enum codes kept as raw values
}

// Field returns the value of a named column.
func (r Row) Field(name string) (codec.Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return codec.Value{}, false
}
