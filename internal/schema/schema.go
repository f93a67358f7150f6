package schema

import (
	"sort"

	"github.com/yanun0323/errors"
)

// CodecKind selects the field codec. The set is closed; the record decoder
// switches exhaustively over it.
type CodecKind uint8

const (
	KindInvalid CodecKind = iota
	KindFixedInt
	KindFixedPoint
	KindFixedText
	KindPackedDate
	KindPackedTime
	KindPackedTimestamp
	KindEnum
)

func (k CodecKind) String() string {
	switch k {
	case KindFixedInt:
		return "fixed_int"
	case KindFixedPoint:
		return "fixed_point"
	case KindFixedText:
		return "fixed_text"
	case KindPackedDate:
		return "packed_date"
	case KindPackedTime:
		return "packed_time"
	case KindPackedTimestamp:
		return "packed_timestamp"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// RecordType is the discriminator stored at offset 0 of every record body.
type RecordType uint16

const (
	TypeUnknown     RecordType = 0
	TypeOrderNew    RecordType = 2000
	TypeOrderModify RecordType = 2001
	TypeOrderCancel RecordType = 2002
	TypeTrade       RecordType = 3000
	TypeMarketStats RecordType = 4000
)

// DiscriminatorSize is the width of the record type field. Every registered
// layout starts with it, regardless of type.
const DiscriminatorSize = 2

// FieldSpec describes one fixed byte window inside a record.
type FieldSpec struct {
	Name     string
	Offset   int
	Length   int
	Kind     CodecKind
	Scale    int        // KindFixedPoint only
	Unsigned bool       // KindFixedInt only
	Enum     *EnumTable // KindEnum only
}

// RecordSchema is the immutable layout of one record type.
type RecordSchema struct {
	Type   RecordType
	Name   string
	Length int
	Fields []FieldSpec
}

// Validate checks the structural invariants: positive total length, every
// field window inside the record, no overlapping windows, codec parameters
// present where the kind requires them.
func (s *RecordSchema) Validate() error {
	if s.Name == "" {
		return errors.New("schema name is empty")
	}
	if s.Type == TypeUnknown {
		return errors.Errorf("schema %s: record type is zero", s.Name)
	}
	if s.Length < DiscriminatorSize {
		return errors.Errorf("schema %s: total length %d below discriminator size", s.Name, s.Length)
	}
	if len(s.Fields) == 0 {
		return errors.Errorf("schema %s: no fields", s.Name)
	}

	sorted := make([]FieldSpec, len(s.Fields))
	copy(sorted, s.Fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	prevEnd := 0
	prevName := ""
	for _, f := range sorted {
		if f.Name == "" {
			return errors.Errorf("schema %s: unnamed field at offset %d", s.Name, f.Offset)
		}
		if f.Length <= 0 {
			return errors.Errorf("schema %s: field %s has length %d", s.Name, f.Name, f.Length)
		}
		if f.Offset < 0 || f.Offset+f.Length > s.Length {
			return errors.Errorf("schema %s: field %s window [%d,%d) outside record length %d",
				s.Name, f.Name, f.Offset, f.Offset+f.Length, s.Length)
		}
		if f.Offset < prevEnd {
			return errors.Errorf("schema %s: field %s overlaps %s", s.Name, f.Name, prevName)
		}
		switch f.Kind {
		case KindFixedInt:
			if f.Length > 8 {
				return errors.Errorf("schema %s: field %s integer width %d exceeds 8", s.Name, f.Name, f.Length)
			}
		case KindFixedPoint:
			if f.Scale < 0 {
				return errors.Errorf("schema %s: field %s has negative scale", s.Name, f.Name)
			}
			if f.Length > 8 {
				return errors.Errorf("schema %s: field %s fixed-point width %d exceeds 8", s.Name, f.Name, f.Length)
			}
		case KindEnum:
			if f.Enum == nil {
				return errors.Errorf("schema %s: field %s has no enum table", s.Name, f.Name)
			}
		case KindFixedText:
		case KindPackedDate, KindPackedTime:
			if f.Length != 4 {
				return errors.Errorf("schema %s: field %s packed date/time width must be 4", s.Name, f.Name)
			}
		case KindPackedTimestamp:
			if f.Length != 8 {
				return errors.Errorf("schema %s: field %s packed timestamp width must be 8", s.Name, f.Name)
			}
		default:
			return errors.Errorf("schema %s: field %s has invalid codec kind", s.Name, f.Name)
		}
		prevEnd = f.Offset + f.Length
		prevName = f.Name
	}
	return nil
}

// FieldNames returns the field names in declared order. This is the CSV
// header contract for the record type.
func (s *RecordSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
