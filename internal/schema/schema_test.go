package schema

import "testing"

func validSchema() *RecordSchema {
	return &RecordSchema{
		Type:   RecordType(5000),
		Name:   "sample",
		Length: 16,
		Fields: []FieldSpec{
			{Name: "record_type", Offset: 0, Length: 2, Kind: KindFixedInt, Unsigned: true},
			{Name: "qty", Offset: 2, Length: 8, Kind: KindFixedInt},
			{Name: "tag", Offset: 10, Length: 6, Kind: KindFixedText},
		},
	}
}

func TestRecordSchemaValidate(t *testing.T) {
	testCases := []struct {
		desc    string
		mutate  func(*RecordSchema)
		wantErr bool
	}{
		{"valid", func(*RecordSchema) {}, false},
		{"empty name", func(s *RecordSchema) { s.Name = "" }, true},
		{"zero type", func(s *RecordSchema) { s.Type = TypeUnknown }, true},
		{"no fields", func(s *RecordSchema) { s.Fields = nil }, true},
		{"window past end", func(s *RecordSchema) { s.Fields[2].Length = 7 }, true},
		{"overlap", func(s *RecordSchema) { s.Fields[1].Offset = 1 }, true},
		{"zero length field", func(s *RecordSchema) { s.Fields[1].Length = 0 }, true},
		{"int too wide", func(s *RecordSchema) {
			s.Fields[2] = FieldSpec{Name: "wide", Offset: 10, Length: 6, Kind: KindFixedInt}
			s.Fields[1].Length = 4
			s.Length = 32
			s.Fields[2].Length = 9
			s.Fields[2].Offset = 6
		}, true},
		{"enum without table", func(s *RecordSchema) { s.Fields[2].Kind = KindEnum }, true},
		{"packed date wrong width", func(s *RecordSchema) {
			s.Fields[2] = FieldSpec{Name: "d", Offset: 10, Length: 6, Kind: KindPackedDate}
		}, true},
		{"timestamp wrong width", func(s *RecordSchema) {
			s.Fields[1] = FieldSpec{Name: "ts", Offset: 2, Length: 8, Kind: KindPackedTimestamp}
			s.Fields[1].Length = 4
		}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s := validSchema()
			tc.mutate(s)
			err := s.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry("test")
	if err := reg.Add(validSchema()); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := reg.Add(validSchema()); err == nil {
		t.Fatalf("expected duplicate type error")
	}

	if err := reg.AddEnum(NewEnumTable("side", map[string]string{"B": "B"})); err != nil {
		t.Fatalf("add enum failed: %v", err)
	}
	if err := reg.AddEnum(NewEnumTable("side", nil)); err == nil {
		t.Fatalf("expected duplicate enum error")
	}
}

func TestBuiltinRegistry(t *testing.T) {
	reg := Builtin()
	if reg.Version() != BuiltinVersion {
		t.Fatalf("version mismatch! should be %s but got %s", BuiltinVersion, reg.Version())
	}

	testCases := []struct {
		t      RecordType
		name   string
		length int
	}{
		{TypeOrderNew, "order_new", 91},
		{TypeOrderModify, "order_modify", 91},
		{TypeOrderCancel, "order_cancel", 91},
		{TypeTrade, "trade", 88},
		{TypeMarketStats, "market_stats", 98},
	}
	for _, tc := range testCases {
		sch, ok := reg.SchemaFor(tc.t)
		if !ok {
			t.Fatalf("missing schema for type %d", tc.t)
		}
		if sch.Name != tc.name || sch.Length != tc.length {
			t.Fatalf("schema mismatch for %d: got %s/%d", tc.t, sch.Name, sch.Length)
		}
		if err := sch.Validate(); err != nil {
			t.Fatalf("builtin schema %s invalid: %v", sch.Name, err)
		}
	}

	if _, ok := reg.SchemaFor(RecordType(9999)); ok {
		t.Fatalf("unexpected schema for unregistered type")
	}
	if _, ok := reg.EnumByName("instrument"); !ok {
		t.Fatalf("missing instrument enum table")
	}
}
