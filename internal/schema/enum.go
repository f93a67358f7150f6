package schema

import "github.com/yanun0323/errors"

// EnumTable maps raw field codes to symbols. Exchange formats evolve and
// unseen codes are common, so a missing code is surfaced as the raw code by
// the decoder instead of failing the record.
type EnumTable struct {
	name    string
	symbols map[string]string
}

// NewEnumTable creates a table from code/symbol pairs.
func NewEnumTable(name string, codes map[string]string) *EnumTable {
	symbols := make(map[string]string, len(codes))
	for code, symbol := range codes {
		symbols[code] = symbol
	}
	return &EnumTable{name: name, symbols: symbols}
}

// Name returns the table name used in config overlays and error reports.
func (t *EnumTable) Name() string {
	return t.name
}

// Lookup resolves a raw code to its symbol.
func (t *EnumTable) Lookup(code string) (string, bool) {
	symbol, ok := t.symbols[code]
	return symbol, ok
}

// Add registers one more code. Used by registry overlays; the built-in
// tables are never mutated after Builtin() returns.
func (t *EnumTable) Add(code, symbol string) error {
	if code == "" {
		return errors.Errorf("enum %s: empty code", t.name)
	}
	if _, ok := t.symbols[code]; ok {
		return errors.Errorf("enum %s: duplicate code %q", t.name, code)
	}
	t.symbols[code] = symbol
	return nil
}
