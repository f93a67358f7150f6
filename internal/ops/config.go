// Package ops loads the JSON runtime configuration: registry overlays,
// output options, filters, and the synthetic generator profile.
package ops

import (
	"encoding/json"
	"os"
	"time"

	"github.com/yanun0323/decimal"
	"github.com/yanun0323/errors"

	"main/internal/codec"
	"main/internal/mdg"
	"main/internal/schema"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Registry    RegistryConfig  `json:"registry"`
	Output      OutputConfig    `json:"output"`
	Instruments []string        `json:"instruments"`
	Workers     int             `json:"workers"`
	MaxRecord   int             `json:"maxRecordLength"`
	Progress    int             `json:"progressEvery"`
	Store       StoreConfig     `json:"store"`
	Generator   GeneratorConfig `json:"generator"`
}

// RegistryConfig overlays the built-in layout set. Enums extend existing
// tables or introduce new ones; records may only introduce new types, the
// built-in layouts are fixed by the format document.
type RegistryConfig struct {
	Version string         `json:"version"`
	Enums   []EnumConfig   `json:"enums"`
	Records []RecordConfig `json:"records"`
}

// EnumConfig is one enum table overlay entry.
type EnumConfig struct {
	Name    string            `json:"name"`
	Symbols map[string]string `json:"symbols"`
}

// RecordConfig describes one record layout.
type RecordConfig struct {
	Type   uint16        `json:"type"`
	Name   string        `json:"name"`
	Length int           `json:"length"`
	Fields []FieldConfig `json:"fields"`
}

// FieldConfig describes one field window. Kind uses the codec kind names:
// fixed_int, fixed_point, fixed_text, packed_date, packed_time,
// packed_timestamp, enum.
type FieldConfig struct {
	Name     string `json:"name"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Kind     string `json:"kind"`
	Scale    int    `json:"scale"`
	Unsigned bool   `json:"unsigned"`
	Enum     string `json:"enum"`
}

// OutputConfig controls the CSV sink.
type OutputConfig struct {
	Dir       string `json:"dir"`
	PerSymbol bool   `json:"perSymbol"`
	Summary   *bool  `json:"summary"`
}

// StoreConfig enables the summary store when a connection string is set.
type StoreConfig struct {
	ConnString string `json:"connString"`
}

// GeneratorConfig is the synthetic dump profile. Prices are decimal literals
// in the JSON and converted to scaled integers on load.
type GeneratorConfig struct {
	Symbols   []string        `json:"symbols"`
	Records   int             `json:"records"`
	Seed      int64           `json:"seed"`
	BasePrice decimal.Decimal `json:"basePrice"`
	TickSize  decimal.Decimal `json:"tickSize"`
	BaseQty   int64           `json:"baseQty"`
	StartDate string          `json:"startDate"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Registry    *schema.Registry
	OutputDir   string
	PerSymbol   bool
	Summary     bool
	Instruments map[string]bool
	Workers     int
	MaxRecord   int
	Progress    int
	Store       StoreConfig
	Generator   mdg.Config
}

// Default is the configuration used when no config file is given.
func Default() Loaded {
	return Loaded{
		Registry: schema.Builtin(),
		Summary:  true,
		Workers:  1,
	}
}

// Load reads a JSON config file and resolves it over the built-in defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config")
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "parse config")
	}

	registry, err := buildRegistry(cfg.Registry)
	if err != nil {
		return Loaded{}, err
	}
	gen, err := resolveGenerator(cfg.Generator)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{
		Registry:  registry,
		OutputDir: cfg.Output.Dir,
		PerSymbol: cfg.Output.PerSymbol,
		Summary:   true,
		Workers:   cfg.Workers,
		MaxRecord: cfg.MaxRecord,
		Progress:  cfg.Progress,
		Store:     cfg.Store,
		Generator: gen,
	}
	if cfg.Output.Summary != nil {
		loaded.Summary = *cfg.Output.Summary
	}
	if loaded.Workers <= 0 {
		loaded.Workers = 1
	}
	if len(cfg.Instruments) > 0 {
		loaded.Instruments = make(map[string]bool, len(cfg.Instruments))
		for _, name := range cfg.Instruments {
			loaded.Instruments[name] = true
		}
	}
	return loaded, nil
}

func buildRegistry(cfg RegistryConfig) (*schema.Registry, error) {
	reg := schema.Builtin()
	if cfg.Version != "" {
		reg.SetVersion(cfg.Version)
	}

	for _, enum := range cfg.Enums {
		if enum.Name == "" {
			return nil, errors.New("enum overlay has no name")
		}
		table, ok := reg.EnumByName(enum.Name)
		if !ok {
			table = schema.NewEnumTable(enum.Name, nil)
			if err := reg.AddEnum(table); err != nil {
				return nil, err
			}
		}
		for code, symbol := range enum.Symbols {
			if err := table.Add(code, symbol); err != nil {
				return nil, err
			}
		}
	}

	for _, rec := range cfg.Records {
		s := &schema.RecordSchema{
			Type:   schema.RecordType(rec.Type),
			Name:   rec.Name,
			Length: rec.Length,
			Fields: make([]schema.FieldSpec, 0, len(rec.Fields)),
		}
		for _, f := range rec.Fields {
			kind, err := kindByName(f.Kind)
			if err != nil {
				return nil, errors.Wrap(err, "record overlay").With("record", rec.Name).With("field", f.Name)
			}
			spec := schema.FieldSpec{
				Name:     f.Name,
				Offset:   f.Offset,
				Length:   f.Length,
				Kind:     kind,
				Scale:    f.Scale,
				Unsigned: f.Unsigned,
			}
			if kind == schema.KindEnum {
				table, ok := reg.EnumByName(f.Enum)
				if !ok {
					return nil, errors.Errorf("record %s field %s references unknown enum %q", rec.Name, f.Name, f.Enum)
				}
				spec.Enum = table
			}
			s.Fields = append(s.Fields, spec)
		}
		if err := reg.Add(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func kindByName(name string) (schema.CodecKind, error) {
	for _, k := range []schema.CodecKind{
		schema.KindFixedInt,
		schema.KindFixedPoint,
		schema.KindFixedText,
		schema.KindPackedDate,
		schema.KindPackedTime,
		schema.KindPackedTimestamp,
		schema.KindEnum,
	} {
		if k.String() == name {
			return k, nil
		}
	}
	return schema.KindInvalid, errors.Errorf("unknown codec kind %q", name)
}

func resolveGenerator(cfg GeneratorConfig) (mdg.Config, error) {
	out := mdg.Config{
		Symbols: cfg.Symbols,
		Records: cfg.Records,
		Seed:    cfg.Seed,
		BaseQty: cfg.BaseQty,
	}

	if s := cfg.BasePrice.String(); s != "" && s != "0" {
		price, err := codec.ParseDecimal(s, 2)
		if err != nil {
			return mdg.Config{}, errors.Wrap(err, "generator basePrice")
		}
		out.BasePrice = price.Integer
	}
	if s := cfg.TickSize.String(); s != "" && s != "0" {
		tick, err := codec.ParseDecimal(s, 2)
		if err != nil {
			return mdg.Config{}, errors.Wrap(err, "generator tickSize")
		}
		out.Tick = tick.Integer
	}
	if cfg.StartDate != "" {
		start, err := time.Parse("2006-01-02", cfg.StartDate)
		if err != nil {
			return mdg.Config{}, errors.Wrap(err, "generator startDate")
		}
		out.Start = start
	}
	return out, nil
}
