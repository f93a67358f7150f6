package schema

import "github.com/yanun0323/errors"

// Registry is the single source of truth for record layouts. It is built
// once at start-up and only read afterwards, so concurrent per-file decoding
// needs no synchronization.
type Registry struct {
	version string
	schemas map[RecordType]*RecordSchema
	order   []RecordType
	enums   map[string]*EnumTable
}

// NewRegistry creates an empty registry tagged with a layout set version.
func NewRegistry(version string) *Registry {
	return &Registry{
		version: version,
		schemas: make(map[RecordType]*RecordSchema),
		enums:   make(map[string]*EnumTable),
	}
}

// Version identifies the layout data set in summaries and logs.
func (r *Registry) Version() string {
	return r.version
}

// SetVersion overrides the version tag. Used when a config overlay replaces
// parts of the built-in set.
func (r *Registry) SetVersion(version string) {
	r.version = version
}

// Add registers a record schema after validating it.
func (r *Registry) Add(s *RecordSchema) error {
	if s == nil {
		return errors.New("schema is nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := r.schemas[s.Type]; ok {
		return errors.Errorf("schema already registered for type %d", s.Type)
	}
	r.schemas[s.Type] = s
	r.order = append(r.order, s.Type)
	return nil
}

// AddEnum registers an enum table by name so config overlays can extend it.
func (r *Registry) AddEnum(t *EnumTable) error {
	if t == nil {
		return errors.New("enum table is nil")
	}
	if _, ok := r.enums[t.Name()]; ok {
		return errors.Errorf("enum table already registered: %s", t.Name())
	}
	r.enums[t.Name()] = t
	return nil
}

// SchemaFor resolves a discriminator to its layout.
func (r *Registry) SchemaFor(t RecordType) (*RecordSchema, bool) {
	s, ok := r.schemas[t]
	return s, ok
}

// EnumByName returns a registered enum table.
func (r *Registry) EnumByName(name string) (*EnumTable, bool) {
	t, ok := r.enums[name]
	return t, ok
}

// Types returns the registered record types in registration order.
func (r *Registry) Types() []RecordType {
	out := make([]RecordType, len(r.order))
	copy(out, r.order)
	return out
}
