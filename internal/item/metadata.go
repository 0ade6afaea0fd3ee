package item

// Metadata is a per-item container of typed metadata values. Values are
// stored in insertion order and retrieved by their Go type via the generic
// helpers Of, First and Has.
//
// The container only ever grows during normal processing; RemoveAll exists
// for filter stages that deliberately strip a metadata type before an item
// leaves the pipeline.
//
// The zero value is not usable; construct with NewMetadata.
type Metadata struct {
	entries []any
}

// NewMetadata returns an empty metadata container.
func NewMetadata() *Metadata {
	return &Metadata{}
}

// Add appends a metadata value to the container. The value becomes owned
// by the container; callers must not mutate it afterwards. Adding nil is
// a programming error and panics immediately rather than corrupting later
// type-based lookups.
func (m *Metadata) Add(v any) {
	if v == nil {
		panic("item: nil metadata value")
	}
	m.entries = append(m.entries, v)
}

// AddAll appends every value in vs, in order.
func (m *Metadata) AddAll(vs ...any) {
	for _, v := range vs {
		m.Add(v)
	}
}

// Len returns the total number of metadata values in the container.
func (m *Metadata) Len() int {
	return len(m.entries)
}

// All returns the metadata values in insertion order. The returned slice
// is a copy; mutating it does not affect the container.
func (m *Metadata) All() []any {
	out := make([]any, len(m.entries))
	copy(out, m.entries)
	return out
}

// Copy returns an independent container holding the same values. The
// values themselves are shared, which is safe because metadata values are
// treated as immutable once added.
func (m *Metadata) Copy() *Metadata {
	c := &Metadata{entries: make([]any, len(m.entries))}
	copy(c.entries, m.entries)
	return c
}

// Of returns all metadata values of type M, in insertion order.
func Of[M any](m *Metadata) []M {
	var out []M
	for _, e := range m.entries {
		if v, ok := e.(M); ok {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first metadata value of type M, if any.
func First[M any](m *Metadata) (M, bool) {
	for _, e := range m.entries {
		if v, ok := e.(M); ok {
			return v, true
		}
	}
	var zero M
	return zero, false
}

// Has reports whether the container holds at least one value of type M.
func Has[M any](m *Metadata) bool {
	_, ok := First[M](m)
	return ok
}

// RemoveAll deletes every metadata value of type M, preserving the order
// of the remaining values.
func RemoveAll[M any](m *Metadata) {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if _, ok := e.(M); !ok {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}
