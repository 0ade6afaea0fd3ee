package item

// Marker is an immutable metadata value that tags an item with a short
// string label. Markers carry no semantics of their own; annotation stages
// attach them and verification code reads them back by type.
type Marker struct {
	label string
}

// NewMarker returns a marker carrying the given label.
func NewMarker(label string) Marker {
	return Marker{label: label}
}

// Label returns the marker's label.
func (m Marker) Label() string {
	return m.label
}

// ID is a metadata value carrying a unique identifier for the data held by
// an item. An item may carry more than one ID, but no two items in a given
// collection should share one.
type ID string

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// unidentified is the identifier reported for items that carry no ID
// metadata. A stable placeholder keeps log lines and error messages
// readable without inventing per-item identifiers.
const unidentified = "<unidentified>"

// Identify returns a human-readable identifier for the item: the first ID
// metadata value if present, otherwise a fixed placeholder.
func Identify[T any](it *Item[T]) string {
	if id, ok := First[ID](it.Metadata()); ok {
		return id.String()
	}
	return unidentified
}
