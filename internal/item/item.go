package item

// Item is the unit of data flowing through a pipeline. It pairs an opaque
// payload with a Metadata container that stages use to record identifiers,
// markers, and status information about the payload.
//
// The payload itself is immutable as far as this package is concerned;
// stages that transform payloads do so by constructing new items. The
// metadata container is mutable and owned by the item.
//
// An Item is not safe for concurrent mutation. Pipelines execute stages
// sequentially, so each item is touched by at most one stage at a time.
type Item[T any] struct {
	data T
	md   *Metadata
}

// New wraps data in a fresh Item with an empty metadata container.
func New[T any](data T) *Item[T] {
	return &Item[T]{
		data: data,
		md:   NewMetadata(),
	}
}

// Unwrap returns the payload carried by the item.
func (i *Item[T]) Unwrap() T {
	return i.data
}

// Metadata returns the item's metadata container. The returned container
// is the item's own; mutations are visible to every holder of the item.
func (i *Item[T]) Metadata() *Metadata {
	return i.md
}

// Copy returns a new item sharing the same payload but carrying an
// independent copy of the metadata container. Source stages use this to
// hand out fresh items from a static collection without the runs
// contaminating each other's metadata.
func (i *Item[T]) Copy() *Item[T] {
	return &Item[T]{
		data: i.data,
		md:   i.md.Copy(),
	}
}
