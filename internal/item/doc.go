// Package item defines the unit of data flowing through a pipeline and the
// metadata container attached to it.
//
// An Item wraps an opaque payload of any type together with a Metadata
// container. Stages never interpret the payload beyond the type parameter;
// everything a stage learns or decides about an item is recorded as typed
// metadata values (identifiers, markers, status messages, processing
// history). Metadata is append-only from the perspective of normal
// processing: stages add values, and selective removal is an explicit,
// type-keyed operation.
//
// Metadata values are retrieved by their Go type using the generic helpers
// Of, First and Has, mirroring how a class-keyed multimap would be used in
// other ecosystems.
package item
