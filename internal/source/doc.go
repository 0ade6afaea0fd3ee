// Package source provides stages that bring items into a pipeline from
// the outside world: local files matched by a glob pattern, and documents
// fetched over HTTP.
//
// Source stages append to the collection they receive, so several sources
// can be chained at the front of a pipeline. Each produced item carries an
// ID derived from its origin (file name or URL).
package source
