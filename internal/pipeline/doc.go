// Package pipeline defines the stage and pipeline abstractions that move
// item collections through ordered processing steps.
//
// A Stage receives the whole item collection and returns the (possibly
// modified) collection: stages may annotate items in place, drop items,
// reorder them, or inject new ones. A Pipeline is an identified, ordered
// list of stages executed sequentially; after a successful run every
// surviving item is stamped with a ComponentInfo metadata value recording
// the run.
//
// Errors from stages are wrapped in StageError so callers can attribute a
// failure to the stage that produced it. A stage that needs to abort the
// whole run deliberately returns a TerminationError.
package pipeline
