// Package stage provides the concrete pipeline stages shipped with mdpipe.
//
// Stages fall into a few groups:
//
//   - Annotation: SequenceMarkerStage, AddMetadataStage, PopulateIDStage
//     attach metadata to items without touching the collection shape.
//   - Collection: StaticSourceStage, FilterStage, OrderStage add, drop or
//     reorder items.
//   - Control: LogStatusStage reports accumulated status metadata,
//     TerminateStage aborts a run, CompositeStage groups sub-stages.
//   - Output: SerializeStage writes item payloads to disk.
//
// All stages are stateless between executions; any per-run state (such as
// the sequence annotator's counter) is local to a single Execute call.
package stage
