// Package graph provides the JSON wire formats of flowgraph.
//
// This package defines the serialization used for CLI output files, HTTP
// API responses and cached artifacts.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory
// types and external formats:
//
//   - [Tree], [Node], [Edge]: the hierarchical workflow graph (pkg/dag)
//   - element lists: the widget graph (pkg/render/flow), encoded as-is
//   - [Layout]: a laid-out element list with its direction and extent
//
// Use [FromDAG]/[ToDAG] to convert trees; [MarshalTree], [WriteTreeFile],
// [ReadTreeFile] and the Elements and Layout variants read and write them.
//
// # Round Trips
//
// Trees keep ids, names, kinds, edges and the merged task template's id and
// type. The full compiled entity is not serialized; a tree read back from
// JSON carries a [workflow.CompiledTask] with only those fields set.
//
// [workflow.CompiledTask]: github.com/matzehuels/flowgraph/pkg/workflow.CompiledTask
package graph
