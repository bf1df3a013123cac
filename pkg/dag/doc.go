// Package dag provides the hierarchical workflow graph built from a compiled
// workflow closure.
//
// # Overview
//
// A workflow graph is a tree of containers. Each [Node] is either a leaf
// (task, start, end, launch plan) or a container (the primary workflow, a
// branch, an expanded sub-workflow) holding its own child nodes and the
// edges between them. Edges never cross a container boundary: an [Edge]
// stored on a container only references ids of that container's children.
//
//	root (primary)
//	├── start
//	├── n0 (branch)
//	│   ├── n0-n0 (task)
//	│   ├── n0-n1 (task)
//	│   ├── nestedStart
//	│   └── nestedEnd
//	└── end
//
// Trees are produced by the build subpackage and consumed by the flow and
// nodelink renderers.
//
// # Node Kinds
//
// [NodeKind] tags every node:
//
//   - [KindStart], [KindEnd]: the reserved endpoints of a workflow
//   - [KindTask]: a task invocation
//   - [KindBranch]: a conditional with one child per arm
//   - [KindSubWorkflow]: an inline sub-workflow or a launch plan
//   - [KindPrimary]: the root
//   - [KindNestedStart], [KindNestedEnd]: synthetic endpoints inside
//     branches and sub-workflows
//   - [KindNestedMaxDepth]: a collapsed container, only emitted by renderers
//
// # Validation
//
// [Validate] checks the structural invariants recursively: unique ids per
// container, edges that reference existing siblings, and childless leaves.
//
// # Concurrency
//
// Trees are plain values. They are safe for concurrent reads; callers that
// mutate a tree must synchronize externally.
package dag
