// Package workflow defines the compiled workflow closure model consumed by
// flowgraph.
//
// A [CompiledWorkflowClosure] is the payload a workflow orchestration platform
// returns for one workflow version: the primary workflow, every sub-workflow
// it references and every task template it uses. The types mirror the
// platform's JSON encoding (camelCase field names) so closures fetched from
// the admin API can be decoded directly.
//
// # Entities
//
// Both [CompiledNode] and [CompiledWorkflow] implement [Entity], the sealed
// union stored on DAG nodes. Callers type-switch on it:
//
//	switch e := entity.(type) {
//	case *workflow.CompiledNode:
//	    // a node inside a workflow template
//	case *workflow.CompiledWorkflow:
//	    // the primary workflow itself
//	}
//
// # Decoding
//
// [ReadClosureFile] decodes .json, .yaml and .yml files. [ReadClosure]
// decodes from a reader in an explicit [Format]. Both validate the document
// against the embedded closure schema before decoding and report violations
// as SCHEMA_VIOLATION errors.
package workflow
