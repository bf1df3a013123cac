// Package build turns a compiled workflow closure into a [dag.Node] tree.
//
// [Build] walks the primary workflow's template and connection set. Task
// nodes are merged with their task templates, sub-workflow nodes are
// expanded inline from the closure's sub-workflows, and branch nodes become
// containers with one child per arm framed by synthetic nested start and end
// nodes:
//
//	root, err := build.Build(closure, build.WithLogger(logger))
//
// Node ids are deterministic: <template name>_<template version>_<node id>,
// see [CreateID]. A closure that is structurally broken (no primary, no
// template, no start node, no connections, a dangling or cyclic connection)
// fails with a coded error from pkg/errors; no partial tree is returned.
// References that cannot be resolved (a missing sub-workflow or task
// template) are logged and degrade gracefully.
package build
