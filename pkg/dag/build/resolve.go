package build

import "github.com/matzehuels/flowgraph/pkg/workflow"

// MatchIdentifier reports whether two identifiers name the same versioned
// entity. The resource type is not compared: references inside compiled
// nodes often leave it unset.
func MatchIdentifier(a, b workflow.Identifier) bool {
	return a.Project == b.Project &&
		a.Domain == b.Domain &&
		a.Name == b.Name &&
		a.Version == b.Version
}

// ResolveSubWorkflow finds the sub-workflow of closure whose template id
// matches ref.
func ResolveSubWorkflow(ref workflow.Identifier, closure *workflow.CompiledWorkflowClosure) (*workflow.CompiledWorkflow, bool) {
	if closure == nil {
		return nil, false
	}
	for i := range closure.SubWorkflows {
		sw := &closure.SubWorkflows[i]
		if sw.Template != nil && MatchIdentifier(sw.Template.ID, ref) {
			return sw, true
		}
	}
	return nil, false
}

// ResolveTask finds the task whose template id matches ref.
func ResolveTask(ref workflow.Identifier, tasks []workflow.CompiledTask) (*workflow.CompiledTask, bool) {
	for i := range tasks {
		if MatchIdentifier(tasks[i].Template.ID, ref) {
			return &tasks[i], true
		}
	}
	return nil, false
}
