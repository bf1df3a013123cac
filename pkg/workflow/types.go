package workflow

// Reserved node ids present in every workflow template.
const (
	StartNodeID = "start-node"
	EndNodeID   = "end-node"
)

// ResourceType distinguishes the kind of entity an Identifier refers to.
type ResourceType string

const (
	ResourceUnspecified ResourceType = "UNSPECIFIED"
	ResourceTask        ResourceType = "TASK"
	ResourceWorkflow    ResourceType = "WORKFLOW"
	ResourceLaunchPlan  ResourceType = "LAUNCH_PLAN"
)

// Identifier names a versioned workflow, task or launch plan.
type Identifier struct {
	ResourceType ResourceType `json:"resourceType,omitempty" yaml:"resourceType,omitempty"`
	Project      string       `json:"project,omitempty" yaml:"project,omitempty"`
	Domain       string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	Name         string       `json:"name" yaml:"name"`
	Version      string       `json:"version,omitempty" yaml:"version,omitempty"`
}

// Entity is implemented by the values a DAG node can wrap: a compiled node
// or the primary compiled workflow.
type Entity interface {
	entity()
}

// NodeMetadata carries the optional display name of a node.
type NodeMetadata struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// TaskNode references a task template.
type TaskNode struct {
	ReferenceID Identifier `json:"referenceId" yaml:"referenceId"`
}

// WorkflowNode references either a sub-workflow (expanded inline) or a
// launch plan (rendered as a leaf).
type WorkflowNode struct {
	SubWorkflowRef *Identifier `json:"subWorkflowRef,omitempty" yaml:"subWorkflowRef,omitempty"`
	LaunchPlanRef  *Identifier `json:"launchplanRef,omitempty" yaml:"launchplanRef,omitempty"`
}

// IfBlock is one conditional arm of a branch.
type IfBlock struct {
	Condition any           `json:"condition,omitempty" yaml:"condition,omitempty"`
	ThenNode  *CompiledNode `json:"thenNode,omitempty" yaml:"thenNode,omitempty"`
}

// BranchError is the failure a branch raises when no arm matches.
type BranchError struct {
	FailedNodeID string `json:"failedNodeId,omitempty" yaml:"failedNodeId,omitempty"`
	Message      string `json:"message,omitempty" yaml:"message,omitempty"`
}

// IfElseBlock lists the arms of a branch in evaluation order.
type IfElseBlock struct {
	Case     *IfBlock      `json:"case,omitempty" yaml:"case,omitempty"`
	Other    []IfBlock     `json:"other,omitempty" yaml:"other,omitempty"`
	ElseNode *CompiledNode `json:"elseNode,omitempty" yaml:"elseNode,omitempty"`
	Error    *BranchError  `json:"error,omitempty" yaml:"error,omitempty"`
}

// BranchNode is a conditional node. Conditions are carried but never
// evaluated.
type BranchNode struct {
	IfElse IfElseBlock `json:"ifElse" yaml:"ifElse"`
}

// CompiledNode is a single node of a workflow template. At most one of
// TaskNode, WorkflowNode and BranchNode is set; the reserved start and end
// nodes set none.
type CompiledNode struct {
	ID              string        `json:"id" yaml:"id"`
	Metadata        *NodeMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	TaskNode        *TaskNode     `json:"taskNode,omitempty" yaml:"taskNode,omitempty"`
	WorkflowNode    *WorkflowNode `json:"workflowNode,omitempty" yaml:"workflowNode,omitempty"`
	BranchNode      *BranchNode   `json:"branchNode,omitempty" yaml:"branchNode,omitempty"`
	Inputs          []any         `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	UpstreamNodeIDs []string      `json:"upstreamNodeIds,omitempty" yaml:"upstreamNodeIds,omitempty"`
}

func (*CompiledNode) entity() {}

// WorkflowTemplate is the node list of one workflow.
type WorkflowTemplate struct {
	ID    Identifier     `json:"id" yaml:"id"`
	Nodes []CompiledNode `json:"nodes" yaml:"nodes"`
}

// Node returns the node with the given id, or nil.
func (t *WorkflowTemplate) Node(id string) *CompiledNode {
	for i := range t.Nodes {
		if t.Nodes[i].ID == id {
			return &t.Nodes[i]
		}
	}
	return nil
}

// ConnectionSetIDs is the adjacency list of one node.
type ConnectionSetIDs struct {
	IDs []string `json:"ids" yaml:"ids"`
}

// ConnectionSet holds the downstream and upstream adjacency of a workflow.
type ConnectionSet struct {
	Downstream map[string]ConnectionSetIDs `json:"downstream" yaml:"downstream"`
	Upstream   map[string]ConnectionSetIDs `json:"upstream,omitempty" yaml:"upstream,omitempty"`
}

// CompiledWorkflow is a workflow template plus its connections.
type CompiledWorkflow struct {
	Template    *WorkflowTemplate `json:"template" yaml:"template"`
	Connections *ConnectionSet    `json:"connections" yaml:"connections"`
}

func (*CompiledWorkflow) entity() {}

// TaskTemplate describes a task; Type drives task-type specific styling.
type TaskTemplate struct {
	ID       Identifier     `json:"id" yaml:"id"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// CompiledTask wraps a task template.
type CompiledTask struct {
	Template TaskTemplate `json:"template" yaml:"template"`
}

// CompiledWorkflowClosure is the full compiled form of a workflow version.
type CompiledWorkflowClosure struct {
	Primary      *CompiledWorkflow  `json:"primary" yaml:"primary"`
	SubWorkflows []CompiledWorkflow `json:"subWorkflows,omitempty" yaml:"subWorkflows,omitempty"`
	Tasks        []CompiledTask     `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}
