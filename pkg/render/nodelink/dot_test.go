package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

func branchTree() *dag.Node {
	br := &dag.Node{
		ID:   "wf_v1_n0",
		Name: "fork",
		Kind: dag.KindBranch,
		Nodes: []*dag.Node{
			{ID: "wf_v1_a", Name: "a", Kind: dag.KindTask, Value: dag.Value{
				Task: &workflow.CompiledTask{Template: workflow.TaskTemplate{Type: "python-task"}},
			}},
			{ID: "wf_v1_n0-start-node", Name: "start", Kind: dag.KindNestedStart},
			{ID: "wf_v1_n0-end-node", Name: "end", Kind: dag.KindNestedEnd},
		},
		Edges: []dag.Edge{
			{SourceID: "wf_v1_n0-start-node", TargetID: "wf_v1_a"},
			{SourceID: "wf_v1_a", TargetID: "wf_v1_n0-end-node"},
		},
	}
	return &dag.Node{
		ID:   "wf_v1_start-node",
		Kind: dag.KindPrimary,
		Nodes: []*dag.Node{
			{ID: "wf_v1_start-node", Name: "start", Kind: dag.KindStart},
			br,
			{ID: "wf_v1_end-node", Name: "end", Kind: dag.KindEnd},
		},
		Edges: []dag.Edge{
			{SourceID: "wf_v1_start-node", TargetID: "wf_v1_n0"},
			{SourceID: "wf_v1_n0", TargetID: "wf_v1_end-node"},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(branchTree(), Options{MaxDepth: 1})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("ToDOT() default direction is not LR")
	}
	if !strings.Contains(dot, `"wf_v1_start-node" [`) {
		t.Error("ToDOT() output missing start node")
	}
	if !strings.Contains(dot, `"wf_v1_start-node" [label="start"`) {
		t.Error("ToDOT() start node not labeled with its display name")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	dot := ToDOT(branchTree(), Options{MaxDepth: 1})

	if !strings.Contains(dot, `subgraph "cluster_wf_v1_n0"`) {
		t.Fatal("ToDOT() expanded branch is not a cluster")
	}
	if !strings.Contains(dot, `"wf_v1_start-node" -> "wf_v1_n0-start-node" [lhead="cluster_wf_v1_n0"]`) {
		t.Errorf("ToDOT() edge into cluster not anchored at nested start:\n%s", dot)
	}
	if !strings.Contains(dot, `"wf_v1_n0-end-node" -> "wf_v1_end-node" [ltail="cluster_wf_v1_n0"]`) {
		t.Errorf("ToDOT() edge out of cluster not anchored at nested end:\n%s", dot)
	}
	if !strings.Contains(dot, `"wf_v1_n0-start-node" -> "wf_v1_a";`) {
		t.Error("ToDOT() missing edge inside cluster")
	}
	if !strings.Contains(dot, "shape=point") {
		t.Error("ToDOT() nested points not drawn as points")
	}
}

func TestToDOT_CollapsedContainer(t *testing.T) {
	dot := ToDOT(branchTree(), Options{MaxDepth: 0})

	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() drew a cluster past MaxDepth")
	}
	if strings.Contains(dot, "wf_v1_a") {
		t.Error("ToDOT() drew children of a collapsed container")
	}
	if !strings.Contains(dot, `"wf_v1_start-node" -> "wf_v1_n0";`) {
		t.Error("ToDOT() edge to collapsed container missing")
	}
	if !strings.Contains(dot, `fillcolor="`+DefaultAccent+`"`) {
		t.Error("ToDOT() collapsed container not filled with accent")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(branchTree(), Options{MaxDepth: 1, Detailed: true, Direction: "TB"})

	if !strings.Contains(dot, "rankdir=TB") {
		t.Error("ToDOT() ignored direction")
	}
	if !strings.Contains(dot, `kind: task\ntask: python-task`) {
		t.Errorf("ToDOT() detailed output missing task info:\n%s", dot)
	}
	if !strings.Contains(dot, `id: wf_v1_a`) {
		t.Error("ToDOT() detailed output missing id")
	}
}

func TestToDOT_Nil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	n := &dag.Node{ID: "wf_v1_n0", Name: "say_hello", Kind: dag.KindTask}
	if got := fmtLabel(n, n.Kind, false); got != "say_hello" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "say_hello")
	}
}

func TestAnchorFallback(t *testing.T) {
	c := &dag.Node{ID: "c", Nodes: []*dag.Node{{ID: "first"}, {ID: "last"}}}
	if got := anchor(c, dag.KindNestedStart); got != "first" {
		t.Errorf("anchor(start) = %q", got)
	}
	if got := anchor(c, dag.KindNestedEnd); got != "last" {
		t.Errorf("anchor(end) = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %q", out)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); string(got) != string(noBox) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(branchTree(), Options{MaxDepth: 1}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `viewBox="0 0 `) {
		t.Errorf("RenderSVG() did not normalize viewBox")
	}
}
