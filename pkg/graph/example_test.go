package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

func ExampleWriteTree() {
	root := &dag.Node{
		ID:   "wf_v1_start-node",
		Name: "wf",
		Kind: dag.KindPrimary,
		Nodes: []*dag.Node{
			{ID: "wf_v1_start-node", Name: "start", Kind: dag.KindStart},
			{ID: "wf_v1_end-node", Name: "end", Kind: dag.KindEnd},
		},
		Edges: []dag.Edge{{SourceID: "wf_v1_start-node", TargetID: "wf_v1_end-node"}},
	}

	var buf bytes.Buffer
	if err := graph.WriteTree(root, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "root": {
	//     "id": "wf_v1_start-node",
	//     "name": "wf",
	//     "kind": "primary",
	//     "nodes": [
	//       {
	//         "id": "wf_v1_start-node",
	//         "name": "start",
	//         "kind": "start"
	//       },
	//       {
	//         "id": "wf_v1_end-node",
	//         "name": "end",
	//         "kind": "end"
	//       }
	//     ],
	//     "edges": [
	//       {
	//         "source": "wf_v1_start-node",
	//         "target": "wf_v1_end-node"
	//       }
	//     ]
	//   }
	// }
}
