package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/pipeline"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// buildCommand creates the build command for converting a closure into its
// workflow graph.
func (c *CLI) buildCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build [closure.json|closure.yaml]",
		Short: "Build the nested workflow graph of a compiled closure",
		Long: `Build the nested workflow graph of a compiled closure.

The closure is validated against the closure schema, every node is classified
and branches and sub-workflows are expanded into containers. The result is
written as tree JSON, to stdout unless --output is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeClosures(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input, output string) error {
	root, err := c.buildTree(ctx, input)
	if err != nil {
		return err
	}

	if output == "" {
		return graph.WriteTree(root, os.Stdout)
	}
	if err := graph.WriteTreeFile(root, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	stats := dag.Count(root)
	printSuccess("Built %s", root.Name)
	printFile(output)
	printStats(stats.Nodes, stats.Edges, nil)
	printNewline()
	printNextStep("Flatten", appName+" flatten "+input)
	return nil
}

// buildTree reads a closure file and builds its graph with the shared
// runner hooks.
func (c *CLI) buildTree(ctx context.Context, input string) (*dag.Node, error) {
	closure, err := workflow.ReadClosureFile(input)
	if err != nil {
		return nil, fmt.Errorf("load closure %s: %w", input, err)
	}
	prog := newProgress(c.Logger)
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	root, err := runner.Build(ctx, closure, pipeline.Options{Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", input, err)
	}
	prog.done("built", "file", input, "nodes", dag.Count(root).Nodes)
	return root, nil
}

// derivedPath replaces the extension of input with suffix.
func derivedPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
