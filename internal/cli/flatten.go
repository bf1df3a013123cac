package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/pipeline"
)

// flattenCommand creates the flatten command for producing widget elements.
func (c *CLI) flattenCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "flatten [closure.json|closure.yaml]",
		Short: "Flatten a closure into render elements",
		Long: `Flatten a closure into render elements.

Containers up to --depth are expanded with their children nested in the
element data; deeper containers collapse to a single node. Elements carry no
positions; run 'layout' on the output to place them.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeClosures(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runFlatten(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	flags.registerDepth(cmd)
	cmd.Flags().StringVar(&flags.prefix, "prefix", pipeline.DefaultNodePrefix, "node type prefix")

	return cmd
}

func (c *CLI) runFlatten(ctx context.Context, input, output string, opts pipeline.Options) error {
	root, err := c.buildTree(ctx, input)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	elems := runner.Flatten(ctx, root, opts)

	if output == "" {
		return graph.WriteElements(elems, os.Stdout)
	}
	if err := graph.WriteElementsFile(elems, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Flattened %s to depth %d", root.Name, opts.Depth())
	printFile(output)
	printDetail("%d elements", len(elems))
	printNewline()
	printNextStep("Layout", appName+" layout --measure "+output)
	return nil
}
