package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/pipeline"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
)

// layoutCommand creates the layout command for positioning render elements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		measure bool
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [elements.json]",
		Short: "Compute positions for render elements",
		Long: `Compute positions for render elements.

The layout command takes an elements.json file (produced by 'flatten', or
measured by the console widget) and places every node with Graphviz. Nodes
must carry a measured size unless --measure is given, in which case missing
sizes are estimated from the labels and nested containers are laid out
inside-out.

Measured layouts are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeElements,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], output, opts, measure, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&measure, "measure", false, "estimate missing node sizes and lay out nested containers")
	flags.registerDirection(cmd)

	return cmd
}

// runLayout loads the elements, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options, measure, noCache bool) error {
	elems, err := graph.ReadElementsFile(input)
	if err != nil {
		return fmt.Errorf("load elements %s: %w", input, err)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.Direction))
	spinner.Start()

	var (
		laid []flow.Element
		hit  *bool
	)
	if measure {
		runner, rerr := c.newRunner(ctx, noCache)
		if rerr != nil {
			spinner.Stop()
			return fmt.Errorf("initialize runner: %w", rerr)
		}
		defer runner.Close()
		var cached bool
		laid, cached, err = runner.LayoutWithCacheInfo(ctx, elems, opts)
		hit = &cached
	} else {
		laid, err = flow.Layout(ctx, elems, opts.FlowOptions()...)
	}
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}
	spinner.StopWithSuccess(fmt.Sprintf("Laid out %s %s", plural(len(flow.Nodes(laid)), "node"), opts.Direction))

	outputPath := output
	if outputPath == "" {
		outputPath = derivedPath(input, ".layout.json")
	}

	layout := graph.NewLayout(flow.Direction(opts.Direction), flow.DefaultLayoutConfig, laid)
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printFile(outputPath)
	printStats(len(flow.Nodes(laid)), len(flow.Edges(laid)), hit)
	printKeyValue("Extent", fmt.Sprintf("%.0f x %.0f", layout.Width, layout.Height))
	return nil
}
