package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/dag"
)

// inspectCommand creates the inspect command, an interactive browser over
// the workflow graph of a closure.
func (c *CLI) inspectCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "inspect [closure.json|closure.yaml]",
		Short: "Browse the workflow graph of a closure interactively",
		Long: `Browse the workflow graph of a closure interactively.

Containers (branches and sub-workflows) can be expanded and collapsed. With
--summary, or when stdout is not a terminal, graph statistics are printed
instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeClosures(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], summary)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print statistics instead of the browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, summary bool) error {
	root, err := c.buildTree(ctx, input)
	if err != nil {
		return err
	}

	if summary || !isTerminal(os.Stdout) {
		printSummary(root)
		return nil
	}

	p := tea.NewProgram(NewTreeModel(root), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run inspector: %w", err)
	}
	return nil
}

func printSummary(root *dag.Node) {
	stats := dag.Count(root)
	printSuccess("%s", root.Name)
	printKeyValue("Root", root.ID)
	printKeyValue("Nodes", fmt.Sprint(stats.Nodes))
	printKeyValue("Edges", fmt.Sprint(stats.Edges))
	printKeyValue("Containers", fmt.Sprint(stats.Containers))
	printKeyValue("Max depth", fmt.Sprint(stats.MaxDepth))

	printNewline()
	for _, line := range kindCounts(stats.ByKind) {
		fmt.Println("  " + line)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
