package cli

import "github.com/spf13/cobra"

// closureExts are the closure file extensions offered by shell completion.
var closureExts = []string{"json", "yaml", "yml"}

// completeClosures completes closure file paths. single stops offering files
// after the first argument.
func completeClosures(single bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if single && len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return closureExts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeElements completes flattened element files for layout.
func completeElements(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// registerFlagCompletions adds value completion for the shared pipeline
// flags that a command defines.
func registerFlagCompletions(cmd *cobra.Command) {
	if cmd.Flags().Lookup("direction") != nil {
		_ = cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(
			[]string{"LR\tleft to right", "TB\ttop to bottom"}, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
			[]string{"svg", "png", "pdf", "dot", "json"}, cobra.ShellCompDirectiveNoFileComp))
	}
	if cmd.Flags().Lookup("theme") != nil {
		_ = cmd.MarkFlagFilename("theme", "toml")
	}
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for flowgraph.

Closure arguments complete to .json, .yaml and .yml files; --direction,
--format and --theme complete to their accepted values.

Bash:
  $ source <(flowgraph completion bash)

Zsh:
  $ flowgraph completion zsh > "${fpath[1]}/_flowgraph"

Fish:
  $ flowgraph completion fish > ~/.config/fish/completions/flowgraph.fish

PowerShell:
  PS> flowgraph completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
