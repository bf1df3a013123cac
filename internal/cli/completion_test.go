package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func complete(t *testing.T, args ...string) string {
	t.Helper()
	isolate(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func directive(d cobra.ShellCompDirective) string {
	return fmt.Sprintf(":%d\n", d)
}

func TestCompleteClosureArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantExts  bool
		directive cobra.ShellCompDirective
	}{
		{"render first", []string{"render", ""}, true, cobra.ShellCompDirectiveFilterFileExt},
		{"render second", []string{"render", "a.json", ""}, true, cobra.ShellCompDirectiveFilterFileExt},
		{"build first", []string{"build", ""}, true, cobra.ShellCompDirectiveFilterFileExt},
		{"build second", []string{"build", "a.json", ""}, false, cobra.ShellCompDirectiveNoFileComp},
		{"inspect first", []string{"inspect", ""}, true, cobra.ShellCompDirectiveFilterFileExt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := complete(t, tt.args...)
			assert.Contains(t, out, directive(tt.directive))
			for _, ext := range closureExts {
				if tt.wantExts {
					assert.Contains(t, out, ext+"\n")
				} else {
					assert.NotContains(t, out, ext+"\n")
				}
			}
		})
	}
}

func TestCompleteLayoutArgs(t *testing.T) {
	out := complete(t, "layout", "")
	assert.Contains(t, out, "json\n")
	assert.NotContains(t, out, "yaml\n")
	assert.Contains(t, out, directive(cobra.ShellCompDirectiveFilterFileExt))
}

func TestCompleteFlagValues(t *testing.T) {
	out := complete(t, "render", "--direction", "")
	assert.Contains(t, out, "LR")
	assert.Contains(t, out, "TB")
	assert.Contains(t, out, directive(cobra.ShellCompDirectiveNoFileComp))

	out = complete(t, "render", "--format", "")
	for _, f := range []string{"svg", "png", "pdf", "dot", "json"} {
		assert.Contains(t, out, f+"\n")
	}

	out = complete(t, "layout", "--direction", "")
	assert.Contains(t, out, "LR")
}

func TestCompletionCommandWritesScript(t *testing.T) {
	isolate(t)
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "flowgraph")
}
