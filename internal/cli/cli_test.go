package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowgraph/internal/config"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "pkg", "workflow", "testdata", name)
}

// isolate points config and cache lookups at a temp dir so the user's own
// files do not leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("HOME", dir)
	t.Setenv("FLOWGRAPH_CACHE_DIR", filepath.Join(dir, "cache"))
	return dir
}

func run(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return c, root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"build", "flatten", "layout", "render", "inspect", "cache", "serve", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestBuildCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "tree.json")

	_, err := run(t, "build", fixture("branch.yaml"), "-o", out)
	require.NoError(t, err)

	root, err := graph.ReadTreeFile(out)
	require.NoError(t, err)
	assert.Equal(t, dag.KindPrimary, root.Kind)
	assert.Equal(t, "multiplier", root.Name)
}

func TestBuildCommandMissingFile(t *testing.T) {
	isolate(t)
	_, err := run(t, "build", "does-not-exist.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)
}

func TestFlattenAndLayoutCommands(t *testing.T) {
	dir := isolate(t)
	elems := filepath.Join(dir, "elements.json")
	laid := filepath.Join(dir, "layout.json")

	_, err := run(t, "flatten", fixture("branch.yaml"), "--depth", "0", "-o", elems)
	require.NoError(t, err)

	flat, err := graph.ReadElementsFile(elems)
	require.NoError(t, err)
	var collapsed bool
	for _, e := range flow.Nodes(flat) {
		if e.Data.NodeType == dag.KindNestedMaxDepth {
			collapsed = true
		}
	}
	assert.True(t, collapsed, "depth 0 should collapse the branch")

	// Flattened elements carry no sizes.
	_, err = run(t, "layout", elems, "-o", laid)
	assert.True(t, errors.Is(err, errors.ErrCodeNotMeasured), "err = %v", err)

	_, err = run(t, "layout", elems, "--measure", "--direction", "tb", "-o", laid)
	require.NoError(t, err)

	positioned, err := graph.ReadElementsFile(laid)
	require.NoError(t, err)
	for _, e := range flow.Nodes(positioned) {
		require.NotNil(t, e.Position, "node %s", e.ID)
		assert.Equal(t, flow.PortBottom, e.SourcePosition)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "out")

	_, err := run(t, "render", fixture("simple.json"), fixture("branch.yaml"), "-f", "svg,dot", "-o", out, "--detailed")
	require.NoError(t, err)

	for _, name := range []string{"simple.svg", "simple.dot", "branch.svg", "branch.dot"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
	svg, _ := os.ReadFile(filepath.Join(out, "branch.svg"))
	assert.Contains(t, string(svg), "<svg")
}

func TestRenderCommandTheme(t *testing.T) {
	dir := isolate(t)
	theme := filepath.Join(dir, "theme.toml")
	require.NoError(t, os.WriteFile(theme, []byte("accent = \"#ff0066\"\n"), 0o644))
	out := filepath.Join(dir, "wf.dot")

	_, err := run(t, "render", fixture("branch.yaml"), "-f", "dot", "--theme", theme, "--no-cache", "-o", out)
	require.NoError(t, err)

	dot, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(string(dot)), "#ff0066")
}

func TestRenderCommandInvalidFlags(t *testing.T) {
	isolate(t)

	_, err := run(t, "render", fixture("simple.json"), "-f", "gif")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "err = %v", err)

	_, err = run(t, "render", fixture("simple.json"), "--direction", "XY")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDirection), "err = %v", err)
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "flowgraph.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_depth: 3\ncache:\n  backend: none\n"), 0o644))

	c, err := run(t, "--config", cfgPath, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Config.MaxDepth)
	assert.Equal(t, config.BackendNone, c.Config.Cache.Backend)

	_, err = run(t, "--config", filepath.Join(dir, "missing.yml"), "cache", "path")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)
}

func TestOptionsPrecedence(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config = config.Default()
	c.Config.MaxDepth = 4
	c.Config.Direction = "TB"

	cmd := &cobra.Command{Use: "test"}
	var flags pipelineFlags
	flags.registerDepth(cmd)
	flags.registerDirection(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--direction", "lr"}))

	opts, err := c.options(cmd, &flags)
	require.NoError(t, err)
	assert.Equal(t, 4, opts.Depth(), "unset flag keeps the config value")
	assert.Equal(t, "LR", opts.Direction, "explicit flag overrides the config value")
	assert.Equal(t, c.Config.NodePrefix, opts.NodePrefix)
}

func TestCacheClearCommand(t *testing.T) {
	dir := isolate(t)
	cacheRoot := filepath.Join(dir, "cache")
	require.NoError(t, os.MkdirAll(filepath.Join(cacheRoot, "ab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheRoot, "ab", "cdef.json"), []byte("{}"), 0o644))

	_, err := run(t, "cache", "clear")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cacheRoot, "ab", "cdef.json"))
	assert.True(t, os.IsNotExist(err))
}
