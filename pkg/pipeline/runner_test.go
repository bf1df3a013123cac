package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/render"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

func fixture(name string) string {
	return filepath.Join("..", "workflow", "testdata", name)
}

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func TestExecuteBranchClosure(t *testing.T) {
	r := quietRunner(t, nil)

	res, err := r.ExecuteFile(context.Background(), fixture("branch.yaml"), Options{})
	require.NoError(t, err)

	assert.Equal(t, dag.KindPrimary, res.Tree.Kind)
	assert.Equal(t, "multiplier", res.Tree.Name)
	assert.Equal(t, 1, res.Stats.Containers-1, "one container below the root")
	assert.Equal(t, len(res.Elements), res.Stats.Elements)

	for _, e := range res.Elements {
		if e.IsNode() {
			require.NotNil(t, e.Position, "node %s", e.ID)
			require.NotNil(t, e.Measured, "node %s", e.ID)
		}
	}

	svg := res.Artifacts[render.FormatSVG]
	require.NotEmpty(t, svg)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, res.DOT, "cluster_")
}

func TestExecuteUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := quietRunner(t, fc)
	ctx := context.Background()

	first, err := r.ExecuteFile(ctx, fixture("simple.json"), Options{})
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.False(t, first.CacheInfo.RenderHit)

	second, err := r.ExecuteFile(ctx, fixture("simple.json"), Options{})
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.True(t, second.CacheInfo.RenderHit)
	assert.Equal(t, first.Artifacts[render.FormatSVG], second.Artifacts[render.FormatSVG])
	assert.Equal(t, len(first.Elements), len(second.Elements))

	third, err := r.ExecuteFile(ctx, fixture("simple.json"), Options{Direction: "TB"})
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.LayoutHit, "direction must change the layout key")
	assert.False(t, third.CacheInfo.RenderHit, "direction must change the DOT source")
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := quietRunner(t, nil)
	_, err := r.ExecuteFile(context.Background(), fixture("simple.json"), Options{Direction: "XY"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidDirection), "err = %v", err)
}

func TestExecuteMalformedClosure(t *testing.T) {
	r := quietRunner(t, nil)
	closure := &workflow.CompiledWorkflowClosure{
		Primary: &workflow.CompiledWorkflow{
			Template: &workflow.WorkflowTemplate{
				ID:    workflow.Identifier{Name: "wf", Version: "v1"},
				Nodes: []workflow.CompiledNode{{ID: "n0"}},
			},
			Connections: &workflow.ConnectionSet{},
		},
	}
	_, err := r.Execute(context.Background(), closure, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeMissingStartNode), "err = %v", err)
	assert.True(t, errors.IsMalformedClosure(err))
}

func TestBuildNilClosure(t *testing.T) {
	r := quietRunner(t, nil)
	_, err := r.Build(context.Background(), nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidClosure))
}

func TestFlattenDepth(t *testing.T) {
	r := quietRunner(t, nil)
	ctx := context.Background()
	closure, err := workflow.ReadClosureFile(fixture("branch.yaml"))
	require.NoError(t, err)
	root, err := r.Build(ctx, closure, Options{})
	require.NoError(t, err)

	expanded := r.Flatten(ctx, root, Options{})
	collapsed := r.Flatten(ctx, root, Options{MaxDepth: Depth(0)})
	require.Equal(t, len(expanded), len(collapsed))

	var sawNested, sawCollapsed bool
	for _, e := range expanded {
		if e.IsNode() && len(e.Data.DAG) > 0 {
			sawNested = true
		}
	}
	for _, e := range collapsed {
		if e.IsNode() && e.Data.NodeType == dag.KindNestedMaxDepth {
			sawCollapsed = true
		}
	}
	assert.True(t, sawNested, "depth 1 should embed the branch arms")
	assert.True(t, sawCollapsed, "depth 0 should collapse the branch")
}

func TestRenderFormats(t *testing.T) {
	r := quietRunner(t, nil)
	ctx := context.Background()
	closure, err := workflow.ReadClosureFile(fixture("simple.json"))
	require.NoError(t, err)
	root, err := r.Build(ctx, closure, Options{})
	require.NoError(t, err)

	out, err := r.Render(ctx, root, Options{Formats: []render.Format{render.FormatDOT, render.FormatSVG}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out[render.FormatDOT]), "digraph G {"))
	assert.Contains(t, string(out[render.FormatSVG]), "say_hello")

	svg, err := r.RenderSVG(ctx, root, Options{})
	require.NoError(t, err)
	assert.Equal(t, out[render.FormatSVG], svg)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnBuildStart(context.Context, string) { h.record("build-start") }
func (h *recordingHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {
	h.record("build-complete")
}
func (h *recordingHooks) OnFlattenComplete(context.Context, int, int, time.Duration) {
	h.record("flatten")
}
func (h *recordingHooks) OnLayoutStart(context.Context, string, int) { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {
	h.record("layout-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, string, time.Duration, error) {
	h.record("render-complete")
}

func TestExecuteFiresHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	r := quietRunner(t, nil)
	_, err := r.ExecuteFile(context.Background(), fixture("simple.json"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"build-start", "build-complete",
		"flatten",
		"layout-start", "layout-complete",
		"render-start", "render-complete",
	}, h.events)
}
