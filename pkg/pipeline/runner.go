package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the expiration of cached layouts and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute runs the complete build → flatten → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, closure *workflow.CompiledWorkflowClosure, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	root, err := r.Build(ctx, closure, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Tree = root
	result.Stats.Stats = dag.Count(root)
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built workflow graph",
		"workflow", root.Name,
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges,
		"duration", result.Stats.BuildTime)

	// Stage 2: Flatten
	elems := r.Flatten(ctx, root, opts)

	// Stage 3: Layout
	layoutStart := time.Now()
	laid, layoutHit, err := r.LayoutWithCacheInfo(ctx, elems, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Elements = laid
	result.Stats.Elements = len(laid)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"elements", len(laid),
		"direction", opts.Direction,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	dot, artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.DOT = dot
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExecuteFile reads a closure file and runs the complete pipeline.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	closure, err := workflow.ReadClosureFile(path)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, closure, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// prepare validates options and sets the runner's logger if none is set.
func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.ValidateAndSetDefaults()
}

func (r *Runner) ttl() time.Duration {
	if r.TTL < 0 {
		return 0
	}
	return r.TTL
}
