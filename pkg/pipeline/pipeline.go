// Package pipeline provides the workflow graph pipeline for flowgraph.
//
// This package implements the complete build → flatten → layout → render
// pipeline used by the CLI and the HTTP server. By centralizing this logic,
// both entry points apply the same defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Convert a compiled workflow closure into the nested graph
//  2. Flatten: Convert the graph into widget elements up to a depth
//  3. Layout: Size elements headlessly and compute positions
//  4. Render: Generate a node-link diagram (SVG, PNG, PDF, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, closure, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[render.FormatSVG]
//
// Run individual stages:
//
//	root, err := runner.Build(ctx, closure, opts)
//	elems := runner.Flatten(ctx, root, opts)
//	laid, err := runner.Layout(ctx, elems, opts)
//	svg, err := runner.RenderSVG(ctx, root, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/render"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxDepth is the number of container levels expanded.
	DefaultMaxDepth = flow.DefaultMaxDepth

	// DefaultDirection is the default rank direction.
	DefaultDirection = string(flow.LR)

	// DefaultNodePrefix is the default widget node type prefix.
	DefaultNodePrefix = flow.DefaultNodePrefix

	// DefaultFormat is the default render format.
	DefaultFormat = render.FormatSVG

	// DefaultTTL is how long layouts and artifacts stay cached.
	DefaultTTL = 7 * 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// MaxDepth is the number of container levels expanded by Flatten and
	// drawn as clusters by Render. Nil selects DefaultMaxDepth; zero
	// collapses every container.
	MaxDepth *int `json:"max_depth,omitempty"`

	// Direction is the rank direction, "LR" or "TB".
	Direction string `json:"direction,omitempty"`

	// NodePrefix prefixes widget node types.
	NodePrefix string `json:"node_prefix,omitempty"`

	// Formats lists the render outputs.
	Formats []render.Format `json:"formats,omitempty"`

	// Detailed adds ids, kinds and task types to diagram labels.
	Detailed bool `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Theme  *nodelink.Theme `json:"-"`
	Logger *log.Logger     `json:"-"`
}

// Depth returns a pointer to d, for [Options.MaxDepth].
func Depth(d int) *int { return &d }

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the nested workflow graph.
	Tree *dag.Node

	// Elements are the flattened, laid-out widget elements.
	Elements []flow.Element

	// DOT is the node-link diagram source.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	dag.Stats
	Elements   int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.MaxDepth == nil {
		o.MaxDepth = Depth(DefaultMaxDepth)
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.NodePrefix == "" {
		o.NodePrefix = DefaultNodePrefix
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	if o.MaxDepth != nil {
		if err := errors.ValidateDepth(*o.MaxDepth); err != nil {
			return err
		}
	}
	if err := errors.ValidateDirection(o.Direction); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Depth returns the effective maximum depth.
func (o *Options) Depth() int {
	if o.MaxDepth == nil {
		return DefaultMaxDepth
	}
	return *o.MaxDepth
}

// FlowOptions returns the flatten and layout options.
func (o *Options) FlowOptions() []flow.Option {
	opts := []flow.Option{
		flow.WithMaxDepth(o.Depth()),
		flow.WithDirection(flow.Direction(o.Direction)),
	}
	if o.NodePrefix != "" {
		opts = append(opts, flow.WithNodePrefix(o.NodePrefix))
	}
	if o.Logger != nil {
		opts = append(opts, flow.WithLogger(o.Logger))
	}
	return opts
}

// NodelinkOptions returns the diagram options.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{
		MaxDepth:  o.Depth(),
		Direction: o.Direction,
		Theme:     o.Theme,
		Detailed:  o.Detailed,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := flow.DefaultLayoutConfig
	return cache.LayoutKeyOpts{
		Direction: o.Direction,
		NodeSep:   cfg.NodeSep,
		RankSep:   cfg.RankSep,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format render.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: string(format)}
}
