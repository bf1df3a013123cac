package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/render"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

// RenderWithCacheInfo renders the node-link diagram of root in every
// requested format. Artifacts are cached by the hash of the DOT source, so
// any option that changes the diagram changes the key.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root *dag.Node, opts Options) (string, map[render.Format][]byte, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return "", nil, false, err
	}

	dot := nodelink.ToDOT(root, opts.NodelinkOptions())
	dotHash := cache.Hash([]byte(dot))

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(dotHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allCached = false

		data, err := r.renderFormat(ctx, dot, format)
		if err != nil {
			return "", nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		} else {
			r.Logger.Warn("cache write failed", "stage", "render", "format", format, "error", err)
		}
	}

	return dot, artifacts, allCached, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the DOT source and cache hit info.
func (r *Runner) Render(ctx context.Context, root *dag.Node, opts Options) (map[render.Format][]byte, error) {
	_, artifacts, _, err := r.RenderWithCacheInfo(ctx, root, opts)
	return artifacts, err
}

// RenderSVG renders the node-link diagram of root as SVG.
func (r *Runner) RenderSVG(ctx context.Context, root *dag.Node, opts Options) ([]byte, error) {
	opts.Formats = []render.Format{render.FormatSVG}
	artifacts, err := r.Render(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	return artifacts[render.FormatSVG], nil
}

func (r *Runner) renderFormat(ctx context.Context, dot string, format render.Format) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case render.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case render.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	case render.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		data, err = render.RenderDOT(ctx, dot, format)
	}

	hooks.OnRenderComplete(ctx, string(format), time.Since(start), err)
	return data, err
}
