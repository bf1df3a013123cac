package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
)

// LayoutWithCacheInfo lays out elements headlessly, measuring unmeasured
// nodes with [flow.DefaultTextMeasurer], and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, elems []flow.Element, opts Options) ([]flow.Element, bool, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}

	// Compute cache key from the input elements
	data, err := graph.MarshalElements(elems)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())

	if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		laid, err := graph.ReadElements(bytes.NewReader(cached))
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return laid, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Direction, len(flow.Nodes(elems)))
	start := time.Now()

	laid, err := flow.LayoutNested(ctx, elems, flow.DefaultTextMeasurer, opts.FlowOptions()...)
	hooks.OnLayoutComplete(ctx, opts.Direction, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if out, err := graph.MarshalElements(laid); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, out, r.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(out))
		} else {
			r.Logger.Warn("cache write failed", "stage", "layout", "error", err)
		}
	}

	return laid, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, elems []flow.Element, opts Options) ([]flow.Element, error) {
	laid, _, err := r.LayoutWithCacheInfo(ctx, elems, opts)
	return laid, err
}
