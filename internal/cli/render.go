package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowgraph/pkg/pipeline"
	"github.com/matzehuels/flowgraph/pkg/render"
)

// renderCommand creates the render command that runs the full pipeline on
// one or more closures.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		watch   bool
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "render [closure...]",
		Short: "Render node-link diagrams of compiled closures",
		Long: `Render node-link diagrams of compiled closures.

Each closure is built, flattened, laid out and drawn with Graphviz. Expanded
containers become clusters; deeper ones are drawn as single nodes. Several
closures are rendered concurrently.

Output files are written next to each input (<input>.svg) unless --output is
given: a file when rendering one closure to one format, otherwise a
directory.

With --watch the command keeps running and re-renders a closure whenever its
file changes.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeClosures(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if opts.Formats, err = parseFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, output, opts, noCache, watch)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output formats: svg (default), png, pdf, dot, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when an input changes")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "TOML theme file")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "add ids, kinds and task types to labels")
	flags.registerDepth(cmd)
	flags.registerDirection(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, inputs []string, output string, opts pipeline.Options, noCache, watch bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := c.renderAll(ctx, runner, inputs, output, opts); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	return c.watchInputs(ctx, runner, inputs, output, opts)
}

// renderAll renders every input concurrently, bounded by GOMAXPROCS.
func (c *CLI) renderAll(ctx context.Context, runner *pipeline.Runner, inputs []string, output string, opts pipeline.Options) error {
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d closure(s)...", len(inputs)))
	spinner.Start()

	results := make([]*renderResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, input := range inputs {
		g.Go(func() error {
			res, err := c.renderOne(gctx, runner, input, output, len(inputs) > 1, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, res := range results {
		res.print()
	}
	return nil
}

// renderResult is the outcome of rendering one closure.
type renderResult struct {
	name   string
	files  []string
	result *pipeline.Result
}

func (r *renderResult) print() {
	printSuccess("Rendered %s", r.name)
	for _, f := range r.files {
		printFile(f)
	}
	printStats(r.result.Stats.Nodes, r.result.Stats.Edges, &r.result.CacheInfo.RenderHit)
}

func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, input, output string, multi bool, opts pipeline.Options) (*renderResult, error) {
	prog := newProgress(c.Logger)
	result, err := runner.ExecuteFile(ctx, input, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", input, err)
	}

	files, err := writeArtifacts(artifactWriteParams{
		input:     input,
		output:    output,
		multi:     multi,
		formats:   opts.Formats,
		artifacts: result.Artifacts,
	})
	if err != nil {
		return nil, err
	}
	prog.done("rendered", "file", input, "nodes", result.Stats.Nodes, "formats", len(files))
	return &renderResult{name: result.Tree.Name, files: files, result: result}, nil
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	input     string
	output    string
	multi     bool
	formats   []render.Format
	artifacts map[render.Format][]byte
}

// writeArtifacts writes each artifact and returns the paths written.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	single := !p.multi && len(p.formats) == 1 && p.output != ""
	var paths []string
	for _, f := range p.formats {
		data, ok := p.artifacts[f]
		if !ok {
			continue
		}
		path := derivedPath(p.input, f.Ext())
		switch {
		case single:
			path = p.output
		case p.output != "":
			if err := os.MkdirAll(p.output, 0o755); err != nil {
				return nil, fmt.Errorf("create output directory: %w", err)
			}
			path = filepath.Join(p.output, filepath.Base(path))
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// =============================================================================
// Watch Mode
// =============================================================================

// watchDebounce coalesces the burst of events an editor emits per save.
const watchDebounce = 150 * time.Millisecond

// watchInputs re-renders an input after it changes, until ctx is done.
// Parent directories are watched so that editors replacing the file by
// rename keep being followed.
func (c *CLI) watchInputs(ctx context.Context, runner *pipeline.Runner, inputs []string, output string, opts pipeline.Options) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(inputs)) // absolute -> as given
	dirs := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		watched[abs] = in
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	printNewline()
	printInfo("Watching %d file(s) for changes (ctrl+c to stop)", len(inputs))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if in, ok := watched[abs]; ok {
				pending[in] = true
				timer.Reset(watchDebounce)
			}
		case <-timer.C:
			for in := range pending {
				c.Logger.Debug("input changed", "file", in)
				res, err := c.renderOne(ctx, runner, in, output, len(inputs) > 1, opts)
				if err != nil {
					printError("%v", err)
					continue
				}
				res.print()
			}
			clear(pending)
		}
	}
}
