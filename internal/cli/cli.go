package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/internal/config"
	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/pipeline"
	"github.com/matzehuels/flowgraph/pkg/render"
	"github.com/matzehuels/flowgraph/pkg/render/nodelink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowgraph"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Config is loaded before any subcommand runs. Nil means built-in
	// defaults.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flowgraph turns compiled workflow closures into graphs",
		Long: `Flowgraph converts compiled workflow closures into nested graphs, flattens
them into render elements for the console widget, lays them out with Graphviz
and exports node-link diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.ProjectConfigPath+")")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	for _, sub := range root.Commands() {
		registerFlagCompletions(sub)
	}

	return root
}

// loadConfig resolves the layered configuration and, at debug level,
// installs logging hooks.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: c.configPath})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
	return nil
}

func (c *CLI) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	store, keyer, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, redisKeyer(cfg), nil
	case config.BackendFile:
		fc, err := cache.NewFileCache(cacheDir(cfg))
		if err != nil {
			return cache.NewNullCache(), nil, nil
		}
		return fc, nil, nil
	default:
		return cache.NewNullCache(), nil, nil
	}
}

// redisKeyer scopes cache keys under redis.prefix so that several
// deployments can share one redis database. Nil selects the default keyer.
func redisKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Redis.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Redis.Prefix)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured file cache directory, falling back to the
// XDG location (~/.cache/flowgraph/).
func cacheDir(cfg *config.Config) string {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineFlags are the flags shared by commands that drive the pipeline.
// Flags left unset fall back to the loaded config.
type pipelineFlags struct {
	depth     int
	direction string
	prefix    string
	theme     string
	detailed  bool
}

func (f *pipelineFlags) registerDepth(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.depth, "depth", "d", pipeline.DefaultMaxDepth, "container levels to expand")
}

func (f *pipelineFlags) registerDirection(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.direction, "direction", pipeline.DefaultDirection, "rank direction: LR, TB")
}

// options builds pipeline options from config and explicitly set flags.
func (c *CLI) options(cmd *cobra.Command, f *pipelineFlags) (pipeline.Options, error) {
	cfg := c.config()
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	depth, direction, prefix, theme := cfg.MaxDepth, cfg.Direction, cfg.NodePrefix, cfg.Theme
	if changed("depth") {
		depth = f.depth
	}
	if changed("direction") {
		direction = strings.ToUpper(f.direction)
	}
	if changed("prefix") {
		prefix = f.prefix
	}
	if changed("theme") {
		theme = f.theme
	}

	opts := pipeline.Options{
		MaxDepth:   pipeline.Depth(depth),
		Direction:  direction,
		NodePrefix: prefix,
		Detailed:   f.detailed,
		Logger:     c.Logger,
	}
	if theme != "" {
		t, err := nodelink.LoadTheme(theme)
		if err != nil {
			return opts, fmt.Errorf("load theme %s: %w", theme, err)
		}
		opts.Theme = t
	}
	return opts, opts.ValidateAndSetDefaults()
}

// parseFormats parses a comma-separated format string.
func parseFormats(s string) ([]render.Format, error) {
	if s == "" {
		return []render.Format{pipeline.DefaultFormat}, nil
	}
	var formats []render.Format
	for _, part := range strings.Split(s, ",") {
		f, err := render.ParseFormat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}
