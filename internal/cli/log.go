// Package cli implements the flowgraph command-line interface.
//
// This package provides commands for building workflow graphs from compiled
// closures, flattening and laying them out for the console widget, rendering
// node-link diagrams, browsing graphs interactively and serving the pipeline
// over HTTP. The CLI is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: Build the nested workflow graph of a closure
//   - flatten: Flatten a closure into render elements
//   - layout: Position render elements with Graphviz
//   - render: Generate SVG, PNG, PDF or DOT diagrams
//   - inspect: Browse a workflow graph in the terminal
//   - cache: Manage the layout and artifact cache
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports pipeline, cache and HTTP events through the observability hooks.
//
// # Example
//
//	import "github.com/matzehuels/flowgraph/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline run. Each goroutine uses its own progress.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, rounded to the
// millisecond:
//
//	14:32:01.45 INFO rendered file=branch.yaml nodes=8 elapsed=41ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
