package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/buildinfo"
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/pipeline"
	"github.com/matzehuels/flowgraph/pkg/render"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleDAG handles POST /v1/dag.
func (s *Server) handleDAG(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	root, ok := s.build(w, r, opts)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, graph.FromDAG(root))
}

// handleFlatten handles POST /v1/flatten.
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	root, ok := s.build(w, r, opts)
	if !ok {
		return
	}
	elems := s.runner.Flatten(r.Context(), root, opts)
	if elems == nil {
		elems = []flow.Element{}
	}
	writeJSON(w, http.StatusOK, elems)
}

// handleLayout handles POST /v1/layout.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	root, ok := s.build(w, r, opts)
	if !ok {
		return
	}
	elems := s.runner.Flatten(r.Context(), root, opts)
	laid, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), elems, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, graph.NewLayout(flow.Direction(opts.Direction), flow.DefaultLayoutConfig, laid))
}

// handleRender handles POST /v1/render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := render.FormatSVG
	if f := r.URL.Query().Get("format"); f != "" {
		if format, err = render.ParseFormat(f); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	opts.Formats = []render.Format{format}

	root, ok := s.build(w, r, opts)
	if !ok {
		return
	}
	_, artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), root, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Request Decoding
// =============================================================================

// build decodes the closure in the request body and builds its graph. On
// failure the error response has been written.
func (s *Server) build(w http.ResponseWriter, r *http.Request, opts pipeline.Options) (*dag.Node, bool) {
	closure, err := readClosure(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	root, err := s.runner.Build(r.Context(), closure, opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return root, true
}

func readClosure(w http.ResponseWriter, r *http.Request) (*workflow.CompiledWorkflowClosure, error) {
	format := workflow.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type %q", ct)
		}
		switch {
		case strings.HasSuffix(mt, "yaml"):
			format = workflow.FormatYAML
		case mt == "application/json", strings.HasSuffix(mt, "+json"), mt == "text/plain":
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q (want JSON or YAML)", mt)
		}
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return workflow.ReadClosure(bytes.NewReader(data), format)
}

// options merges the query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	q := r.URL.Query()

	if v := q.Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidDepth, "depth %q is not an integer", v)
		}
		opts.MaxDepth = pipeline.Depth(d)
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = strings.ToUpper(v)
	}
	if v := q.Get("prefix"); v != "" {
		opts.NodePrefix = v
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "detailed %q is not a boolean", v)
		}
		opts.Detailed = b
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	return opts, opts.ValidateAndSetDefaults()
}

// =============================================================================
// Responses
// =============================================================================

func setCacheHeader(w http.ResponseWriter, hit bool) {
	v := "miss"
	if hit {
		v = "hit"
	}
	w.Header().Set("X-Cache", v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: msg})
}
