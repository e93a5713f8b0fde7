// Package api serves dependency graphs over HTTP for depviz serve.
//
// The server holds one repository index in memory; every request walks it
// afresh. Routes:
//
//	GET /healthz                   liveness and package count
//	GET /packages?q=prefix         package names
//	GET /packages/{name}           forward graph document with cycle flag
//	GET /packages/{name}/reverse   reverse graph document
//	GET /packages/{name}/tree      ASCII tree (?reverse=true for dependents)
//	GET /packages/{name}/dot       DOT text (?reverse=true for dependents)
//	GET /packages/{name}/cycles    strongly connected components
//
// Every response carries an X-Request-ID header, echoed from the request
// when the client supplied one.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/depviz/pkg/depgraph"
	"github.com/matzehuels/depviz/pkg/errors"
	depio "github.com/matzehuels/depviz/pkg/io"
	"github.com/matzehuels/depviz/pkg/observability"
	"github.com/matzehuels/depviz/pkg/render/nodelink"
	"github.com/matzehuels/depviz/pkg/render/text"
	"github.com/matzehuels/depviz/pkg/repo"
)

// RequestIDHeader is the header carrying the request id.
const RequestIDHeader = "X-Request-ID"

// Server answers graph queries against one index.
type Server struct {
	idx    *repo.Index
	rev    *depgraph.ReverseIndex
	logger *log.Logger
	router chi.Router
}

// New creates a server over idx. The reverse index is computed once here.
func New(idx *repo.Index, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		idx:    idx,
		rev:    depgraph.NewReverseIndex(idx),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/packages", s.handleList)
	r.Route("/packages/{name}", func(r chi.Router) {
		r.Use(s.requirePackage)
		r.Get("/", s.handleForward)
		r.Get("/reverse", s.handleReverse)
		r.Get("/tree", s.handleTree)
		r.Get("/dot", s.handleDOT)
		r.Get("/cycles", s.handleCycles)
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const (
	requestIDKey ctxKey = iota
	packageKey
)

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFromContext returns the id assigned to the current request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond))
	})
}

// requirePackage validates {name} and rejects packages the repository
// neither defines nor mentions as a dependency.
func (s *Server) requirePackage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := errors.ValidatePackageName(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !s.idx.Has(name) && len(s.rev.Dependents(name)) == 0 {
			writeError(w, errors.New(errors.ErrCodePackageNotFound, "package %q not found in repository", name))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), packageKey, name)))
	})
}

func packageFrom(r *http.Request) string {
	name, _ := r.Context().Value(packageKey).(string)
	return name
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "packages": s.idx.Len()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")
	names := []string{}
	for name := range s.idx.All() {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": names})
}

func (s *Server) build(r *http.Request) (*depgraph.Graph, bool) {
	name := packageFrom(r)
	start := time.Now()
	g, cycle := depgraph.Build(name, s.idx)
	observability.Analysis().OnBuildComplete(r.Context(), name, g.Len(), cycle, time.Since(start))
	return g, cycle
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	g, cycle := s.build(r)
	writeJSON(w, http.StatusOK, depio.Forward(g, cycle))
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, depio.Reverse(s.rev.Walk(packageFrom(r))))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	reverse, err := boolParam(r, "reverse")
	if err != nil {
		writeError(w, err)
		return
	}
	var g *depgraph.Graph
	if reverse {
		g = s.rev.Walk(packageFrom(r))
	} else {
		g, _ = s.build(r)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text.Tree(g)))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	reverse, err := boolParam(r, "reverse")
	if err != nil {
		writeError(w, err)
		return
	}
	var g *depgraph.Graph
	if reverse {
		g = s.rev.Walk(packageFrom(r))
	} else {
		g, _ = s.build(r)
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(nodelink.ToDOT(g, nodelink.Options{Reverse: reverse})))
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	g, _ := s.build(r)
	cycles, err := depgraph.Cycles(g)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "find cycles"))
		return
	}
	if cycles == nil {
		cycles = [][]string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"root": g.Root, "cycles": cycles})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodePackageNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPackage:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func boolParam(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	b, err := errors.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: expected a boolean, got %s", key, strconv.Quote(v))
	}
	return b, nil
}
