// Package api serves the morphology operations over HTTP.
//
// Every endpoint takes a JSON body holding the morphology as text together
// with the file name that selects its format, and answers with JSON:
//
//	GET  /healthz        build information
//	POST /v1/shrink      cut and graft at several heights
//	POST /v1/jitter      jittered clones
//	POST /v1/scale       constant scaling
//	POST /v1/topology    section tree as DOT or SVG
//
// Errors are {"code": ..., "message": ...}. Expected domain failures (no
// axon, no axon annotation, ...) answer 422, malformed requests 400.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/neuroc/pkg/observability"
	"github.com/matzehuels/neuroc/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 32 << 20

// MaxClones bounds the clones of one jitter request.
const MaxClones = 100

// Server holds the handlers' dependencies.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer returns the HTTP handler of the API. runner supplies the cache
// and the logger.
func NewServer(runner *pipeline.Runner) http.Handler {
	s := &Server{runner: runner, logger: runner.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/shrink", s.shrink)
		r.Post("/jitter", s.jitter)
		r.Post("/scale", s.scale)
		r.Post("/topology", s.topology)
	})
	return r
}

// observe reports requests to the HTTP hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", d, "id", middleware.GetReqID(r.Context()))
	})
}
