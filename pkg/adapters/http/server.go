package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/ports"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Builder is the part of *hpgraph.Builder the server needs.
type Builder interface {
	Parse(data []byte, source string, overrides ...string) (*domain.Document, error)
	Order(doc *domain.Document) ([]string, error)
	Resolve(ctx context.Context, doc *domain.Document) (*domain.Graph, error)
	Record(ctx context.Context, doc *domain.Document, g *domain.Graph, overrides ...string) (*domain.Manifest, error)
	Registry() *registry.Registry
}

var _ Builder = (*hpgraph.Builder)(nil)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// maxBody caps request bodies.
const maxBody = 4 << 20

// Server serves the build API.
type Server struct {
	Builder  Builder
	Store    ports.ManifestStore
	Recipes  ports.DocumentLoader
	Gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /v1/manifests endpoints and `save` on resolve.
// It should be the same store the Builder records into.
func WithStore(store ports.ManifestStore) Option {
	return func(s *Server) { s.Store = store }
}

// WithRecipes enables the /v1/recipes endpoints and `recipe` requests.
func WithRecipes(loader ports.DocumentLoader) Option {
	return func(s *Server) { s.Recipes = loader }
}

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server implements the generated ServerInterface
var _ ServerInterface = (*Server)(nil)

// NewHandler creates the HTTP handler for b.
func NewHandler(b Builder, opts ...Option) http.Handler {
	s := &Server{Builder: b, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			s.logger.Error("failed to load OpenAPI spec", "error", err)
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerWithOptions(s, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Message: err.Error()})
		},
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>hpgraph API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, InfoResponse{
		App:        "hpgraph-http",
		Version:    strings.TrimSpace(hpgraph.Version),
		ApiVersion: apiVersion,
	})
}

// ListTargets handles GET /v1/targets.
func (s *Server) ListTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Builder.Registry().Describe())
}

// Validate handles POST /v1/validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	order, err := s.Builder.Order(doc)
	if err != nil {
		s.buildError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Order: order})
}

// Resolve handles POST /v1/resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	req, doc, ok := s.document(w, r)
	if !ok {
		return
	}
	g, err := s.Builder.Resolve(r.Context(), doc)
	if err != nil {
		s.buildError(w, req, err)
		return
	}

	nodes, order := domain.Summarize(doc, g)
	resp := ResolveResponse{Seed: g.Seed, Order: order, Nodes: nodes}
	if req.Save {
		if s.Store == nil {
			writeError(w, http.StatusNotImplemented, ErrorResponse{Kind: "unavailable", Message: "no manifest store configured"})
			return
		}
		m, err := s.Builder.Record(r.Context(), doc, g, req.Overrides...)
		if err != nil {
			s.logger.Error("record manifest failed", "error", err)
			writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
			return
		}
		resp.ManifestId = m.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// document decodes the request and parses the document it names.
func (s *Server) document(w http.ResponseWriter, r *http.Request) (*BuildRequest, *domain.Document, bool) {
	var req BuildRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Message: "invalid request body"})
		return nil, nil, false
	}

	data, source := []byte(req.Document), req.Source
	switch {
	case req.Document != "" && req.Recipe != "":
		writeError(w, http.StatusBadRequest, ErrorResponse{Kind: "bad_request", Message: "set either document or recipe, not both"})
		return nil, nil, false
	case req.Recipe != "":
		if s.Recipes == nil {
			writeError(w, http.StatusNotImplemented, ErrorResponse{Kind: "unavailable", Message: "no recipe catalog configured"})
			return nil, nil, false
		}
		raw, err := s.Recipes.GetDocument(req.Recipe)
		if err != nil {
			s.notFound(w, err, domain.ErrDocumentNotFound)
			return nil, nil, false
		}
		data = raw
		if source == "" {
			source = "recipe:" + req.Recipe
		}
	}
	if source == "" {
		source = "request"
	}

	doc, err := s.Builder.Parse(data, source, req.Overrides...)
	if err != nil {
		s.buildError(w, &req, err)
		return nil, nil, false
	}
	return &req, doc, true
}

// ListRecipes handles GET /v1/recipes.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	if s.Recipes == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}
	names, err := s.Recipes.ListDocuments()
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// GetRecipe handles GET /v1/recipes/{name} and returns the raw YAML.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request, name string) {
	if s.Recipes == nil {
		s.notFound(w, domain.ErrDocumentNotFound, domain.ErrDocumentNotFound)
		return
	}
	data, err := s.Recipes.GetDocument(name)
	if err != nil {
		s.notFound(w, err, domain.ErrDocumentNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListManifests handles GET /v1/manifests.
func (s *Server) ListManifests(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.logger.Error("list manifests failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetManifest handles GET /v1/manifests/{id}.
func (s *Server) GetManifest(w http.ResponseWriter, r *http.Request, id string) {
	if !s.requireStore(w) {
		return
	}
	m, err := s.Store.Load(r.Context(), id)
	if err != nil {
		s.notFound(w, err, domain.ErrManifestNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DeleteManifest handles DELETE /v1/manifests/{id}.
func (s *Server) DeleteManifest(w http.ResponseWriter, r *http.Request, id string) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeError(w, http.StatusNotImplemented, ErrorResponse{Kind: "unavailable", Message: "no manifest store configured"})
		return false
	}
	return true
}

func (s *Server) notFound(w http.ResponseWriter, err, sentinel error) {
	if errors.Is(err, sentinel) {
		writeError(w, http.StatusNotFound, ErrorResponse{Kind: "not_found", Message: err.Error()})
		return
	}
	s.logger.Error("lookup failed", "error", err)
	writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
}

// buildError maps parse and resolution failures to 422 responses.
func (s *Server) buildError(w http.ResponseWriter, req *BuildRequest, err error) {
	var be *domain.BuildError
	if !errors.As(err, &be) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, ErrorResponse{Kind: "cancelled", Message: err.Error()})
			return
		}
		s.logger.Error("build failed", "error", err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{Kind: "internal", Message: err.Error()})
		return
	}
	s.logger.Info("document rejected", "source", req.Source, "kind", domain.KindName(err), "node", be.Node)
	writeError(w, http.StatusUnprocessableEntity, ErrorResponse{
		Kind:    domain.KindName(err),
		Node:    be.Node,
		Message: be.Error(),
		Cycle:   be.Cycle,
		Line:    be.Line,
		Column:  be.Column,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

// Addr formats a listen address for host and port.
func Addr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
