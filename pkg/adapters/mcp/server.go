package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/ports"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	targetsURI = "hpgraph://targets"
	recipesURI = "hpgraph://recipes"
)

// DocumentArgs select the document a tool works on.
type DocumentArgs struct {
	Document  string   `json:"document,omitempty"`
	Recipe    string   `json:"recipe,omitempty"`
	Overrides []string `json:"overrides,omitempty"`
}

// ValidateResult is the structured output of validate_document.
type ValidateResult struct {
	Valid bool     `json:"valid" jsonschema_description:"Whether the document resolves"`
	Order []string `json:"order,omitempty" jsonschema_description:"Construction order of the nodes"`
	Error *Problem `json:"error,omitempty" jsonschema_description:"Why the document was rejected"`
}

// ResolveResult is the structured output of resolve_document.
type ResolveResult struct {
	Seed       int64                           `json:"seed"`
	Order      []string                        `json:"order"`
	Nodes      map[string]domain.ManifestEntry `json:"nodes"`
	ManifestID string                          `json:"manifest_id,omitempty"`
}

// Problem describes a rejected document.
type Problem struct {
	Kind    string   `json:"kind"`
	Node    string   `json:"node,omitempty"`
	Message string   `json:"message"`
	Cycle   []string `json:"cycle,omitempty"`
	Line    int      `json:"line,omitempty"`
}

// Builder is the part of *hpgraph.Builder the server needs.
type Builder interface {
	Parse(data []byte, source string, overrides ...string) (*domain.Document, error)
	Order(doc *domain.Document) ([]string, error)
	Resolve(ctx context.Context, doc *domain.Document) (*domain.Graph, error)
	Record(ctx context.Context, doc *domain.Document, g *domain.Graph, overrides ...string) (*domain.Manifest, error)
	Registry() *registry.Registry
}

var _ Builder = (*hpgraph.Builder)(nil)

// Server exposes a Builder as an MCP server.
type Server struct {
	builder   Builder
	recipes   ports.DocumentLoader
	record    bool
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithRecipes lets tools refer to documents of the catalog by name and
// publishes the catalog as a resource.
func WithRecipes(loader ports.DocumentLoader) Option {
	return func(s *Server) { s.recipes = loader }
}

// WithRecording records a manifest for every resolve_document call.
func WithRecording() Option {
	return func(s *Server) { s.record = true }
}

// NewServer creates a new MCP Server instance.
func NewServer(b Builder, opts ...Option) *Server {
	s := &Server{
		builder: b,
		mcpServer: server.NewMCPServer("hpgraph-mcp", strings.TrimSpace(hpgraph.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func documentOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("document", mcp.Description("YAML document text (mutually exclusive with recipe)")),
		mcp.WithString("recipe", mcp.Description("Name of a catalog document (mutually exclusive with document)")),
		mcp.WithArray("overrides", mcp.Description("YAML override documents applied in order"), mcp.WithStringItems()),
	}
}

func (s *Server) registerTools() {
	validate := mcp.NewTool("validate_document", append(documentOptions(),
		mcp.WithDescription("Check a document for unknown references, cycles, unknown targets, argument mismatches and unfilled placeholders without constructing anything."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ValidateResult](),
	)...)
	s.mcpServer.AddTool(validate, mcp.NewStructuredToolHandler(s.handleValidate))

	resolve := mcp.NewTool("resolve_document", append(documentOptions(),
		mcp.WithDescription("Construct every node of a document and summarise the resulting graph."),
		mcp.WithOutputSchema[ResolveResult](),
	)...)
	s.mcpServer.AddTool(resolve, mcp.NewStructuredToolHandler(s.handleResolve))

	s.mcpServer.AddTool(mcp.NewTool("list_targets",
		mcp.WithDescription("List the constructible targets and their parameters."),
		mcp.WithReadOnlyHintAnnotation(true),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.builder.Registry().Describe())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleValidate(ctx context.Context, _ mcp.CallToolRequest, args DocumentArgs) (ValidateResult, error) {
	doc, err := s.parse(args)
	if err == nil {
		var order []string
		order, err = s.builder.Order(doc)
		if err == nil {
			return ValidateResult{Valid: true, Order: order}, nil
		}
	}
	if p := problem(err); p != nil {
		return ValidateResult{Error: p}, nil
	}
	return ValidateResult{}, err
}

func (s *Server) handleResolve(ctx context.Context, _ mcp.CallToolRequest, args DocumentArgs) (ResolveResult, error) {
	doc, err := s.parse(args)
	if err != nil {
		return ResolveResult{}, describe(err)
	}
	g, err := s.builder.Resolve(ctx, doc)
	if err != nil {
		slog.Warn("MCP resolve failed", "kind", domain.KindName(err), "error", err)
		return ResolveResult{}, describe(err)
	}

	nodes, order := domain.Summarize(doc, g)
	res := ResolveResult{Seed: g.Seed, Order: order, Nodes: nodes}
	if s.record {
		m, err := s.builder.Record(ctx, doc, g, args.Overrides...)
		if err != nil {
			return ResolveResult{}, fmt.Errorf("record manifest: %w", err)
		}
		res.ManifestID = m.ID
	}
	return res, nil
}

func (s *Server) parse(args DocumentArgs) (*domain.Document, error) {
	data, source := []byte(args.Document), "mcp"
	switch {
	case args.Document != "" && args.Recipe != "":
		return nil, errors.New("set either document or recipe, not both")
	case args.Recipe != "":
		if s.recipes == nil {
			return nil, errors.New("no recipe catalog configured")
		}
		raw, err := s.recipes.GetDocument(args.Recipe)
		if err != nil {
			return nil, err
		}
		data, source = raw, "recipe:"+args.Recipe
	}
	return s.builder.Parse(data, source, args.Overrides...)
}

func problem(err error) *Problem {
	var be *domain.BuildError
	if !errors.As(err, &be) {
		return nil
	}
	return &Problem{
		Kind:    domain.KindName(err),
		Node:    be.Node,
		Message: be.Error(),
		Cycle:   be.Cycle,
		Line:    be.Line,
	}
}

// describe prefixes build errors with their kind so clients can branch on it.
func describe(err error) error {
	if p := problem(err); p != nil {
		return fmt.Errorf("%s: %w", p.Kind, err)
	}
	return err
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(targetsURI, "Constructible Targets",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.builder.Registry().Describe())
		if err != nil {
			return nil, fmt.Errorf("failed to describe registry: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: targetsURI, MIMEType: "application/json", Text: string(jsonBytes)},
		}, nil
	})

	if s.recipes == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(recipesURI, "Recipe Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.recipes.ListDocuments()
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: recipesURI, MIMEType: "application/json", Text: string(jsonBytes)},
		}, nil
	})
}
