package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/internal/logging"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/runner"
	"github.com/aretw0/sprig/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TreeURI is the resource exposing the Question Tree.
const TreeURI = "sprig://tree"

// FormResponse gives an agent everything it needs to keep filling in a form.
type FormResponse struct {
	SessionID string            `json:"session_id" jsonschema_description:"The form session"`
	Revision  int               `json:"revision" jsonschema_description:"Number of accepted answers so far"`
	Answers   map[string]string `json:"answers" jsonschema_description:"Node id to chosen option"`
	Nodes     []domain.NodeView `json:"nodes" jsonschema_description:"Visible nodes in display order"`
	Missing   []string          `json:"missing" jsonschema_description:"Visible required nodes still unanswered"`
	Complete  bool              `json:"complete" jsonschema_description:"True when nothing required is missing"`
	Cleared   []string          `json:"cleared,omitempty" jsonschema_description:"Answers removed by the last action"`
}

// RenderArgs are the arguments of the render_form tool.
type RenderArgs struct {
	SessionID string `json:"session_id"`
}

// AnswerArgs are the arguments of the answer tool.
type AnswerArgs struct {
	SessionID string `json:"session_id"`
	NodeID    string `json:"node_id"`
	Option    string `json:"option"`
}

// Server wraps the Sprig Engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.StatelessEngine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("sprig-mcp", sprig.Version),
		logger:    logging.NewNop(),
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

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
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
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	renderTool := mcp.NewTool("render_form",
		mcp.WithDescription("Show the visible questions of a form session, creating the session if it does not exist."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Form session identifier")),
		mcp.WithOutputSchema[FormResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	answerTool := mcp.NewTool("answer",
		mcp.WithDescription("Choose an option for a visible question. Answers below that question are cleared."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Form session identifier")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Question being answered")),
		mcp.WithString("option", mcp.Required(), mcp.Description("One of the question's options, verbatim")),
		mcp.WithOutputSchema[FormResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleAnswer))

	s.mcpServer.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Get the full question tree for introspection."),
	), s.handleGetTree)
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args RenderArgs) (FormResponse, error) {
	if args.SessionID == "" {
		return FormResponse{}, errors.New("session_id is required")
	}
	state, err := s.sessions.LoadOrStart(ctx, args.SessionID)
	if err != nil {
		return FormResponse{}, fmt.Errorf("load session: %w", err)
	}
	return s.form(ctx, state)
}

func (s *Server) handleAnswer(ctx context.Context, request mcp.CallToolRequest, args AnswerArgs) (FormResponse, error) {
	if args.SessionID == "" {
		return FormResponse{}, errors.New("session_id is required")
	}
	if err := runner.ValidateInput(args.Option); err != nil {
		s.logger.Warn("MCP Answer: Input rejected", "err", err, "size", len(args.Option))
		return FormResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	if _, err := s.sessions.LoadOrStart(ctx, args.SessionID); err != nil {
		return FormResponse{}, fmt.Errorf("load session: %w", err)
	}

	var rich *runner.RichResponse
	if _, err := s.sessions.Update(ctx, args.SessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		var err error
		rich, err = runner.AnswerAndRender(ctx, s.engine, current, args.NodeID, args.Option)
		if err != nil {
			return nil, err
		}
		return rich.State, nil
	}); err != nil {
		return FormResponse{}, fmt.Errorf("answer rejected: %w", err)
	}

	var cleared []string
	if rich.Diff != nil {
		cleared = rich.Diff.Cleared
	}
	return newFormResponse(rich, cleared), nil
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.treeJSON()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) form(ctx context.Context, state *domain.State) (FormResponse, error) {
	rich, err := runner.Render(ctx, s.engine, state)
	if err != nil {
		return FormResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return newFormResponse(rich, nil), nil
}

func newFormResponse(rich *runner.RichResponse, cleared []string) FormResponse {
	missing := rich.Missing
	if missing == nil {
		missing = []string{}
	}
	return FormResponse{
		SessionID: rich.State.SessionID,
		Revision:  rich.State.Revision,
		Answers:   rich.State.Answers.Clone(),
		Nodes:     domain.Views(rich.Nodes),
		Missing:   missing,
		Complete:  len(missing) == 0,
		Cleared:   cleared,
	}
}

func (s *Server) treeJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"data": s.engine.Inspect().Roots()})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(TreeURI, "Current Question Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := s.treeJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect tree: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      TreeURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
