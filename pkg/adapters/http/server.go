package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/internal/logging"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/runner"
	"github.com/aretw0/sprig/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes an engine and its sessions over a JSON API.
type Server struct {
	Engine   ports.StatelessEngine
	Sessions *session.Manager
	Streams  *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes gatherer on GET /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// NewServer creates a server over engine, persisting through sessions.
func NewServer(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for the server.
// Requests for documented routes are validated against the embedded OpenAPI document.
func NewHandler(s *Server) (http.Handler, error) {
	validator, err := newRequestValidator(s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(validator.Middleware)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo(validator.version))
	r.Get("/tree", s.GetTree)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/answers", s.Answer)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
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
    <title>Sprig API Documentation</title>
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

// SessionView is the wire shape of a session: answers plus what to render.
type SessionView struct {
	SessionID string            `json:"session_id"`
	Revision  int               `json:"revision"`
	Answers   domain.Answers    `json:"answers"`
	Nodes     []domain.NodeView `json:"nodes"`
	Missing   []string          `json:"missing"`
	Complete  bool              `json:"complete"`
}

// AnswerRequest is the body of POST /sessions/{id}/answers.
type AnswerRequest struct {
	NodeID string `json:"node_id"`
	Option string `json:"option"`
}

// AnswerResponse carries the new view and what changed.
type AnswerResponse struct {
	Session SessionView       `json:"session"`
	Diff    *domain.StateDiff `json:"diff"`
}

// TreeResponse is the body of GET /tree.
type TreeResponse struct {
	Policy domain.Policy  `json:"policy"`
	Data   []*domain.Node `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(apiVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{
			"app":         "sprig-http",
			"version":     sprig.Version,
			"api_version": apiVersion,
		})
	}
}

// GetTree handles the GET /tree request.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	tree := s.Engine.Inspect()
	resp := TreeResponse{Data: tree.Roots()}
	if p, ok := s.Engine.(interface{ Policy() domain.Policy }); ok {
		resp.Policy = p.Policy()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
// A missing session_id gets a generated one.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeErrorStatus(w, http.StatusBadRequest, "BadRequest", "Invalid request body")
			s.logger.Warn("CreateSession: Invalid request body", "err", err)
			return
		}
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	state, err := s.Sessions.LoadOrStart(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.view(r.Context(), state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.view(r.Context(), state)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Answer handles the POST /sessions/{id}/answers request.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "BadRequest", "Invalid request body")
		s.logger.Warn("Answer: Invalid request body", "err", err)
		return
	}

	if err := runner.ValidateInput(body.Option); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "BadRequest", fmt.Sprintf("Invalid input: %v", err))
		s.logger.Warn("Answer: Input rejected", "err", err, "size", len(body.Option))
		return
	}

	var previous *domain.State
	next, err := s.Sessions.Update(r.Context(), sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		next, err := s.Engine.Answer(ctx, current, body.NodeID, body.Option)
		if err != nil {
			return nil, err
		}
		previous, err = s.Engine.Reconcile(ctx, current)
		return next, err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	diff := domain.Diff(previous, next)
	if diff != nil {
		s.logger.Debug("Answer: Diff calculated", "diff", diff, "session_id", sessionID)
		s.Streams.Broadcast(sessionID, diff)
	}

	view, err := s.view(r.Context(), next)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, AnswerResponse{Session: view, Diff: diff})
}

func (s *Server) view(ctx context.Context, state *domain.State) (SessionView, error) {
	rich, err := runner.Render(ctx, s.Engine, state)
	if err != nil {
		return SessionView{}, err
	}
	missing := rich.Missing
	if missing == nil {
		missing = []string{}
	}
	return SessionView{
		SessionID: rich.State.SessionID,
		Revision:  rich.State.Revision,
		Answers:   rich.State.Answers,
		Nodes:     domain.Views(rich.Nodes),
		Missing:   missing,
		Complete:  len(missing) == 0,
	}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, code, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeError maps engine and store errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeErrorStatus(w, http.StatusNotFound, "SessionNotFound", err.Error())
	case errors.Is(err, domain.ErrUnknownNode):
		s.writeErrorStatus(w, http.StatusUnprocessableEntity, "UnknownNode", err.Error())
	case errors.Is(err, domain.ErrInvalidOption):
		s.writeErrorStatus(w, http.StatusUnprocessableEntity, "InvalidOption", err.Error())
	case errors.Is(err, domain.ErrHiddenNode):
		s.writeErrorStatus(w, http.StatusUnprocessableEntity, "HiddenNode", err.Error())
	default:
		s.logger.Error("Request failed", "err", err)
		s.writeErrorStatus(w, http.StatusInternalServerError, "Internal", err.Error())
	}
}
