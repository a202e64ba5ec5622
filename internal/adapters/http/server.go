// Package http exposes conversations, tools and evaluations over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/evaluation"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EvaluatorFactory builds an evaluator bound to a fresh agent, so concurrent
// evaluation requests never share conversation state.
type EvaluatorFactory func() (*evaluation.Evaluator, error)

// Server routes API requests to the session manager and evaluators.
type Server struct {
	sessions  *session.Manager
	tools     []domain.Tool
	evaluator EvaluatorFactory
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithEvaluatorFactory enables the POST /evaluations endpoint.
func WithEvaluatorFactory(factory EvaluatorFactory) Option {
	return func(s *Server) {
		s.evaluator = factory
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler. The tool list is a static snapshot
// taken at construction.
func NewHandler(sessions *session.Manager, tools []domain.Tool, opts ...Option) http.Handler {
	s := &Server{
		sessions: sessions,
		tools:    tools,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.Health)
	r.Get("/tools", s.ListTools)
	r.Post("/chat", s.Chat)
	r.Get("/conversations/{conversationID}", s.GetConversation)
	r.Delete("/conversations/{conversationID}", s.DeleteConversation)
	r.Post("/evaluations", s.Evaluate)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ChatRequest is the POST /chat request body. ConversationID is optional; a
// new conversation is created when it is empty.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// ChatResponse is the POST /chat response body.
type ChatResponse struct {
	ConversationID string            `json:"conversation_id"`
	Response       string            `json:"response"`
	ToolCalls      []domain.ToolCall `json:"tool_calls,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTools handles GET /tools. Handlers are never serialized.
func (s *Server) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tools)
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	conversationID := body.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	response, err := s.sessions.Chat(r.Context(), conversationID, body.Message)
	if err != nil {
		s.writeChatError(w, conversationID, err)
		return
	}

	var calls []domain.ToolCall
	if agent, err := s.sessions.Agent(conversationID); err == nil {
		calls = agent.LastToolCalls()
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID: conversationID,
		Response:       response,
		ToolCalls:      calls,
	})
}

// GetConversation handles GET /conversations/{conversationID}.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	items, err := s.sessions.History(conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			http.Error(w, "Conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"items":           items,
	})
}

// DeleteConversation handles DELETE /conversations/{conversationID}.
func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := s.sessions.Delete(r.Context(), conversationID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EvaluateRequest is the POST /evaluations request body. With no cases, the
// built-in sample set is used.
type EvaluateRequest struct {
	Cases []domain.TestCase `json:"test_cases,omitempty"`
}

// Evaluate handles POST /evaluations.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	if s.evaluator == nil {
		http.Error(w, "Evaluation not configured", http.StatusNotImplemented)
		return
	}

	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	cases := body.Cases
	if len(cases) == 0 {
		cases = evaluation.SampleCases()
	}

	ev, err := s.evaluator()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	batch, err := ev.EvaluateBatch(r.Context(), cases)
	if err != nil {
		s.logger.Error("evaluation failed", "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) writeChatError(w http.ResponseWriter, conversationID string, err error) {
	s.logger.Error("chat failed", "conversation_id", conversationID, "err", err)

	var backendErr *domain.BackendError
	switch {
	case errors.Is(err, domain.ErrBackendUnavailable):
		http.Error(w, "Model backend unavailable", http.StatusServiceUnavailable)
	case errors.As(err, &backendErr):
		http.Error(w, backendErr.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled):
		// Client went away; status code is moot.
		http.Error(w, "Request canceled", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
