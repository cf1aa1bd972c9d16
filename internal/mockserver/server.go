package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Rorical/BooklyDesk/internal/exchange"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/models"
)

const defaultConversationID = "local-session"

// Server is a stand-in for the support assistant service. It speaks the same wire
// protocol and answers from scripted rules instead of a model.
type Server struct {
	router *chi.Mux
	rules  *Rules
	log    *log.Logger
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewServer(rules *Rules, allowedOrigin string) *Server {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router: r,
		rules:  rules,
		log:    logging.With("component", "mock-server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/chat", s.handleChat)
}

func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req exchange.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "At least one message is required.")
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != models.User.String() {
		s.writeError(w, http.StatusBadRequest, "Last message in the conversation must be from the user.")
		return
	}

	reply, rule := s.rules.Match(last.Content)
	s.log.Debug("mock reply", "rule", rule, "action", reply.Action, "messages", len(req.Messages))

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = defaultConversationID
	}

	content := reply.Text
	clarifying := reply.Clarifying
	meta := &exchange.ActionMetadata{
		Action:               reply.Action,
		IsClarifyingQuestion: &clarifying,
	}
	if reply.ToolName != "" {
		toolName := reply.ToolName
		meta.ToolName = &toolName
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(exchange.Response{
		ConversationID: conversationID,
		Message: &exchange.ReplyMessage{
			Role:    models.Assistant.String(),
			Content: &content,
		},
		ActionMetadata: meta,
	})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: msg})
}
