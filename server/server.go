// Package server is the HTTP front door: a chi router exposing the streaming
// chat endpoint, the feedback sink and a minimal self-description. Responses
// on the chat endpoint are newline-delimited JSON flushed per event.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hupe1980/agentforge/agent"
	"github.com/hupe1980/agentforge/core"
	"github.com/hupe1980/agentforge/logging"
)

const docsText = `agentforge API

POST /chats     stream a chat completion (ndjson)
POST /feedback  record user feedback on a run
GET  /docs      this document
`

// Server hosts the HTTP API for a single agent manager.
type Server struct {
	mgr         agent.Manager
	addr        string
	frontendURL string
	logger      logging.Logger

	httpServer *http.Server
}

// Options configure the server.
type Options struct {
	// Addr to listen on (default: :8000).
	Addr string
	// FrontendURL is the only origin allowed by CORS
	// (default: http://localhost:4200).
	FrontendURL string
	// Logger for request diagnostics and feedback records.
	Logger logging.Logger
}

// New creates a Server for the given manager.
func New(mgr agent.Manager, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:        ":8000",
		FrontendURL: "http://localhost:4200",
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Server{
		mgr:         mgr,
		addr:        opts.Addr,
		frontendURL: opts.FrontendURL,
		logger:      opts.Logger,
	}
}

// Router builds the HTTP handler. Exposed separately from Start so tests can
// drive it with httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.frontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
	})
	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(docsText))
	})

	r.Post("/chats", s.handleChats)
	r.Post("/feedback", s.handleFeedback)

	return r
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server.listening", "addr", s.addr, "frontend_url", s.frontendURL)

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// handleChats streams agent output as ndjson. The first line is always a
// metadata event carrying the run id; the last line is always an end marker.
// Errors after the stream has started are sent in-band as error events.
func (s *Server) handleChats(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input, err := req.Input.Input.toChatInput()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)

	writeEvent := func(ev core.StreamEvent) {
		if err := enc.Encode(ev); err != nil {
			s.logger.Warn("server.chats.write_failed", "error", err.Error())
			return
		}
		flusher.Flush()
	}

	runID := core.NewID()

	s.logger.Info("server.chats.start",
		"run_id", runID,
		"user_id", input.UserID,
		"session_id", input.SessionID,
		"messages", len(input.Messages),
	)

	writeEvent(core.NewMetadataEvent(runID))

	ctx := r.Context()

	eventCh, errCh := s.mgr.StreamQuery(ctx, input)

	for ev := range eventCh {
		writeEvent(ev)
	}

	if err, ok := <-errCh; ok && err != nil {
		// Stream already started; surface the failure in-band.
		s.logger.Error("server.chats.stream_failed", "run_id", runID, "error", err.Error())
		writeEvent(core.NewErrorEvent(err))
	}

	writeEvent(core.NewEndEvent())

	s.logger.Info("server.chats.end", "run_id", runID)
}

// handleFeedback records a feedback payload as a structured log entry. There
// is no persistence beyond the log sink.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.LogType == "" {
		req.LogType = "feedback"
	}

	s.logger.Info("server.feedback",
		"log_type", req.LogType,
		"run_id", req.RunID,
		"score", req.Score,
		"text", req.Text,
	)

	w.WriteHeader(http.StatusNoContent)
}
