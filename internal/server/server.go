// Package server exposes one analysis session over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/buildinfo"
	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/logger"
	"github.com/cleared-dev/finstat/internal/period"
	"github.com/cleared-dev/finstat/internal/pipeline"
	"github.com/cleared-dev/finstat/internal/report"
)

// MaxUploadBytes caps an uploaded spreadsheet.
const MaxUploadBytes = 20 << 20

// Server wires the session and assistant to HTTP handlers.
type Server struct {
	session   *pipeline.Session
	assistant *assistant.Assistant
	format    format.Formatter
	origins   []string
}

// New returns a Server. asst may be nil when no model is configured; chat and
// summary then answer 503.
func New(session *pipeline.Session, asst *assistant.Assistant, f format.Formatter, allowedOrigins []string) *Server {
	return &Server{session: session, assistant: asst, format: f, origins: allowedOrigins}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Post("/upload", s.upload)
		r.Get("/analysis", s.analysis)
		r.Get("/chat", s.chatHistory)
		r.Post("/chat", s.chat)
		r.Get("/summary", s.summary)
		r.Get("/report", s.report)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Version,
		"ready":   s.session.Current().Ready(),
	})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	sc, err := s.session.Upload(header.Filename, data)
	if err != nil {
		var ce *period.CountError
		if errors.As(err, &ce) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    ce.Error(),
				"found":    ce.Found,
				"required": ce.Required,
			})
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnalysisResponse(sc, s.format))
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.ready(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newAnalysisResponse(sc, s.format))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string              `json:"reply,omitempty"`
	Messages []assistant.Message `json:"messages"`
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentChat(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Messages: c.Messages()})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	c, ok := s.currentChat(w)
	if !ok {
		return
	}
	reply, err := c.Send(r.Context(), req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Messages: c.Messages()})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	if !s.hasAssistant(w) {
		return
	}
	sc, ok := s.ready(w)
	if !ok {
		return
	}
	text, err := s.assistant.Summarize(r.Context(), sc)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.ready(w)
	if !ok {
		return
	}
	summary := ""
	if r.URL.Query().Get("summary") == "true" {
		if !s.hasAssistant(w) {
			return
		}
		text, err := s.assistant.Summarize(r.Context(), sc)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		summary = text
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.WriteHTML(w, sc, s.format, summary, time.Now()); err != nil {
		logger.L.Error("writing report", "error", err)
	}
}

func (s *Server) ready(w http.ResponseWriter) (pipeline.SessionContext, bool) {
	sc := s.session.Current()
	if !sc.Ready() {
		writeError(w, http.StatusConflict, assistant.ErrNotReady)
		return sc, false
	}
	return sc, true
}

func (s *Server) hasAssistant(w http.ResponseWriter) bool {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("assistant not configured; set the model API key"))
		return false
	}
	return true
}

func (s *Server) currentChat(w http.ResponseWriter) (*assistant.Chat, bool) {
	if !s.hasAssistant(w) {
		return nil, false
	}
	sc, ok := s.ready(w)
	if !ok {
		return nil, false
	}
	c, err := s.assistant.ChatFor(sc)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return nil, false
	}
	return c, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.L.LogAttrs(r.Context(), slog.LevelInfo, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}
