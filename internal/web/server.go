// Package web serves the words feed and a card preview API over HTTP.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"flashcards/internal/config"
	"flashcards/internal/domain"
	"flashcards/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server is the HTTP side of the bot: it hosts words.json for the bot and
// the mini-app, the images, and a random card endpoint
type Server struct {
	cfg     config.HTTPConfig
	preview *service.Session
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a new server. preview backs /api/card.
func NewServer(cfg config.HTTPConfig, preview *service.Session, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		preview: preview,
		logger:  logger,
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)
	r.Use(chimiddleware.Recoverer)

	r.Get("/words.json", s.handleWords)
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.cfg.ImagesDir))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/card", s.handleCard)
		r.Post("/reload", s.handleReload)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleWords serves the words file uncached
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cfg.WordsFile); err != nil {
		s.logger.Warn("Words file unavailable", zap.String("path", s.cfg.WordsFile), zap.Error(err))
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, s.cfg.WordsFile)
}

// handleCard draws a random card; ?revealed=true includes the word
func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	revealed, _ := strconv.ParseBool(r.URL.Query().Get("revealed"))

	if !s.preview.HasRecords() {
		s.preview.Load(r.Context())
	}

	card, err := s.preview.Draw(revealed)
	if errors.Is(err, domain.ErrNoWords) {
		respondJSON(w, http.StatusServiceUnavailable, card)
		return
	}
	if !revealed {
		card = hideWord(card)
	}

	respondJSON(w, http.StatusOK, card)
}

// handleReload refetches the word list behind /api/card
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	count := s.preview.Load(r.Context())
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// hideWord blanks the slots a hidden card must not leak
func hideWord(card domain.Card) domain.Card {
	card.Word = ""
	card.Transcription = ""
	return card
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
