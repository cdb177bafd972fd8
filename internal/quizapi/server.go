// Package quizapi serves quizzes over HTTP in the shape the game fetches
// them, so play-by-code works without the real backend.
package quizapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/storage"
)

// ResultsReader is the part of the result store the API exposes.
type ResultsReader interface {
	TopResults(quizID string, limit int) ([]storage.Result, error)
}

// Handler serves quiz files named <game code>.json or <game code>.yaml.
type Handler struct {
	quizzes fs.FS
	results ResultsReader
	logger  *log.Logger
}

// NewHandler creates a handler over a quiz filesystem. results may be nil.
func NewHandler(quizzes fs.FS, results ResultsReader, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{quizzes: quizzes, results: results, logger: logger}
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Route("/api/quizzes/game/{gameCode}", func(r chi.Router) {
		r.Get("/", h.quizByCode)
		r.Get("/results", h.resultsByCode)
	})
}

// NewRouter builds the router with the standard middleware stack.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	h.RegisterRoutes(r)
	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) quizByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "gameCode")
	if !quiz.ValidGameCode(code) {
		writeError(w, http.StatusBadRequest, quiz.ErrInvalidGameCode.Error())
		return
	}

	q, err := h.load(r, code)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	case err != nil:
		h.logger.Error("cannot load quiz", "code", code, "err", err)
		writeError(w, http.StatusInternalServerError, "quiz is invalid")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) resultsByCode(w http.ResponseWriter, r *http.Request) {
	if h.results == nil {
		writeError(w, http.StatusNotFound, "results are not recorded")
		return
	}
	code := chi.URLParam(r, "gameCode")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.results.TopResults(code, limit)
	if err != nil {
		h.logger.Error("cannot read results", "code", code, "err", err)
		writeError(w, http.StatusInternalServerError, "cannot read results")
		return
	}

	out := make([]resultJSON, 0, len(results))
	for _, res := range results {
		out = append(out, resultJSON{
			Player:    res.Player,
			Points:    res.Points,
			Answered:  res.Answered,
			Total:     res.Total,
			Completed: res.Completed,
			PlayedAt:  res.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type resultJSON struct {
	Player    string    `json:"player,omitempty"`
	Points    int       `json:"points"`
	Answered  int       `json:"answered"`
	Total     int       `json:"total"`
	Completed bool      `json:"completed"`
	PlayedAt  time.Time `json:"played_at"`
}

// load tries every supported extension for code.
func (h *Handler) load(r *http.Request, code string) (*quiz.Quiz, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		q, err := quiz.FSSource{FS: h.quizzes, Name: code + ext}.Load(r.Context())
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return q, err
	}
	return nil, fs.ErrNotExist
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs one line per request through the structured logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
