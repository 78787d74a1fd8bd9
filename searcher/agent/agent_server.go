package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"chessmcts/game"
	"chessmcts/searcher"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Longest search a single request may ask for
const MaxBudget = 30 * time.Second

type findMoveRequest struct {
	FEN         string  `json:"fen"`
	BudgetMs    int     `json:"budget_ms,omitempty"`
	Exploration float64 `json:"exploration,omitempty"`
}

type findMoveResponse struct {
	Move     string `json:"move"`
	SAN      string `json:"san"`
	Episodes int    `json:"episodes"`
	Fallback bool   `json:"fallback"`
}

// Server recommends chess moves over HTTP. Every request gets its own searcher
// since a searcher is not safe for concurrent use.
type Server struct {
	options []searcher.Option
}

// NewServer returns a server whose searches use options, overridden per request
// by the requested budget and exploration constant.
func NewServer(options ...searcher.Option) *Server {
	return &Server{options: options}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Post("/findmove", s.handleFindMove)
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("agent server listening on %s", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), MaxBudget)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request: " + err.Error()})
		return
	}
	state, err := game.NewChess(payload.FEN)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	options := append([]searcher.Option{}, s.options...)
	if payload.BudgetMs > 0 {
		budget := min(time.Duration(payload.BudgetMs)*time.Millisecond, MaxBudget)
		options = append(options, searcher.WithDuration(budget))
	}
	options = append(options, searcher.WithExploration(payload.Exploration), searcher.WithMetrics())

	result, err := searcher.NewMCTS(options...).Search(r.Context(), state)
	if errors.Is(err, searcher.ErrTerminalPosition) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	san, err := state.SAN(result.Move)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log.Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("move", string(result.Move)).
		Int("episodes", result.Metric.Episodes).
		Dur("duration", result.Metric.Duration).
		Msgf("found move for %s", payload.FEN)

	writeJSON(w, http.StatusOK, findMoveResponse{
		Move:     string(result.Move),
		SAN:      san,
		Episodes: result.Metric.Episodes,
		Fallback: result.Fallback,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
