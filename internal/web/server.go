package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/relicforge/internal/bank"
	"github.com/vbonduro/relicforge/internal/engine"
)

type Server struct {
	engine *engine.Engine
	admin  string
	mux    *http.ServeMux
	logger *slog.Logger
}

// NewServer builds the JSON API over the economy engine. admin is the
// account that receives fee withdrawals.
func NewServer(eng *engine.Engine, admin string, logger *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		admin:  admin,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/explore", s.handleExplore)
	s.mux.HandleFunc("POST /api/trade", s.handleTrade)
	s.mux.HandleFunc("POST /api/upgrade", s.handleUpgrade)

	s.mux.HandleFunc("GET /api/items/{id}", s.handleGetItem)
	s.mux.HandleFunc("GET /api/participants/{addr}", s.handleGetParticipant)
	s.mux.HandleFunc("GET /api/participants/{addr}/items", s.handleListParticipantItems)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/events", s.handleListEvents)

	s.mux.HandleFunc("GET /api/balances/{addr}", s.handleGetBalance)
	s.mux.HandleFunc("POST /api/deposit", s.handleDeposit)

	s.mux.HandleFunc("POST /api/admin/pause", s.handlePause)
	s.mux.HandleFunc("POST /api/admin/unpause", s.handleUnpause)
	s.mux.HandleFunc("POST /api/admin/withdraw", s.handleWithdrawFees)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps engine sentinel errors to 4xx responses with a JSON body;
// anything unrecognized is a 500 with the detail kept out of the response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, engine.ErrInvalidCaller),
		errors.Is(err, engine.ErrInvalidLevel),
		errors.Is(err, engine.ErrInvalidItemCount),
		errors.Is(err, engine.ErrInvalidRecipient),
		errors.Is(err, engine.ErrSelfTrade):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, engine.ErrInsufficientPayment),
		errors.Is(err, bank.ErrInsufficientFunds):
		status, msg = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, engine.ErrNotOwner),
		errors.Is(err, engine.ErrNotOwnerOfAll):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, engine.ErrCooldownActive),
		errors.Is(err, engine.ErrSupplyExhausted):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, engine.ErrPaused):
		status, msg = http.StatusServiceUnavailable, err.Error()
	default:
		s.logger.Error("request failed", "error", err)
	}

	s.writeJSON(w, status, map[string]string{"error": msg})
}
