package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"desknotify/internal/config"
	"desknotify/internal/logging"
	"desknotify/internal/notify"
)

// Sender delivers a notification locally. *notify.Manager implements it.
type Sender interface {
	Send(ctx context.Context, n notify.Notification) notify.Result
	BackendName() string
}

// Server accepts notifications over /ws and /notify and hands them to a
// Sender.
type Server struct {
	mux     *http.ServeMux
	sender  Sender
	version string
	log     *zerolog.Logger

	mu      sync.RWMutex
	tokens  []string
	limiter *rate.Limiter
}

// NewServer creates a relay server configured from s.
func NewServer(sender Sender, s config.RelaySettings, version string) *Server {
	srv := &Server{
		mux:     http.NewServeMux(),
		sender:  sender,
		version: version,
		log:     logging.For("relay"),
	}
	srv.Configure(s)
	srv.registerRoutes()
	return srv
}

func newLimiter(perSec float64) *rate.Limiter {
	if perSec <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSec), int(math.Max(1, math.Ceil(perSec))))
}

// Configure swaps tokens and the rate limit, e.g. after a config reload.
func (s *Server) Configure(rs config.RelaySettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append([]string(nil), rs.Tokens...)
	s.limiter = newLimiter(rs.Rate)
	s.log.Debug().Int("tokens", len(s.tokens)).Float64("rate", rs.Rate).Msg("relay configured")
}

func (s *Server) currentTokens() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

func (s *Server) allow() bool {
	s.mu.RLock()
	l := s.limiter
	s.mu.RUnlock()
	return l.Allow()
}

func (s *Server) registerRoutes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/health", s.loggingMiddleware(s.handleHealth))

	s.mux.HandleFunc("/ws", s.loggingMiddleware(s.authMiddleware(s.handleWebSocket)))
	s.mux.HandleFunc("/notify", s.loggingMiddleware(s.authMiddleware(s.jsonContentTypeMiddleware(s.handleNotify))))
}

// Handler exposes the routes, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Backend: s.sender.BackendName(),
	})
}

// handleNotify handles POST /notify with a bare notification body.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.allow() {
		s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var n notify.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if n.Title == "" {
		s.respondError(w, http.StatusBadRequest, "field 'title' is required")
		return
	}

	res := s.sender.Send(r.Context(), n)
	s.respondJSON(w, http.StatusOK, res)
}

// ListenAndServe serves on addr until ctx is cancelled. Non-loopback
// listeners are advertised over mDNS.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("relay listen: %w", err)
	}
	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}

	s.log.Info().Str("addr", ln.Addr().String()).Int("tokens", len(s.currentTokens())).Msg("relay listening")
	if host, _, err := net.SplitHostPort(addr); err == nil && !isLoopback(host) {
		stop := startMDNS(parsePort(ln.Addr().String()), s.version, s.log)
		defer stop()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("relay shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
