package tap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/slotwire/slotwire/pkg/logger"
	"github.com/slotwire/slotwire/pkg/version"
)

const (
	defaultMaxConnections = 100
	defaultEventBuffer    = 64
	defaultPingInterval   = 30 * time.Second
	defaultWriteTimeout   = 10 * time.Second
)

// ServerConfig configures the websocket tap server.
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	MaxConnections int
	EventBuffer    int

	// RateLimit caps events/second per client; 0 disables limiting.
	// Over-rate events are dropped for that client, never queued.
	RateLimit float64
	RateBurst int

	PingInterval time.Duration
	WriteTimeout time.Duration
}

func (c *ServerConfig) fillDefaults() {
	if c.MaxConnections <= 0 {
		c.MaxConnections = defaultMaxConnections
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = defaultEventBuffer
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = int(c.RateLimit)
		if c.RateBurst < 1 {
			c.RateBurst = 1
		}
	}
}

// Server exposes a broadcaster's events over websocket.
type Server struct {
	cfg ServerConfig
	b   *Broadcaster
	log logger.Logger

	mu      sync.Mutex
	clients int
}

// NewServer creates a tap server for the given broadcaster.
func NewServer(cfg ServerConfig, b *Broadcaster, log logger.Logger) *Server {
	cfg.fillDefaults()
	if log == nil {
		log = logger.Global()
	}
	return &Server{
		cfg: cfg,
		b:   b,
		log: log.With("component", "tap"),
	}
}

// Router builds the tap HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWS)
	return r
}

// Start runs the tap server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("tap server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","version":%q,"subscribers":%d}`,
		version.Version, s.b.SubscriberCount())
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) acquireSlot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients >= s.cfg.MaxConnections {
		return false
	}
	s.clients++
	return true
}

func (s *Server) releaseSlot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients--
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.acquireSlot() {
		http.Error(w, "connection limit reached", http.StatusServiceUnavailable)
		return
	}
	defer s.releaseSlot()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()
	log := s.log.With("client_id", clientID, "remote", r.RemoteAddr)
	log.Info("tap client connected")
	defer log.Info("tap client disconnected")

	events := s.b.Subscribe(s.cfg.EventBuffer)
	defer s.b.Unsubscribe(events)

	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
	}

	// Reader pump: the tap is one-way, but we must drain control frames
	// and notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pinger := time.NewTicker(s.cfg.PingInterval)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			return

		case <-r.Context().Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if limiter != nil && !limiter.Allow() {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug("tap write failed", "error", err)
				return
			}

		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
