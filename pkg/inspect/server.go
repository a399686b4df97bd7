package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/weft/pkg/dom"
	"github.com/vango-dev/weft/pkg/node"
	"github.com/vango-dev/weft/pkg/snapshot"
)

// Server is the inspector HTTP handler.
type Server struct {
	b        *node.Builder
	hub      *Hub
	gatherer prometheus.Gatherer
	lock     sync.Locker
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHub sets the hub served on /events. Without it New creates one
// that only accepts same-host connections.
func WithHub(h *Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithGatherer sets the registry served on /metrics
// (default: prometheus.DefaultGatherer).
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLock sets the lock held while the tree is read.
func WithLock(l sync.Locker) Option {
	return func(s *Server) { s.lock = l }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// New creates the inspector for b.
func New(b *node.Builder, opts ...Option) *Server {
	s := &Server{
		b:        b,
		gatherer: prometheus.DefaultGatherer,
		lock:     noLock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewHub(nil, s.logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/tree", s.handleTree)
	r.Get("/tree.html", s.handleHTML)
	r.Get("/nodes/{id}", s.handleNode)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/events", s.hub.HandleWebSocket)

	s.router = r
	return s
}

// Hub returns the event hub.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) capture() *snapshot.Document {
	s.lock.Lock()
	defer s.lock.Unlock()
	return snapshot.Capture(s.b)
}

func (s *Server) handleTree(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.capture())
}

func (s *Server) handleHTML(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	html := dom.HTML(s.b.Root().Element())
	s.lock.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid node id", http.StatusBadRequest)
		return
	}
	entry, ok := s.capture().Root.Find(id)
	if !ok {
		http.Error(w, "node not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("inspect: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
