// Package api provides the local HTTP surface for check-ins and status
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/didyoueat/didyoueat/internal/app"
	"github.com/didyoueat/didyoueat/internal/logging"
	"github.com/didyoueat/didyoueat/internal/middleware"
)

// Server is the HTTP API server
type Server struct {
	ctl        *app.Controller
	limiter    *middleware.RateLimiter
	handler    http.Handler
	httpServer *http.Server
}

// Options configures the server
type Options struct {
	Addr string
	// RateLimit is requests per second per client; zero uses the middleware default
	RateLimit float64
}

// NewServer creates a server backed by ctl
func NewServer(ctl *app.Controller, opts Options) *Server {
	s := &Server{
		ctl:     ctl,
		limiter: middleware.NewRateLimiter(middleware.RateLimitConfig{RequestsPerSecond: opts.RateLimit}),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = withLogging(s.limiter.Middleware(mux))

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorLog:     log.New(logging.NewWriterAdapter(), "", 0),
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer returns the underlying http.Server for lifecycle management
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases background resources held by the middleware
func (s *Server) Close() {
	s.limiter.Stop()
}
