package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nicl-arrears/internal/addrsplit"
	"github.com/nicl-arrears/internal/letters"
	"github.com/nicl-arrears/internal/web/handlers"
	"github.com/nicl-arrears/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	opts       letters.Options
	store      handlers.LetterLister
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	registry   *prometheus.Registry
}

// NewServer creates a new web server instance. store may be nil, in which
// case the batch routes are not registered.
func NewServer(config *Config, opts letters.Options, store handlers.LetterLister) *Server {
	if opts.Segmenter == nil {
		opts.Segmenter = addrsplit.New()
	}
	server := &Server{
		config:   config,
		opts:     opts,
		store:    store,
		registry: prometheus.NewRegistry(),
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	httpMetrics := middleware.NewHTTPMetrics(s.registry)
	splits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arrears_addresses_split_total",
		Help: "Addresses segmented through the API.",
	})
	s.registry.MustRegister(splits)

	addressHandler := &handlers.AddressHandler{Segmenter: s.opts.Segmenter, Splits: splits}
	lettersHandler := &handlers.LettersHandler{Options: s.opts, Store: s.store}

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/address/split", addressHandler.Split).Methods("GET")
	api.HandleFunc("/address/split", addressHandler.SplitBatch).Methods("POST")
	api.HandleFunc("/gazetteer", addressHandler.Gazetteer).Methods("GET")

	api.HandleFunc("/letters/prepare", lettersHandler.Prepare).Methods("POST")

	if s.store != nil {
		api.HandleFunc("/batches/{id:[0-9]+}/letters", lettersHandler.ListBatch).Methods("GET")
		if s.config.Features.ExportEnabled {
			api.HandleFunc("/batches/{id:[0-9]+}/export", lettersHandler.ExportBatch).Methods("GET")
		}
	}

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	}).Methods("GET")

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods("GET")

	s.router.Use(httpMetrics.Middleware())
	api.Use(middleware.Authentication(s.config.Auth.APIKey))

	// Wrapped outside the router so preflights and unmatched paths get them too
	s.handler = middleware.CORS(s.config.Server.AllowedOrigin)(
		middleware.RequestLogging()(s.router))
}

// Start runs the server until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
