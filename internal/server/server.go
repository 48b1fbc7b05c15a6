package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/artifacts"
	"github.com/Vebhav1052/data-analysis-portfolio-project/internal/store"
)

// RunFunc triggers a pipeline run and returns its run ID. Injected by the
// entry point so the dashboard can serve without owning the pipeline.
type RunFunc func(ctx context.Context) (string, error)

// Config holds configuration for the dashboard server
type Config struct {
	Host string
	Port int
}

// Server serves pipeline artifacts over HTTP. It is a read-only consumer:
// every response comes from a persisted artifact or the store, never from a
// re-derivation.
type Server struct {
	config Config
	reader *artifacts.Reader
	store  *store.Store // may be nil
	run    RunFunc      // may be nil
	router *mux.Router
}

// NewServer creates a dashboard server over an artifact directory. The store
// and run trigger are optional.
func NewServer(config Config, reader *artifacts.Reader, st *store.Store, run RunFunc) *Server {
	s := &Server{
		config: config,
		reader: reader,
		store:  st,
		run:    run,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.healthHandler).Methods("GET")
	s.router.HandleFunc("/api/summary", s.summaryHandler).Methods("GET")
	s.router.HandleFunc("/api/cleaning-report", s.reportHandler).Methods("GET")
	s.router.HandleFunc("/api/segments", s.segmentsHandler).Methods("GET")
	s.router.HandleFunc("/api/revenue/monthly", s.monthlyHandler).Methods("GET")
	s.router.HandleFunc("/api/revenue/countries", s.countriesHandler).Methods("GET")
	s.router.HandleFunc("/api/products/abc", s.productsHandler).Methods("GET")
	s.router.HandleFunc("/api/preview/cleaned", s.previewHandler).Methods("GET")
	s.router.HandleFunc("/api/customers/top", s.topCustomersHandler).Methods("GET")
	s.router.HandleFunc("/api/run", s.runHandler).Methods("POST")
}

// Handler returns the router wrapped with CORS, for serving and for tests.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting dashboard server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	log.Println("Server gracefully stopped")
	return nil
}

// Helper function to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error marshaling JSON"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper function to respond with error
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
