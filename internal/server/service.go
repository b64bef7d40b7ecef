package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/export"
	"github.com/joseph-ayodele/condo-contacts/internal/pipeline"
	"github.com/joseph-ayodele/condo-contacts/internal/repository"
	"github.com/joseph-ayodele/condo-contacts/internal/unitkey"
)

// Deps are the collaborators of the HTTP surface. Condominiums and DB may be nil.
type Deps struct {
	Pipeline     *pipeline.Pipeline
	Condominiums repository.CondominiumRepository
	DB           *repository.DB
	Export       *export.Service
	Config       common.ServerConfig
	Formatting   unitkey.FormattingOptions
	Logger       *slog.Logger
}

// Server serves the charges, contacts, registry and health routes.
type Server struct {
	pipe         *pipeline.Pipeline
	condominiums repository.CondominiumRepository
	db           *repository.DB
	export       *export.Service
	cfg          common.ServerConfig
	formatting   unitkey.FormattingOptions
	logger       *slog.Logger
	started      time.Time

	router *http.ServeMux
	server *http.Server
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Export == nil {
		d.Export = export.NewService(d.Logger)
	}
	if d.Config.MaxUploadMB <= 0 {
		d.Config.MaxUploadMB = 20
	}
	s := &Server{
		pipe:         d.Pipeline,
		condominiums: d.Condominiums,
		db:           d.DB,
		export:       d.Export,
		cfg:          d.Config,
		formatting:   d.Formatting,
		logger:       d.Logger,
		started:      time.Now(),
	}
	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:              d.Config.HTTPAddr,
		Handler:           s.withMiddleware(s.router),
		ReadHeaderTimeout: 15 * time.Second,
		// oracle extraction of large documents can take minutes
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http.server.start", "addr", s.server.Addr, "oracle", s.pipe.OracleEnabled())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http.server.shutdown")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /cobrancas/{vendor}", s.handleCharges)
	mux.HandleFunc("POST /contatos/{vendor}", s.handleContacts)
	mux.HandleFunc("POST /oracle/{vendor}", s.handleOracle)

	mux.HandleFunc("POST /condominiums", s.handleCreateCondominium)
	mux.HandleFunc("GET /condominiums", s.handleListCondominiums)
	mux.HandleFunc("GET /condominiums/{id}", s.handleGetCondominium)
	mux.HandleFunc("PATCH /condominiums/{id}", s.handleUpdateCondominium)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metricsHandler())
	return mux
}
