package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/cleverdevil/pseudonym/internal/mention"
	"github.com/cleverdevil/pseudonym/internal/model"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is told to stop.
const shutdownTimeout = 10 * time.Second

// Resolver resolves identities for URLs and domains.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string, force bool) (*model.Identity, error)
	ResolveDomain(ctx context.Context, rawDomain string, force bool) (*model.Identity, error)
}

// Transformer expands mention markers into per-platform content variants.
type Transformer interface {
	Transform(ctx context.Context, content string) map[string]mention.Variant
}

// Searcher runs full-text searches over stored identity records.
type Searcher interface {
	Search(ctx context.Context, term string) ([]*model.Record, error)
}

// Server is the HTTP boundary of the pseudonym service.
type Server struct {
	http        *http.Server
	logger      *slog.Logger
	resolver    Resolver
	transformer Transformer
	searcher    Searcher
}

// New wires the routes and returns a Server listening on addr once Run is
// called.
func New(addr string, resolver Resolver, transformer Transformer, searcher Searcher, logger *slog.Logger) *Server {
	s := &Server{
		logger:      logger,
		resolver:    resolver,
		transformer: transformer,
		searcher:    searcher,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the configured router. Exposed for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recovery(s.logger))
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.Get("/identity", s.handleIdentity)
	r.Get("/domains/{domain}", s.handleDomain)
	r.Get("/domains/{domain}/{platform}", s.handleDomainPlatform)
	r.Get("/search/{term}", s.handleSearch)
	r.Post("/content", s.handleTransform)
	r.Get("/content/format", s.handleTransformQuery)

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("http server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
