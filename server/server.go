// Package server exposes a registry over a small JSON HTTP API.
//
//	GET    /health
//	GET    /v1/tables
//	GET    /v1/tables/{name}
//	PUT    /v1/tables/{name}?force=true
//	DELETE /v1/tables/{name}
//	POST   /v1/parse           {"table", "input"}
//	POST   /v1/convert         {"table", "input", "unit"}
//	POST   /v1/convert/batch   {"table", "unit", "inputs"}
//	GET    /v1/find?table=&unit=
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smuchow1962/conversion-table-manager/db"
	"github.com/smuchow1962/conversion-table-manager/errors"
	"github.com/smuchow1962/conversion-table-manager/logger"
	"github.com/smuchow1962/conversion-table-manager/registry"
)

const (
	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 5 * time.Second

	maxBodyBytes = 1 << 20
	maxBatchSize = 1000
)

// Options configures a Server
type Options struct {
	// Store persists tables registered over HTTP; nil keeps them in memory
	Store *db.TableStore
	// RateLimit is requests per second across all clients; 0 disables limiting
	RateLimit float64
	Burst     int
	Logger    *zap.SugaredLogger
}

// Server serves conversions from a registry
type Server struct {
	registry *registry.Registry
	store    *db.TableStore
	limiter  *rate.Limiter
	logger   *zap.SugaredLogger
	handler  http.Handler
}

// New creates a server over reg
func New(reg *registry.Registry, opts Options) *Server {
	s := &Server{
		registry: reg,
		store:    opts.Store,
		logger:   logger.OrNop(opts.Logger),
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /v1/tables", s.HandleListTables)
	mux.HandleFunc("GET /v1/tables/{name}", s.HandleGetTable)
	mux.HandleFunc("PUT /v1/tables/{name}", s.HandlePutTable)
	mux.HandleFunc("DELETE /v1/tables/{name}", s.HandleDeleteTable)
	mux.HandleFunc("POST /v1/parse", s.HandleParse)
	mux.HandleFunc("POST /v1/convert", s.HandleConvert)
	mux.HandleFunc("POST /v1/convert/batch", s.HandleConvertBatch)
	mux.HandleFunc("GET /v1/find", s.HandleFind)

	return s.requestLogging(s.rateLimit(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Server listening", logger.FieldAddress, ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "server failed")

	case <-ctx.Done():
		s.logger.Infow("Initiating server shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "graceful shutdown failed")
		}
		s.logger.Infow("Server shutdown complete")
		return nil
	}
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
