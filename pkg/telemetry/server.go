package telemetry

import (
	"context"
	stdliberrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/odvcencio/trellis/pkg/errors"
	"github.com/odvcencio/trellis/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// MetricsServer exposes a registry at /metrics for scraping.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *logging.Logger
}

// ListenMetrics binds addr and prepares the scrape endpoint over g.
func ListenMetrics(addr string, g prometheus.Gatherer, logger *logging.Logger) (*MetricsServer, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBackendIO, "listen for metrics").
			WithContext("addr", addr)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}).ServeHTTP)

	return &MetricsServer{
		srv: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger.WithComponent("metrics"),
	}, nil
}

// Addr returns the bound address.
func (s *MetricsServer) Addr() string {
	return s.ln.Addr().String()
}

// Serve answers scrapes until ctx is done, then shuts the server down.
func (s *MetricsServer) Serve(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("serving metrics", "addr", s.Addr())
		if err := s.srv.Serve(s.ln); err != nil && !stdliberrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return errors.Wrap(err, errors.ErrCodeBackendIO, "serve metrics")
	}
}
