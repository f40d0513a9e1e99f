package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citygreen/mastersbot/core/logger"
)

// Pinger reports backend health; *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes /metrics and /healthz.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// NewHandler builds the HTTP mux. A nil pinger makes /healthz always succeed.
func NewHandler(health Pinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health.PingContext(ctx); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start binds addr and serves in the background.
func Start(addr string, health Pinger) (*Server, error) {
	MustRegister()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv: &http.Server{Handler: NewHandler(health), ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Metrics.Error("metrics listener stopped",
				slog.String("event", "serve"),
				slog.String("err", err.Error()),
			)
		}
	}()
	logger.Metrics.Info("metrics listening",
		slog.String("event", "listen"),
		slog.String("listen", ln.Addr().String()),
	)
	return s, nil
}

func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown stops the listener, waiting for in-flight scrapes up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
