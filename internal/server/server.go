package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/kissctl/internal/logging"
	"github.com/danmuck/kissctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Status is the runtime view reported on /status.
type Status struct {
	Callsign      string        `json:"callsign"`
	Device        string        `json:"device"`
	Interface     string        `json:"interface"`
	ModemAddr     string        `json:"modem_addr,omitempty"`
	MTU           int           `json:"mtu"`
	Broadcast     bool          `json:"broadcast"`
	BytesToModem  uint64        `json:"bytes_to_modem"`
	BytesToPTY    uint64        `json:"bytes_to_pty"`
	FramesToModem uint64        `json:"frames_to_modem"`
	FramesToPTY   uint64        `json:"frames_to_pty"`
	Uptime        time.Duration `json:"uptime_ns"`
}

// StatusFunc snapshots the current Status.
type StatusFunc func() Status

// Server is the optional HTTP status surface of a running bridge.
type Server struct {
	node    string
	router  *gin.Engine
	status  StatusFunc
	started time.Time
}

func New(node string, corsOrigins []string, status StatusFunc) *Server {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logging.Logger()))
	r.Use(observability.RequestMetricsMiddleware(node))
	if origins := normalizeOrigins(corsOrigins); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	if status == nil {
		status = func() Status { return Status{} }
	}
	s := &Server{node: node, router: r, status: status, started: time.Now()}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("server.Server.Run listening node=%s addr=%s", s.node, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warnf("server.Server.Run shutdown node=%s err=%v", s.node, err)
		return err
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if v := strings.TrimSpace(o); v != "" {
			out = append(out, v)
		}
	}
	return out
}
