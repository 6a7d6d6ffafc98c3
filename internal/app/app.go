package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/coffee-orders/internal/domain/order"
	"github.com/xenking/coffee-orders/internal/handler"
	"github.com/xenking/coffee-orders/internal/storage/memory"
	"github.com/xenking/coffee-orders/pkg/health"
	"github.com/xenking/coffee-orders/pkg/httpmiddleware"
)

const serviceName = "coffee-api"

// server is the fully wired HTTP server with its health probes.
type server struct {
	http   *http.Server
	health *health.Health
}

// newServer creates every dependency and wires the HTTP stack.
func newServer(lg *zap.Logger, m httpmiddleware.Telemetry, cfg *Config) (*server, error) {
	repo := memory.NewOrderRepository()
	orders, err := order.NewService(repo, m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return nil, errors.Wrap(err, "create order service")
	}

	hs := health.New(lg.Named("health"))
	hs.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(cfg.Health.GoroutineThreshold))
	hs.AddLivenessCheck("gc_pause", time.Second, health.GCMaxPauseCheck(cfg.Health.GCMaxPause))
	hs.AddReadinessCheck("order_store", time.Second, health.StoreCheck(orders.Count))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", hs.LiveEndpoint)
	mux.HandleFunc("GET /readyz", hs.ReadyEndpoint)
	handler.NewHandler(orders).Register(mux)

	return &server{
		health: hs,
		http: &http.Server{
			Addr:              cfg.Addr,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
			Handler: httpmiddleware.Wrap(mux,
				httpmiddleware.InjectLogger(lg),
				httpmiddleware.Recovery(),
				httpmiddleware.RequestID(),
				httpmiddleware.Instrument(serviceName, m),
				httpmiddleware.LogRequests(),
			),
		},
	}, nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m httpmiddleware.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	s, err := newServer(lg, m, cfg)
	if err != nil {
		return err
	}

	s.health.Start(ctx, cfg.Health.Interval)
	s.health.SetReady(true)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return s.shutdown(lg, cfg.Graceful)
	})
	return g.Wait()
}

// shutdown drains the server: readiness goes false first so load balancers
// stop routing, then in-flight requests get ShutdownTimeout to finish.
func (s *server) shutdown(lg *zap.Logger, cfg GracefulConfig) error {
	defer s.health.Stop()

	s.health.SetReady(false)
	lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.ReadinessDelay))
	time.Sleep(cfg.ReadinessDelay)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	lg.Info("Shutting down server", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := s.http.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
