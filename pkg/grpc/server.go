package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/wisharea/storefront/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Checker reports whether a backing dependency is usable.
type Checker func(ctx context.Context) error

// HealthServer publishes the storefront's readiness over the standard
// grpc.health.v1 protocol. Each registered check becomes its own service
// name; the empty service name is SERVING only while every check passes.
type HealthServer struct {
	config *config.Config
	logger *zap.Logger
	srv    *grpc.Server
	health *health.Server

	mu     sync.Mutex
	checks map[string]Checker
}

func NewHealthServer(cfg *config.Config, logger *zap.Logger) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &HealthServer{
		config: cfg,
		logger: logger,
		srv:    srv,
		health: hs,
		checks: make(map[string]Checker),
	}
}

// Register adds a named check. The service reports NOT_SERVING until the
// first Refresh.
func (s *HealthServer) Register(service string, check Checker) {
	s.mu.Lock()
	s.checks[service] = check
	s.mu.Unlock()
	s.health.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Refresh runs every check once and updates the published statuses.
func (s *HealthServer) Refresh(ctx context.Context) {
	s.mu.Lock()
	checks := make(map[string]Checker, len(s.checks))
	for name, p := range s.checks {
		checks[name] = p
	}
	s.mu.Unlock()

	overall := healthpb.HealthCheckResponse_SERVING
	for name, check := range checks {
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Watch refreshes on every tick until ctx is done.
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *HealthServer) Start() error {
	addr := s.config.Server.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.logger.Info("Health service started", zap.String("address", addr))
	return s.Serve(lis)
}

func (s *HealthServer) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

// Stop marks everything NOT_SERVING and drains in-flight calls.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
