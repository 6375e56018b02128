package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported alongside the
// overall ("") server status.
const ServiceName = "simple.users.v1.Users"

// HealthServer exposes the standard gRPC health-checking protocol so that
// orchestrators can probe the service without going through HTTP.
type HealthServer struct {
	srv    *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewHealthServer creates a gRPC server with the health and reflection
// services registered. Both the overall status and ServiceName start as
// SERVING.
func NewHealthServer(logger *slog.Logger) *HealthServer {
	hs := health.NewServer()
	s := &HealthServer{
		health: hs,
		logger: logger,
	}
	s.srv = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))

	healthpb.RegisterHealthServer(s.srv, hs)
	reflection.Register(s.srv)

	s.SetServing(true)
	return s
}

// Serve accepts connections on lis until Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Info("grpc health server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

// SetServing flips both the overall and the named service status.
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop marks every service NOT_SERVING, then drains in-flight RPCs. If the
// drain takes longer than ctx allows, remaining connections are closed.
func (s *HealthServer) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.srv.Stop()
		<-done
	}
}

func (s *HealthServer) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.DebugContext(ctx, "grpc request",
		"method", info.FullMethod,
		"duration", time.Since(start).Round(time.Millisecond),
		"error", err,
	)
	return resp, err
}
