package gmserver

import (
	"context"
	"fmt"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/cory-johannsen/elysium/internal/observability"
)

// Server owns the grpc.Server hosting ChronicleService plus the standard
// health and reflection services.
type Server struct {
	addr   string
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer builds a Server listening on addr once started. When rec is
// non-nil every unary call is also written to the request log.
//
// Precondition: svc and logger must be non-nil.
// Postcondition: ChronicleService reports NOT_SERVING until SetServing(true).
func NewServer(addr string, svc ChronicleServer, rec RequestRecorder, logger *zap.Logger) *Server {
	interceptors := []grpc.UnaryServerInterceptor{
		logging.UnaryServerInterceptor(observability.GRPCLogger(logger),
			logging.WithLogOnEvents(logging.FinishCall),
		),
		recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(recoverPanic(logger))),
	}
	if rec != nil {
		interceptors = append(interceptors, RequestLogInterceptor(rec, logger))
	}

	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	gs.RegisterService(&ServiceDesc, svc)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	reflection.Register(gs)

	return &Server{addr: addr, grpc: gs, health: hs, logger: logger}
}

// SetServing flips the ChronicleService health status. It is the report
// callback of the storage health loops.
func (s *Server) SetServing(healthy bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if healthy {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Serve accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start(_ context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

// Stop drains in-flight calls, forcing a stop if ctx ends first.
func (s *Server) Stop(ctx context.Context) error {
	s.health.Shutdown()
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpc.Stop()
	}
	return nil
}
