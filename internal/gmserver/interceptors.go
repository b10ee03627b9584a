package gmserver

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

// RequestRecorder persists one served RPC.
type RequestRecorder interface {
	Record(ctx context.Context, entry postgres.RequestLog) error
}

// RequestLogInterceptor records every unary call through rec. A failed
// record is logged and never fails the call.
//
// Precondition: rec and logger must be non-nil.
func RequestLogInterceptor(rec RequestRecorder, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		entry := postgres.RequestLog{
			Method:     methodName(info.FullMethod),
			Endpoint:   info.FullMethod,
			StatusCode: status.Code(err).String(),
			Duration:   time.Since(start),
		}
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			entry.Peer = p.Addr.String()
		}
		if recErr := rec.Record(context.WithoutCancel(ctx), entry); recErr != nil {
			logger.Warn("recording request",
				zap.String("endpoint", entry.Endpoint),
				zap.Error(recErr),
			)
		}
		return resp, err
	}
}

// methodName returns the final path element of a full gRPC method.
func methodName(fullMethod string) string {
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}

// recoverPanic turns a handler panic into an Internal status.
func recoverPanic(logger *zap.Logger) func(p any) error {
	return func(p any) error {
		logger.Error("panic in rpc handler", zap.Any("panic", p), zap.Stack("stack"))
		return status.Errorf(codes.Internal, "internal error")
	}
}
