package client

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/balancer/roundrobin"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/cubefs/metabench/metrics"
	"github.com/cubefs/metabench/proto"
	"github.com/cubefs/metabench/util/limiter"
)

func unaryInterceptorWithTracer(ctx context.Context, method string, req, reply interface{},
	cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
) error {
	span := trace.SpanFromContextSafe(ctx)
	ctx = metadata.AppendToOutgoingContext(ctx, proto.ReqIdKey, span.TraceID())

	return invoker(ctx, method, req, reply, cc, opts...)
}

func unaryInterceptorWithAuth(authType string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{},
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
	) error {
		ctx = metadata.AppendToOutgoingContext(ctx, proto.AuthTypeKey, authType)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// unaryInterceptorWithLimiter blocks until an in-flight slot is free.
func unaryInterceptorWithLimiter(lim limiter.Limiter) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{},
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
	) error {
		if err := lim.Acquire(ctx); err != nil {
			return err
		}
		defer lim.Release()
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func generateDialOpts(cfg *Config, lim limiter.Limiter) []grpc.DialOption {
	tc := &cfg.TransportConfig
	backoffConfig := backoff.DefaultConfig
	backoffConfig.BaseDelay = time.Duration(tc.BackoffBaseDelayMs) * time.Millisecond
	backoffConfig.MaxDelay = time.Duration(tc.BackoffMaxDelayMs) * time.Millisecond

	dialOpts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(
			grpc.MaxCallSendMsgSize(math.MaxInt32),
			grpc.MaxCallRecvMsgSize(math.MaxInt32),
		),
		grpc.WithKeepaliveParams(
			keepalive.ClientParameters{
				Timeout:             time.Duration(tc.KeepaliveTimeoutS) * time.Second,
				PermitWithoutStream: true,
			},
		),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           backoffConfig,
			MinConnectTimeout: time.Millisecond * time.Duration(tc.ConnectTimeoutMs),
		}),
		grpc.WithChainUnaryInterceptor(
			unaryInterceptorWithTracer,
			unaryInterceptorWithAuth(cfg.AuthType),
			unaryInterceptorWithLimiter(lim),
			metrics.GRPCClientMetrics.UnaryClientInterceptor(),
		),
		grpc.WithDefaultServiceConfig(fmt.Sprintf(`{"loadBalancingPolicy": "%s"}`, roundrobin.Name)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	return dialOpts
}
