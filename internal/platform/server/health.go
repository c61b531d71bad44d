package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultProbeInterval = 5 * time.Second

// Pinger はストレージ疎通確認の抽象化です。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数を Pinger として扱うアダプタです。*sql.DB の PingContext などを渡します。
type PingerFunc func(ctx context.Context) error

// Ping は f を呼び出します。
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthServer は grpc.health.v1 を提供する gRPC サーバーです。
// ストレージへの疎通を定期的に確認し、SERVING / NOT_SERVING を切り替えます。
type HealthServer struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	interval   time.Duration
	log        zerolog.Logger
}

// NewHealth は HealthServer を構築します。
func NewHealth(listenAddr string, pinger Pinger, log zerolog.Logger, opts ...grpc.ServerOption) *HealthServer {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		pinger:     pinger,
		interval:   defaultProbeInterval,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *HealthServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}()

	s.log.Info().Str("addr", lis.Addr().String()).Msg("health server listening")

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC health: %w", err)
	}

	return nil
}

func (s *HealthServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *HealthServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.interval)
		err := s.pinger.Ping(pingCtx)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("storage ping failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
}
