package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ogurasousui/employee-records-api/internal/platform/logger"
	"github.com/rs/zerolog"
)

// HTTPServer は REST API 用 HTTP サーバーのライフサイクルを管理します。
type HTTPServer struct {
	listenAddr      string
	shutdownTimeout time.Duration
	echo            *echo.Echo
	log             zerolog.Logger
}

// NewHTTP は共通ミドルウェアを設定した echo を構築し、register でルートを登録します。
func NewHTTP(listenAddr string, shutdownTimeout time.Duration, log zerolog.Logger, register func(*echo.Echo)) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(injectLogger(log))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.FromContext(c.Request().Context()).Info()
			if v.Error != nil {
				ev = logger.FromContext(c.Request().Context()).Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	if register != nil {
		register(e)
	}

	return &HTTPServer{
		listenAddr:      listenAddr,
		shutdownTimeout: shutdownTimeout,
		echo:            e,
		log:             log,
	}
}

// Handler はルーティング済みの http.Handler を返します。
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *HTTPServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は lis で待ち受けます。
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", lis.Addr().String()).Msg("http server listening")

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}

func injectLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))
			return next(c)
		}
	}
}
