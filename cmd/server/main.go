package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-records-api/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-records-api/internal/adapters/repository"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	"github.com/ogurasousui/employee-records-api/internal/platform/config"
	"github.com/ogurasousui/employee-records-api/internal/platform/logger"
	"github.com/ogurasousui/employee-records-api/internal/platform/server"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to load config")
	}

	log, closer, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closer.Close()

	if err := run(logger.WithContext(ctx, log), cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		stop()
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	log.Info().Str("driver", cfg.Database.Driver).Msg("storage opened")

	svc := employee.NewService(st.Repo, st.Tx)
	employeeHandler := handler.NewEmployeeHandler(svc)

	httpServer := server.NewHTTP(cfg.Server.ListenAddr, cfg.Server.ShutdownTimeout, log, employeeHandler.Register)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })

	if cfg.Server.HealthListenAddr != "" {
		healthServer := server.NewHealth(cfg.Server.HealthListenAddr, server.PingerFunc(st.Ping), log)
		g.Go(func() error { return healthServer.Run(gctx) })
	}

	return g.Wait()
}
