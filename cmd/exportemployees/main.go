package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ogurasousui/employee-records-api/internal/adapters/export"
	"github.com/ogurasousui/employee-records-api/internal/adapters/repository"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	"github.com/ogurasousui/employee-records-api/internal/platform/config"
	"github.com/ogurasousui/employee-records-api/internal/platform/logger"
	"github.com/ogurasousui/employee-records-api/internal/platform/sftpclient"
	"github.com/rs/zerolog"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		outPath    = flag.String("out", "", "output path (defaults to employees.<format>)")
		formatRaw  = flag.String("format", "csv", "output format: csv or xlsx")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated file via SFTP")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
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

	if err := run(ctx, cfg, log, *formatRaw, *outPath, *uploadSFTP); err != nil {
		log.Error().Err(err).Msg("export failed")
		stop()
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, formatRaw, outPath string, upload bool) error {
	format, err := export.ParseFormat(formatRaw)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = format.FileName("employees")
	}

	st, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	employees, err := employee.NewService(st.Repo, st.Tx).ListEmployees(ctx)
	if err != nil {
		return err
	}

	if err := writeFile(outPath, format, employees); err != nil {
		return err
	}
	log.Info().Int("count", len(employees)).Str("path", outPath).Msg("roster written")

	if !upload {
		return nil
	}

	upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	remoteName := filepath.Base(outPath)
	if err := sftpclient.UploadFile(upCtx, cfg.SFTP, outPath, remoteName); err != nil {
		return err
	}
	log.Info().
		Str("host", cfg.SFTP.Host).
		Str("remote", filepath.ToSlash(filepath.Join(cfg.SFTP.RemoteDir, remoteName))).
		Msg("roster uploaded")

	return nil
}

func writeFile(outPath string, format export.Format, employees []*employee.Employee) (err error) {
	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", outPath, cerr)
		}
	}()

	return export.Write(f, format, employees)
}
