// Command zserver starts the zserver HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/zserver/internal/config"
	"github.com/and161185/zserver/internal/crypt/token"
	"github.com/and161185/zserver/internal/devutil"
	"github.com/and161185/zserver/internal/limiter"
	"github.com/and161185/zserver/internal/migrate"
	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/server/web"
	"github.com/and161185/zserver/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations and serves HTTP until signalled.
func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	if cfg.Dev {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.Bool("dev", cfg.Dev),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Dev {
		if err := devutil.InitDev(ctx, cfg, logger); err != nil {
			logger.Fatal("dev init", zap.Error(err))
		}
	} else if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	mm, err := model.NewManager(ctx, cfg)
	if err != nil {
		logger.Fatal("model manager", zap.Error(err))
	}
	defer mm.Close()

	tokens, err := token.NewService(cfg.TokenKey, cfg.TokenDurationSec)
	if err != nil {
		logger.Fatal("token service", zap.Error(err))
	}

	lim := limiter.NewPG(mm.Pool(), cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlockFor)

	// Services
	authSvc := service.NewAuthService(model.UserBmc{}, mm, tokens, lim, logger)
	taskSvc := service.NewTaskService(model.TaskBmc{}, mm)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.New(authSvc, taskSvc, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			mm.Close()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
