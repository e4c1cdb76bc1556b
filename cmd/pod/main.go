// cmd/pod/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/rfid-pod/internal/config"
	"github.com/tamzrod/rfid-pod/internal/logging"
	"github.com/tamzrod/rfid-pod/internal/metrics"
	"github.com/tamzrod/rfid-pod/internal/pod"
)

// restartPause keeps a pod with no working sensors from spinning.
const restartPause = 2 * time.Second

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: pod <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger, err := logging.New(cfg.Log, "rfid-pod")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting pod",
		zap.Int("pod_id", cfg.Pod.ID),
		zap.String("firmware", pod.FirmwareVersion),
		zap.String("transport", cfg.Server.Transport),
		zap.Int("sensors", len(cfg.Sensors)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Metrics (optional)
	// --------------------

	m, err := metrics.New(nil)
	if err != nil {
		logger.Fatal("metrics init failed", zap.Error(err))
	}
	if cfg.Metrics.Listen != "" {
		srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: metricsMux(m)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// --------------------
	// Build + run sessions
	// --------------------

	ctrl, closeBus, err := pod.Build(ctx, cfg, logger, m)
	if err != nil {
		logger.Fatal("pod build failed", zap.Error(err))
	}
	defer func() { _ = closeBus() }()

	if err := run(ctx, ctrl, cfg.Pod.OnReboot, logger); err != nil {
		logger.Error("pod stopped", zap.Error(err))
		_ = closeBus()
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run boots sessions until ctx ends. With the restart action a reboot
// starts a fresh session; any other error is returned.
func run(ctx context.Context, ctrl *pod.Controller, action string, logger *zap.Logger) error {
	for {
		err := ctrl.Run(ctx)

		switch {
		case ctx.Err() != nil:
			logger.Info("shutdown requested")
			return nil
		case pod.IsReboot(err) && action == pod.ActionRestart:
			logger.Warn("restarting session", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(restartPause):
			}
		default:
			return err
		}
	}
}

func metricsMux(m *metrics.Collector) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
