package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yangpin97/cisco-client-portal/api"
	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal",
	Long:  "Start the public download page and the admin API.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&cliConfig.UsePort, "port", 0, "listen port (default from config or 9907)")
	serveCmd.Flags().StringVar(&cliConfig.UsePublicDir, "public", "", "override public directory")
	serveCmd.Flags().StringVar(&cliConfig.UseSeedPath, "seed", "", "document copied into place on first start")
	serveCmd.Flags().IntVar(&cliConfig.UseMetricsPort, "metrics-port", 0, "port for Prometheus metrics (disabled if 0)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.PublicDir, 0o755); err != nil {
		return fmt.Errorf("failed to create public dir: %w", err)
	}

	metrics := tool.NewMetrics()
	opts := []document.Option{document.WithMetrics(metrics)}
	if cfg.SeedPath != "" {
		opts = append(opts, document.WithSeedFile(cfg.SeedPath))
	}
	store := document.New(cfg.DataPath, opts...)
	// seed and migrate before the first request
	store.Load()

	srv := api.NewServer(cfg, store, metrics)
	tool.DefaultLogger.Infof("%s, document at %s", tool.UserAgent(), store.Path())

	errCh := make(chan error, 2)
	go func() { errCh <- srv.Start() }()
	go func() {
		if err := srv.StartMetrics(); err != nil {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	tool.DefaultLogger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
