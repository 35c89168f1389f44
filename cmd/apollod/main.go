package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zielww/apollo/internal/api"
	"github.com/zielww/apollo/internal/app"
	"github.com/zielww/apollo/internal/config"
)

const shutdownTimeout = 10 * time.Second

var configFile string

var rootCmd = &cobra.Command{
	Use:          "apollod",
	Short:        "Keep lighting controllers in sync with their schedules and serve the http api",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (default is config.yaml in /etc/apollo, ~/.config/apollo or .)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(_ *cobra.Command, _ []string) error {
	cfg, err := config.InitialiseConfig(configFile)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           cfg.Log.GetLevel(),
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	logger.Info("apollod starting")

	// create/wire up services
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error(err)
		}
	}()

	if cfg.Directory.URL != "" {
		if _, err := a.Directory.List(context.Background()); err != nil {
			logger.Warn("could not read device directory", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start the main loop
	runDone := make(chan struct{})
	go func() {
		a.Planner.Run(ctx)
		close(runDone)
	}()

	server := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           api.NewAPI(logger, a.Planner, a.Directory, a.Resolver, cfg.Timeline.HourWidth).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http api listening", "addr", cfg.HTTP.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
		logger.Error("http api stopped", "err", err)
		stop()
	}

	// cleanup before exit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http api shutdown", "err", err)
	}
	<-runDone

	logger.Info("apollod is closing")
	return err
}
