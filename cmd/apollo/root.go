package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/zielww/apollo/internal/api"
	"github.com/zielww/apollo/internal/app"
	"github.com/zielww/apollo/internal/config"
	"github.com/zielww/apollo/internal/constants"
)

var (
	configFile string
	serverURL  string

	apolloConfig *config.Config
	// nil when the commands run on apollod
	apolloApp *app.App
	planner   rulePlanner
)

var rootCmd = &cobra.Command{
	Use:   "apollo",
	Short: "Schedule daily lighting windows for your controllers",
	Long: `apollo manages recurring daily lighting rules (light mode, brightness, time window)
per device, rejects overlapping windows and pushes each device its schedule.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is config.yaml in /etc/apollo, ~/.config/apollo or .)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "address of a running apollod to send commands to (default from config server)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(statusCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.InitialiseConfig(configFile)
	if err != nil {
		return err
	}

	// the terminal is for command output, logs go to a file
	logger := log.NewWithOptions(&lumberjack.Logger{
		Filename: cfg.Log.File,
		MaxAge:   cfg.Log.MaxAgeDays,
	}, log.Options{
		Level:           cfg.Log.GetLevel(),
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05",
	})
	logger.Debug("apollo starting", "command", cmd.Name())
	apolloConfig = cfg

	// with a daemon running, changes must go through its planner or they are overwritten
	if server := lo.Ternary(serverURL != "", serverURL, cfg.Server); server != "" {
		logger.Debug("using apollod", "server", server)
		planner = api.NewClient(logger, server, constants.DefaultServerTimeout)
		return nil
	}

	apolloApp, err = app.New(cfg, logger)
	if err != nil {
		return err
	}
	planner = &localPlanner{app: apolloApp}

	errOut := cmd.ErrOrStderr()
	apolloApp.Planner.OnWarning(func(err error) {
		fmt.Fprintf(errOut, "warning: %s\n", err)
	})
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if apolloApp == nil {
		return nil
	}
	// outstanding pushes finish before exit
	return apolloApp.Close()
}
