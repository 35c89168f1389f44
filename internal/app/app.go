package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zielww/apollo/internal/apollo"
	"github.com/zielww/apollo/internal/config"
	"github.com/zielww/apollo/internal/device"
	"github.com/zielww/apollo/internal/directory"
	"github.com/zielww/apollo/internal/repos"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

// App bundles the services both binaries run on
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	Planner   *apollo.Apollo
	Directory *directory.Directory
	Resolver  *schedule.PatternResolver

	closers []func() error
}

// New wires the services from cfg and re-hydrates the rule set
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	repo, closeRepo, err := repos.OpenRuleRepo(logger, cfg.Storage)
	if err != nil {
		return nil, err
	}

	dir := directory.NewDirectory(logger, cfg.Directory.URL, cfg.Device.Timeout)
	dir.SetWatch(cfg.Directory.Watch)
	client := device.NewClient(logger, cfg.Device.Timeout)
	planner := apollo.NewApollo(logger, rulestore.NewStore(), repo, client, dir, cfg.Device.PushInterval)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Planner:   planner,
		Directory: dir,
		Resolver:  schedule.NewPatternResolver(cfg.GeoLocation, time.Local),
		closers:   []func() error{closeRepo},
	}

	if err := planner.Initialise(); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

// Close waits for outstanding syncs before releasing storage
func (a *App) Close() error {
	a.Planner.Wait()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
