package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/api"
	"github.com/zielww/apollo/internal/app"
	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
)

// the operations behind the commands, run in process or on apollod (see --server)
type rulePlanner interface {
	AddRule(ctx context.Context, req api.RuleRequest) (models.Rule, error)
	RemoveRule(ctx context.Context, id string) error
	Rules(ctx context.Context, deviceID string) ([]models.Rule, error)
	Active(ctx context.Context, at models.TimeOfDay) (map[string]schedule.OutputState, error)
	Devices(ctx context.Context) ([]api.DeviceResponse, error)
	Sync(ctx context.Context, deviceID string) error
	SetChannel(ctx context.Context, deviceID string, channel models.Channel, level int) error
	SyncTime(ctx context.Context, deviceID string) (time.Time, error)
	DeviceStatus(ctx context.Context, deviceID string) (models.DeviceStatus, error)
}

// runs the planner on the configured storage, only safe while no apollod uses it
type localPlanner struct {
	app *app.App
}

func (l *localPlanner) AddRule(_ context.Context, req api.RuleRequest) (models.Rule, error) {
	candidate, err := req.Rule(l.app.Resolver, time.Now())
	if err != nil {
		return models.Rule{}, err
	}
	return l.app.Planner.AddRule(candidate)
}

func (l *localPlanner) RemoveRule(_ context.Context, id string) error {
	return l.app.Planner.RemoveRule(id)
}

func (l *localPlanner) Rules(_ context.Context, deviceID string) ([]models.Rule, error) {
	return l.app.Planner.Rules(deviceID), nil
}

func (l *localPlanner) Active(_ context.Context, at models.TimeOfDay) (map[string]schedule.OutputState, error) {
	return l.app.Planner.Active(at), nil
}

func (l *localPlanner) Devices(ctx context.Context) ([]api.DeviceResponse, error) {
	if !l.app.Directory.Enabled() {
		return nil, errors.New("no directory.url configured")
	}
	devices, err := l.app.Directory.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(devices, func(d models.Device, _ int) api.DeviceResponse {
		return api.NewDeviceResponse(d, len(l.app.Planner.Rules(d.ID)))
	}), nil
}

func (l *localPlanner) Sync(ctx context.Context, deviceID string) error {
	return l.app.Planner.Sync(ctx, deviceID)
}

func (l *localPlanner) SetChannel(ctx context.Context, deviceID string, channel models.Channel, level int) error {
	return l.app.Planner.SetChannel(ctx, deviceID, channel, level)
}

func (l *localPlanner) SyncTime(ctx context.Context, deviceID string) (time.Time, error) {
	return l.app.Planner.SyncTime(ctx, deviceID)
}

func (l *localPlanner) DeviceStatus(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	return l.app.Planner.DeviceStatus(ctx, deviceID)
}
