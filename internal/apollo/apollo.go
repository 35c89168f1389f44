package apollo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	sse "github.com/r3labs/sse/v2"
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/concurrency"
	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/device"
	"github.com/zielww/apollo/internal/models"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

type ruleRepo interface {
	SaveAll(rules []models.Rule) error
	LoadAll() ([]models.Rule, error)
}

type deviceController interface {
	PushSchedules(ctx context.Context, address string, records []models.RuleRecord) error
	FetchSchedules(ctx context.Context, address string) ([]models.RuleRecord, error)
	DeviceTime(ctx context.Context, address string) (time.Time, error)
	SyncTime(ctx context.Context, address string) (time.Time, error)
	SetChannel(ctx context.Context, address string, channel models.Channel, level int) error
}

type deviceDirectory interface {
	// resolves a device id to the address its controller listens on
	Address(ctx context.Context, deviceID string) (string, error)

	// blocks until connected, the stream lives until ctx is done
	Subscribe(ctx context.Context, eventChannel chan *sse.Event)
	HandleEvent(event *sse.Event) ([]string, error)
}

// Apollo owns the rule set. Every mutation is serialised, committed in memory and
// then persisted and pushed to the affected devices in the background.
type Apollo struct {
	logger    *log.Logger
	store     *rulestore.Store
	repo      ruleRepo
	devices   deviceController
	directory deviceDirectory
	worker    concurrency.ThrottledWorker

	mu sync.Mutex
	// held while propagating so background syncs never interleave
	syncMu    sync.Mutex
	wg        sync.WaitGroup
	onWarning func(err error)
}

func NewApollo(
	logger *log.Logger,
	store *rulestore.Store,
	repo ruleRepo,
	devices deviceController,
	directory deviceDirectory,
	pushInterval time.Duration,
) *Apollo {
	a := &Apollo{
		logger:    logger,
		store:     store,
		repo:      repo,
		devices:   devices,
		directory: directory,
		onWarning: func(error) {},
	}
	a.worker = concurrency.NewThrottledWorker(pushInterval, a.pushDevice)
	return a
}

// OnWarning registers the callback receiving *SyncError values from background syncs
func (a *Apollo) OnWarning(fn func(err error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if fn == nil {
		fn = func(error) {}
	}
	a.onWarning = fn
}

// Initialise re-hydrates the rule set from the repo
func (a *Apollo) Initialise() error {
	a.logger.Debug("Apollo.Initialise")

	rules, err := a.repo.LoadAll()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Load(rules); err != nil {
		return err
	}

	a.logger.Info("rules loaded", "count", len(rules), "devices", len(a.store.Devices()))
	return nil
}

// AddRule commits a new rule (validation and overlap checked) and returns it with its id
func (a *Apollo) AddRule(candidate models.Rule) (models.Rule, error) {
	a.mu.Lock()
	rule, err := a.store.Add(candidate)
	a.mu.Unlock()
	if err != nil {
		return models.Rule{}, err
	}

	a.logger.Info("rule added", "id", rule.ID, "deviceID", rule.DeviceID, "interval", rule.Interval.String())
	a.notify(rule.DeviceID)
	return rule, nil
}

// RemoveRule returns rulestore.ErrNotFound for an unknown id
func (a *Apollo) RemoveRule(id string) error {
	a.mu.Lock()
	rule, ok := a.store.Get(id)
	if ok {
		a.store.Remove(id)
	}
	a.mu.Unlock()
	if !ok {
		return rulestore.ErrNotFound
	}

	a.logger.Info("rule removed", "id", id, "deviceID", rule.DeviceID)
	a.notify(rule.DeviceID)
	return nil
}

// Rules returns the rules for deviceID, or every rule when deviceID is empty
func (a *Apollo) Rules(deviceID string) []models.Rule {
	a.mu.Lock()
	defer a.mu.Unlock()
	if deviceID == "" {
		return a.store.List()
	}
	return a.store.ListByDevice(deviceID)
}

func (a *Apollo) Rule(id string) (models.Rule, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Get(id)
}

func (a *Apollo) Devices() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Devices()
}

func (a *Apollo) Timeline(deviceID string) [constants.HoursPerDay][]schedule.Segment {
	return schedule.Timeline(a.Rules(deviceID))
}

// Active resolves the output every device with rules should show at the given time
func (a *Apollo) Active(at models.TimeOfDay) map[string]schedule.OutputState {
	a.mu.Lock()
	defer a.mu.Unlock()

	return lo.Associate(a.store.Devices(), func(deviceID string) (string, schedule.OutputState) {
		return deviceID, schedule.ResolveOutput(schedule.ActiveAt(a.store.ListByDevice(deviceID), at))
	})
}

// Sync persists the rule set and pushes deviceID its rules, reporting failures to the caller
func (a *Apollo) Sync(ctx context.Context, deviceID string) error {
	a.syncMu.Lock()
	defer a.syncMu.Unlock()

	var errs []error
	if err := a.persist(); err != nil {
		errs = append(errs, err)
	}
	if deviceID != "" {
		if err := a.pushDevice(ctx, deviceID); err != nil {
			errs = append(errs, &SyncError{Target: SyncTargetDevice, DeviceID: deviceID, Err: err})
		}
	}
	return errors.Join(errs...)
}

// SetChannel drives one output of deviceID directly, bypassing its rules until the
// controller next applies its schedules
func (a *Apollo) SetChannel(ctx context.Context, deviceID string, channel models.Channel, level int) error {
	if !channel.Valid() {
		return &rulestore.ValidationError{Field: "channel", Reason: fmt.Sprintf("must be %s or %s", models.ChannelWarm, models.ChannelNatural)}
	}
	if level < constants.MinBrightness || level > constants.MaxBrightness {
		return &rulestore.ValidationError{Field: "level", Reason: fmt.Sprintf("must be between %d and %d", constants.MinBrightness, constants.MaxBrightness)}
	}

	address, err := a.directory.Address(ctx, deviceID)
	if err != nil {
		return err
	}
	if err := a.devices.SetChannel(ctx, address, channel, level); err != nil {
		return err
	}

	a.logger.Info("channel set", "deviceID", deviceID, "channel", channel, "level", level)
	return nil
}

// SyncTime makes deviceID resync its clock, schedules only run on a synced controller
func (a *Apollo) SyncTime(ctx context.Context, deviceID string) (time.Time, error) {
	address, err := a.directory.Address(ctx, deviceID)
	if err != nil {
		return time.Time{}, err
	}
	return a.devices.SyncTime(ctx, address)
}

// DeviceStatus reads the clock and the schedule set of deviceID and compares the set
// with the rules held for it
func (a *Apollo) DeviceStatus(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	address, err := a.directory.Address(ctx, deviceID)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	status := models.DeviceStatus{DeviceID: deviceID, Address: address}

	clock, err := a.devices.DeviceTime(ctx, address)
	switch {
	case errors.Is(err, device.ErrTimeNotSynced):
		a.logger.Warn("device clock not synced", "deviceID", deviceID)
		status.Warnings = append(status.Warnings, "device clock is not synchronized, its schedules are not applied")
	case err != nil:
		return models.DeviceStatus{}, err
	default:
		status.TimeSynced = true
		status.Clock = clock.Format(constants.DeviceTimeLayout)
	}

	held, err := a.devices.FetchSchedules(ctx, address)
	if err != nil {
		return models.DeviceStatus{}, err
	}
	expected := models.ToRecords(a.Rules(deviceID))

	status.Schedules = held
	status.ExpectedRules = len(expected)
	status.InSync = sameRecords(expected, held)
	if !status.InSync {
		status.Warnings = append(status.Warnings, fmt.Sprintf("device holds %d schedules, %d rules expected, sync the device", len(held), len(expected)))
	}
	return status, nil
}

// order is ignored, the controller checks every schedule each time
func sameRecords(a []models.RuleRecord, b []models.RuleRecord) bool {
	if len(a) != len(b) {
		return false
	}
	byID := func(r models.RuleRecord) string { return r.ID }
	return maps.Equal(lo.KeyBy(a, byID), lo.KeyBy(b, byID))
}

// Wait blocks until every background sync started so far has finished
func (a *Apollo) Wait() {
	a.wg.Wait()
}

func (a *Apollo) Run(ctx context.Context) {
	a.logger.Debug("Apollo.Run")

	// start listening to device registrations
	eventChannel := make(chan *sse.Event)
	go a.directory.Subscribe(ctx, eventChannel)

	updateTimer := time.NewTicker(constants.MainUpdateInterval)
	defer updateTimer.Stop()

	a.logActive(time.Now())

	// start the main application loop
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Apollo.Run: stop signal received")
			return

		case event := <-eventChannel:
			a.logger.Debug("Apollo.Run: Received directory event")
			a.handleDirectoryEvent(event)

		case t := <-updateTimer.C:
			a.logActive(t)
		}
	}
}

func (a *Apollo) handleDirectoryEvent(event *sse.Event) {
	changed, err := a.directory.HandleEvent(event)
	if err != nil {
		a.logger.Error(err)
		return
	}

	// devices that (re)registered get their rules again
	scheduled := a.Devices()
	resync := lo.Filter(changed, func(id string, _ int) bool { return lo.Contains(scheduled, id) })
	if len(resync) > 0 {
		a.logger.Info("device address changed, resyncing", "devices", resync)
		a.push(resync...)
	}
}

func (a *Apollo) logActive(t time.Time) {
	for deviceID, output := range a.Active(models.TimeOfDayFromTime(t)) {
		a.logger.Debug("output",
			"deviceID", deviceID,
			"warm", output.WarmOn, "warmBrightness", output.WarmBrightness,
			"natural", output.NaturalOn, "naturalBrightness", output.NaturalBrightness,
		)
	}
}

// notify persists the rule set and pushes the given devices in the background
func (a *Apollo) notify(deviceIDs ...string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.syncMu.Lock()
		defer a.syncMu.Unlock()

		if err := a.persist(); err != nil {
			a.warn(err)
		}
		a.pushAll(deviceIDs)
	}()
}

// push only re-sends devices, nothing changed that needs persisting
func (a *Apollo) push(deviceIDs ...string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.syncMu.Lock()
		defer a.syncMu.Unlock()

		a.pushAll(deviceIDs)
	}()
}

func (a *Apollo) pushAll(deviceIDs []string) {
	errs := a.worker.Run(context.Background(), lo.Uniq(deviceIDs))
	for deviceID, err := range errs {
		a.warn(&SyncError{Target: SyncTargetDevice, DeviceID: deviceID, Err: err})
	}
}

func (a *Apollo) persist() error {
	// the latest state is written, whichever mutation triggered the sync
	rules := a.Rules("")
	if err := a.repo.SaveAll(rules); err != nil {
		return &SyncError{Target: SyncTargetPersistence, Err: err}
	}
	return nil
}

func (a *Apollo) pushDevice(ctx context.Context, deviceID string) error {
	address, err := a.directory.Address(ctx, deviceID)
	if err != nil {
		return err
	}
	records := models.ToRecords(a.Rules(deviceID))
	if err := a.devices.PushSchedules(ctx, address, records); err != nil {
		return err
	}
	a.logger.Debug("device synced", "deviceID", deviceID, "address", address, "rules", len(records))
	return nil
}

func (a *Apollo) warn(err error) {
	a.logger.Warn(err)

	a.mu.Lock()
	onWarning := a.onWarning
	a.mu.Unlock()
	onWarning(err)
}
