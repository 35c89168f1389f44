package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/device"
	"github.com/zielww/apollo/internal/models"
)

var ErrDeviceNotFound = errors.New("device not found in directory")

// a device registration as written by the controller firmware on boot
type deviceEntry struct {
	IPAddress  string  `json:"ip_address"`
	DeviceName string  `json:"device_name"`
	LastOnline float64 `json:"last_online"`
	DeviceType string  `json:"device_type"`
}

func (e deviceEntry) toDevice(id string) models.Device {
	d := models.Device{
		ID:      id,
		Name:    e.DeviceName,
		Address: device.NormaliseAddress(e.IPAddress),
		Type:    e.DeviceType,
	}
	if e.LastOnline > 0 {
		sec := int64(e.LastOnline)
		d.LastOnline = time.Unix(sec, int64((e.LastOnline-float64(sec))*float64(time.Second))).UTC()
	}
	return d
}

// Directory resolves device ids to network addresses using the firebase realtime
// database the controllers register themselves in. With no url configured every
// device id is used as its own address.
type Directory struct {
	logger     *log.Logger
	baseURL    string
	httpClient *http.Client
	watch      bool

	mu      sync.RWMutex
	entries map[string]deviceEntry
}

func NewDirectory(logger *log.Logger, baseURL string, timeout time.Duration) *Directory {
	if timeout <= 0 {
		timeout = constants.DefaultDeviceTimeout
	}
	return &Directory{
		logger:     logger,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		entries:    map[string]deviceEntry{},
		watch:      true,
	}
}

// SetWatch turns streaming of registration changes on or off, it is on by default
func (d *Directory) SetWatch(watch bool) {
	d.watch = watch
}

func (d *Directory) Enabled() bool {
	return d.baseURL != ""
}

func (d *Directory) devicesURL() string {
	return d.baseURL + constants.DirectoryPathDevices + ".json"
}

func (d *Directory) deviceURL(id string) string {
	return d.baseURL + constants.DirectoryPathDevices + "/" + url.PathEscape(id) + ".json"
}

// List fetches every registered device and refreshes the local cache
func (d *Directory) List(ctx context.Context) ([]models.Device, error) {
	if !d.Enabled() {
		return []models.Device{}, nil
	}

	body, err := d.get(ctx, d.devicesURL())
	if err != nil {
		return nil, fmt.Errorf("error reading devices from directory: %w", err)
	}

	// firebase answers null for an empty node
	entries := map[string]deviceEntry{}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("error parsing devices response: %w", err)
	}
	if entries == nil {
		entries = map[string]deviceEntry{}
	}

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()

	return d.Devices(), nil
}

// Devices returns the cached devices ordered by id
func (d *Directory) Devices() []models.Device {
	d.mu.RLock()
	defer d.mu.RUnlock()

	devices := lo.MapToSlice(d.entries, func(id string, e deviceEntry) models.Device {
		return e.toDevice(id)
	})
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices
}

// Lookup returns a single device, from the cache when it has been seen already
func (d *Directory) Lookup(ctx context.Context, id string) (models.Device, error) {
	if !d.Enabled() {
		return models.Device{}, ErrDeviceNotFound
	}

	d.mu.RLock()
	entry, ok := d.entries[id]
	d.mu.RUnlock()
	if ok {
		return entry.toDevice(id), nil
	}

	body, err := d.get(ctx, d.deviceURL(id))
	if err != nil {
		return models.Device{}, fmt.Errorf("error reading device (%s) from directory: %w", id, err)
	}

	var found *deviceEntry
	if err := json.Unmarshal(body, &found); err != nil {
		return models.Device{}, fmt.Errorf("error parsing device (%s) response: %w", id, err)
	}
	if found == nil {
		return models.Device{}, ErrDeviceNotFound
	}

	d.mu.Lock()
	d.entries[id] = *found
	d.mu.Unlock()

	return found.toDevice(id), nil
}

// Address returns where the device with the given id can be reached. Ids that are
// not registered are treated as direct addresses (e.g. "192.168.1.40").
func (d *Directory) Address(ctx context.Context, deviceID string) (string, error) {
	dev, err := d.Lookup(ctx, deviceID)
	if errors.Is(err, ErrDeviceNotFound) {
		d.logger.Debug("device not in directory, using id as address", "deviceID", deviceID)
		return device.NormaliseAddress(deviceID), nil
	}
	if err != nil {
		return "", err
	}
	if dev.Address == "" {
		return "", fmt.Errorf("device (%s) has no address registered", deviceID)
	}
	return dev.Address, nil
}

func (d *Directory) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("Error making directory call", "url", target, "status", resp.Status)
		return nil, fmt.Errorf("directory responded with status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
