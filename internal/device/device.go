package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
)

// returned by DeviceTime while the controller has not yet synced its clock over ntp
var ErrTimeNotSynced = errors.New("device time not synchronized yet")

// StatusError is returned when a controller answers with anything other than 200
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client talks to the lighting controller firmware over plain http
type Client struct {
	logger     *log.Logger
	httpClient *http.Client
}

func NewClient(logger *log.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultDeviceTimeout
	}
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NormaliseAddress prefixes bare hosts with http:// and strips any trailing slash
func NormaliseAddress(address string) string {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	if address == "" {
		return ""
	}
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return address
}

// PushSchedules replaces the complete schedule set held by the controller at address
func (c *Client) PushSchedules(ctx context.Context, address string, records []models.RuleRecord) error {
	if records == nil {
		records = []models.RuleRecord{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("error encoding schedules: %w", err)
	}

	_, err = c.makeRequest(ctx, http.MethodPost, address, constants.DevicePathSetSchedule, body)
	if err != nil {
		return fmt.Errorf("error pushing schedules to %s: %w", address, err)
	}

	c.logger.Debug("schedules pushed", "address", address, "count", len(records))
	return nil
}

// FetchSchedules returns the schedule set the controller currently applies
func (c *Client) FetchSchedules(ctx context.Context, address string) ([]models.RuleRecord, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, address, constants.DevicePathSchedules, nil)
	if err != nil {
		return nil, fmt.Errorf("error reading schedules from %s: %w", address, err)
	}

	records := []models.RuleRecord{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("error parsing schedules response: %w", err)
	}
	return records, nil
}

// DeviceTime returns the controller's wall clock, which it reports without a zone
func (c *Client) DeviceTime(ctx context.Context, address string) (time.Time, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, address, constants.DevicePathTime, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("error reading time from %s: %w", address, err)
	}

	text := strings.TrimSpace(string(body))
	t, err := time.Parse(constants.DeviceTimeLayout, text)
	if err != nil {
		if strings.Contains(strings.ToLower(text), "not synchronized") {
			return time.Time{}, ErrTimeNotSynced
		}
		return time.Time{}, fmt.Errorf("error parsing device time %q: %w", text, err)
	}
	return t, nil
}

// SyncTime makes the controller resync its clock over ntp and returns the synced time
func (c *Client) SyncTime(ctx context.Context, address string) (time.Time, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, address, constants.DevicePathSyncTime, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("error syncing time on %s: %w", address, err)
	}

	// e.g. "Time synced: 2024-03-01 21:15:04"
	text := strings.TrimSpace(string(body))
	if i := strings.Index(text, ":"); i >= 0 && strings.HasPrefix(strings.ToLower(text), "time synced") {
		text = strings.TrimSpace(text[i+1:])
	}
	t, err := time.Parse(constants.DeviceTimeLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing synced time %q: %w", text, err)
	}
	return t, nil
}

// SetChannel drives one output of the controller directly. The level holds until the
// controller next applies its schedules.
func (c *Client) SetChannel(ctx context.Context, address string, channel models.Channel, level int) error {
	if !channel.Valid() {
		return fmt.Errorf("unknown channel: %q", channel)
	}
	if level < constants.MinBrightness || level > constants.MaxBrightness {
		return fmt.Errorf("invalid level %d, expected %d-%d", level, constants.MinBrightness, constants.MaxBrightness)
	}

	path := "/" + string(channel)
	switch level {
	case constants.MinBrightness:
		path += constants.DevicePathChannelOff
	case constants.MaxBrightness:
		path += constants.DevicePathChannelOn
	default:
		path += constants.DevicePathChannelBrightness + "?level=" + strconv.Itoa(level)
	}

	if _, err := c.makeRequest(ctx, http.MethodGet, address, path, nil); err != nil {
		return fmt.Errorf("error setting %s channel on %s: %w", channel, address, err)
	}

	c.logger.Debug("channel set", "address", address, "channel", channel, "level", level)
	return nil
}

func (c *Client) makeRequest(ctx context.Context, verb string, address string, path string, body []byte) ([]byte, error) {
	base := NormaliseAddress(address)
	if base == "" {
		return nil, errors.New("no device address")
	}
	url := base + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, verb, url, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Error making device call", "url", url, "status", resp.Status)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(responseBody))}
	}

	return responseBody, nil
}
