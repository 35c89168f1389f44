package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

// ResponseError is an error answer from apollod
type ResponseError struct {
	StatusCode int
	Response   ErrorResponse
}

func (e *ResponseError) Error() string {
	msg := lo.Ternary(e.Response.Message != "", e.Response.Message, e.Response.Error)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Response.ConflictingID != "" {
		return fmt.Sprintf("%s (rule %s)", msg, e.Response.ConflictingID)
	}
	return msg
}

func (e *ResponseError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound && e.Response.Error == "not_found" {
		return rulestore.ErrNotFound
	}
	return nil
}

// Client runs rule and device operations on a running apollod, so every change goes
// through the daemon's planner
type Client struct {
	logger     *log.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(logger *log.Logger, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultServerTimeout
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		logger:     logger,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) AddRule(ctx context.Context, req RuleRequest) (models.Rule, error) {
	var resp RuleResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/rules", nil, req, &resp); err != nil {
		return models.Rule{}, err
	}
	return resp.rule()
}

func (c *Client) RemoveRule(ctx context.Context, id string) error {
	return c.makeRequest(ctx, http.MethodDelete, "/rules/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Rules(ctx context.Context, deviceID string) ([]models.Rule, error) {
	query := url.Values{}
	if deviceID != "" {
		query.Set("deviceId", deviceID)
	}

	var resp []RuleResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/rules", query, nil, &resp); err != nil {
		return nil, err
	}

	rules := make([]models.Rule, 0, len(resp))
	for _, r := range resp {
		rule, err := r.rule()
		if err != nil {
			return nil, fmt.Errorf("error reading rule (%s): %w", r.ID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (c *Client) Active(ctx context.Context, at models.TimeOfDay) (map[string]schedule.OutputState, error) {
	var resp ActiveResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/active", url.Values{"at": {at.String()}}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

func (c *Client) Devices(ctx context.Context) ([]DeviceResponse, error) {
	var resp []DeviceResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/devices", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Sync(ctx context.Context, deviceID string) error {
	return c.makeRequest(ctx, http.MethodPost, devicePath(deviceID, "/sync"), nil, nil, nil)
}

func (c *Client) SetChannel(ctx context.Context, deviceID string, channel models.Channel, level int) error {
	path := devicePath(deviceID, "/channels/"+url.PathEscape(string(channel)))
	return c.makeRequest(ctx, http.MethodPost, path, nil, ChannelRequest{Level: &level}, nil)
}

func (c *Client) SyncTime(ctx context.Context, deviceID string) (time.Time, error) {
	var resp TimeSyncResponse
	if err := c.makeRequest(ctx, http.MethodPost, devicePath(deviceID, "/time/sync"), nil, nil, &resp); err != nil {
		return time.Time{}, err
	}
	return time.Parse(constants.DeviceTimeLayout, resp.Clock)
}

func (c *Client) DeviceStatus(ctx context.Context, deviceID string) (models.DeviceStatus, error) {
	var status models.DeviceStatus
	if err := c.makeRequest(ctx, http.MethodGet, devicePath(deviceID, "/status"), nil, nil, &status); err != nil {
		return models.DeviceStatus{}, err
	}
	return status, nil
}

func devicePath(deviceID string, suffix string) string {
	return "/devices/" + url.PathEscape(deviceID) + suffix
}

func (c *Client) makeRequest(ctx context.Context, verb string, path string, query url.Values, in any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, verb, target, bodyReader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling apollod: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respErr := &ResponseError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&respErr.Response); err != nil && !errors.Is(err, io.EOF) {
			c.logger.Debug("unreadable error response", "url", target, "err", err)
		}
		c.logger.Debug("apollod call failed", "url", target, "status", resp.Status)
		return respErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error parsing apollod response: %w", err)
	}
	return nil
}
