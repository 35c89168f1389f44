package device_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/device"
	"github.com/zielww/apollo/internal/models"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

func Test_NormaliseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.168.1.20", "http://192.168.1.20"},
		{"http://192.168.1.20/", "http://192.168.1.20"},
		{"https://lamp.local", "https://lamp.local"},
		{" 10.0.0.5:8080 ", "http://10.0.0.5:8080"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, device.NormaliseAddress(tt.in), tt.in)
	}
}

func Test_PushSchedules(t *testing.T) {
	var received []models.RuleRecord
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/set_schedule", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.True(t, strings.HasPrefix(string(body), "["))
		assert.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte("Schedules updated successfully."))
	}))
	defer server.Close()

	records := []models.RuleRecord{{
		ID: "r1", DeviceID: "esp-1", LightType: "warm", Brightness: 70,
		StartTime: "2000-01-01T08:00:00Z", EndTime: "2000-01-01T09:00:00Z",
	}}

	client := device.NewClient(logger, 0)
	require.NoError(t, client.PushSchedules(context.Background(), server.URL, records))
	assert.Equal(t, records, received)
}

func Test_PushSchedules_EmptySetIsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "[]", string(body))
	}))
	defer server.Close()

	require.NoError(t, device.NewClient(logger, 0).PushSchedules(context.Background(), server.URL, nil))
}

func Test_PushSchedules_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Payload must be a JSON array of schedules.", http.StatusBadRequest)
	}))
	defer server.Close()

	err := device.NewClient(logger, 0).PushSchedules(context.Background(), server.URL, nil)
	require.Error(t, err)

	var statusErr *device.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "Payload must be a JSON array of schedules.", statusErr.Body)
}

func Test_PushSchedules_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	err := device.NewClient(logger, 0).PushSchedules(context.Background(), address, nil)
	assert.Error(t, err)
}

func Test_FetchSchedules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"r1","deviceId":"esp-1","lightType":"both","brightness":50,"startTime":"22:00","endTime":"06:00"}]`))
	}))
	defer server.Close()

	records, err := device.NewClient(logger, 0).FetchSchedules(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "both", records[0].LightType)

	rule, err := records[0].ToRule()
	require.NoError(t, err)
	assert.True(t, rule.Interval.WrapsMidnight())
}

func timeServer(t *testing.T, reply string) string {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time", r.URL.Path)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func Test_DeviceTime(t *testing.T) {
	client := device.NewClient(logger, 0)

	got, err := client.DeviceTime(context.Background(), timeServer(t, "2024-03-01 21:15:04"))
	require.NoError(t, err)
	assert.Equal(t, 21, got.Hour())
	assert.Equal(t, 15, got.Minute())

	_, err = client.DeviceTime(context.Background(), timeServer(t, "Time not synchronized yet"))
	assert.ErrorIs(t, err, device.ErrTimeNotSynced)

	_, err = client.DeviceTime(context.Background(), timeServer(t, "garbage"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, device.ErrTimeNotSynced)
}

func Test_SyncTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sync", r.URL.Path)
		_, _ = w.Write([]byte("Time synced: 2024-03-01 21:15:04"))
	}))
	defer server.Close()

	client := device.NewClient(logger, 0)
	got, err := client.SyncTime(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 21:15:04", got.Format("2006-01-02 15:04:05"))
}

func Test_SyncTime_Failed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Failed to sync time"))
	}))
	defer server.Close()

	client := device.NewClient(logger, 0)
	_, err := client.SyncTime(context.Background(), server.URL)

	var statusErr *device.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "Failed to sync time", statusErr.Body)
}

func Test_SetChannel(t *testing.T) {
	tests := []struct {
		channel models.Channel
		level   int
		want    string
	}{
		{channel: models.ChannelWarm, level: 0, want: "/warm/off"},
		{channel: models.ChannelWarm, level: 100, want: "/warm/on"},
		{channel: models.ChannelWarm, level: 60, want: "/warm/brightness?level=60"},
		{channel: models.ChannelNatural, level: 0, want: "/natural/off"},
		{channel: models.ChannelNatural, level: 5, want: "/natural/brightness?level=5"},
	}

	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, test.want, r.URL.RequestURI())
				_, _ = w.Write([]byte("OK"))
			}))
			defer server.Close()

			client := device.NewClient(logger, 0)
			require.NoError(t, client.SetChannel(context.Background(), server.URL, test.channel, test.level))
		})
	}
}

func Test_SetChannel_Invalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.RequestURI())
	}))
	defer server.Close()

	client := device.NewClient(logger, 0)
	assert.Error(t, client.SetChannel(context.Background(), server.URL, models.ChannelWarm, 101))
	assert.Error(t, client.SetChannel(context.Background(), server.URL, models.ChannelWarm, -1))
	assert.Error(t, client.SetChannel(context.Background(), server.URL, models.Channel("both"), 50))
}
