package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/app"
	"github.com/zielww/apollo/internal/config"
	"github.com/zielww/apollo/internal/models"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})

func Test_New(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`rules:
  - id: a
    deviceId: esp-1
    lightType: warm
    brightness: 60
    startTime: "07:00"
    endTime: "08:00"
`), 0o644))

	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverFile, Path: path}}

	a, err := app.New(cfg, logger)
	require.NoError(t, err)
	defer a.Close()

	rules := a.Planner.Rules("")
	require.Len(t, rules, 1)
	assert.Equal(t, models.TimeOfDay{Hour: 7}, rules[0].Interval.Start)
	assert.False(t, a.Directory.Enabled())
}

func Test_New_InvalidStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [{id: a, lightType: warm, startTime: '07:00', endTime: '07:00'}]"), 0o644))

	_, err := app.New(&config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverFile, Path: path}}, logger)
	assert.Error(t, err)

	_, err = app.New(&config.Config{Storage: config.StorageConfig{Driver: "nope"}}, logger)
	assert.Error(t, err)
}
