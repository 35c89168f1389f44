package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/zielww/apollo/internal/constants"
)

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
}

func (c LogConfig) GetLevel() log.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

type StorageConfig struct {
	// sqlite or file
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type DirectoryConfig struct {
	// base url of the realtime database holding the device registrations
	URL   string `mapstructure:"url"`
	Watch bool   `mapstructure:"watch"`
}

type DeviceConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	PushInterval time.Duration `mapstructure:"pushInterval"`
}

type HTTPConfig struct {
	Listen string `mapstructure:"listen"`
}

type TimelineConfig struct {
	HourWidth int `mapstructure:"hourWidth"`
}

type Config struct {
	Log         LogConfig       `mapstructure:"log"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Directory   DirectoryConfig `mapstructure:"directory"`
	Device      DeviceConfig    `mapstructure:"device"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	Timeline    TimelineConfig  `mapstructure:"timeline"`
	GeoLocation string          `mapstructure:"geoLocation"`
	// address of a running apollod, when set the cli sends every operation to it
	Server string `mapstructure:"server"`
}

const StorageDriverSQLite = "sqlite"
const StorageDriverFile = "file"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/apollo.log")
	v.SetDefault("log.maxAgeDays", 3)
	v.SetDefault("storage.driver", StorageDriverSQLite)
	v.SetDefault("storage.path", "apollo.sqlite")
	v.SetDefault("directory.url", "")
	v.SetDefault("directory.watch", true)
	v.SetDefault("device.timeout", constants.DefaultDeviceTimeout)
	v.SetDefault("device.pushInterval", constants.DefaultPushInterval)
	v.SetDefault("http.listen", ":8080")
	v.SetDefault("timeline.hourWidth", 24)
	v.SetDefault("geoLocation", "")
	v.SetDefault("server", "")
}

// InitialiseConfig reads the config file (configFile, or "config.*" from the usual
// locations when empty), then APOLLO_ prefixed environment variables. A missing
// config file is not an error, defaults apply.
func InitialiseConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/apollo/")
		v.AddConfigPath("$HOME/.config/apollo/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("apollo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverSQLite, StorageDriverFile:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Timeline.HourWidth <= 0 {
		return fmt.Errorf("timeline.hourWidth must be positive, got %d", c.Timeline.HourWidth)
	}
	return nil
}
