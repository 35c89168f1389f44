package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zielww/apollo/internal/constants"
)

// a wall clock point with no date component
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour int, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute: %d", minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// returns a TimeOfDay built from the supplied time string (e.g. "06:30")
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	timeHM := strings.Split(strings.TrimSpace(s), ":")
	if len(timeHM) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(timeHM[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	mins, err := strconv.Atoi(timeHM[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	return NewTimeOfDay(hour, mins)
}

func TimeOfDayFromTime(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*constants.MinutesPerHour + t.Minute
}

func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// End may be earlier than Start, in which case the interval wraps past midnight
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (i Interval) WrapsMidnight() bool {
	return i.End.MinutesSinceMidnight() < i.Start.MinutesSinceMidnight()
}

func (i Interval) Degenerate() bool {
	return i.Start == i.End
}

// total length in minutes, wraparound included
func (i Interval) DurationMinutes() int {
	s, e := i.Start.MinutesSinceMidnight(), i.End.MinutesSinceMidnight()
	if e < s {
		return constants.MinutesPerDay - s + e
	}
	return e - s
}

func (i Interval) String() string {
	return fmt.Sprintf("%s - %s", i.Start, i.End)
}

type LightMode string

const (
	LightModeWarm    LightMode = "warm"
	LightModeNatural LightMode = "natural"
	LightModeBoth    LightMode = "both"
)

func ParseLightMode(s string) (LightMode, error) {
	switch LightMode(strings.ToLower(strings.TrimSpace(s))) {
	case LightModeWarm:
		return LightModeWarm, nil
	case LightModeNatural:
		return LightModeNatural, nil
	case LightModeBoth:
		return LightModeBoth, nil
	}
	return "", fmt.Errorf("unknown light mode: %q", s)
}

func (m LightMode) Valid() bool {
	return m == LightModeWarm || m == LightModeNatural || m == LightModeBoth
}

// one of the two outputs of a controller
type Channel string

const (
	ChannelWarm    Channel = "warm"
	ChannelNatural Channel = "natural"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelWarm:
		return ChannelWarm, nil
	case ChannelNatural:
		return ChannelNatural, nil
	}
	return "", fmt.Errorf("unknown channel: %q", s)
}

func (c Channel) Valid() bool {
	return c == ChannelWarm || c == ChannelNatural
}

// a recurring daily window during which a device should be in the given state
type Rule struct {
	ID         string
	DeviceID   string
	LightMode  LightMode
	Brightness int
	Interval   Interval
}

// an entry from the device directory
type Device struct {
	ID         string
	Name       string
	Address    string
	Type       string
	LastOnline time.Time
}

// what a controller reports about itself, next to the rules held for it
type DeviceStatus struct {
	DeviceID string `json:"deviceId"`
	Address  string `json:"address"`
	// the controller's wall clock, empty until it has synced over ntp
	Clock         string       `json:"clock,omitempty"`
	TimeSynced    bool         `json:"timeSynced"`
	Schedules     []RuleRecord `json:"schedules"`
	ExpectedRules int          `json:"expectedRules"`
	InSync        bool         `json:"inSync"`
	Warnings      []string     `json:"warnings,omitempty"`
}
