package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/models"
)

func Test_ParseTimeOfDay(t *testing.T) {

	tests := []struct {
		input    string
		expected models.TimeOfDay
		valid    bool
	}{
		{input: "07:00", expected: models.TimeOfDay{Hour: 7, Minute: 0}, valid: true},
		{input: "23:59", expected: models.TimeOfDay{Hour: 23, Minute: 59}, valid: true},
		{input: " 0:05 ", expected: models.TimeOfDay{Hour: 0, Minute: 5}, valid: true},
		{input: "24:00"},
		{input: "12:60"},
		{input: "noon"},
		{input: "12:3x"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			tod, err := models.ParseTimeOfDay(test.input)
			if !test.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, tod)
		})
	}
}

func Test_Interval(t *testing.T) {

	tests := []struct {
		name     string
		interval models.Interval
		wraps    bool
		duration int
		str      string
	}{
		{
			name:     "same day",
			interval: models.Interval{Start: models.TimeOfDay{Hour: 7}, End: models.TimeOfDay{Hour: 8}},
			duration: 60,
			str:      "07:00 - 08:00",
		},
		{
			name:     "spans midnight",
			interval: models.Interval{Start: models.TimeOfDay{Hour: 23, Minute: 30}, End: models.TimeOfDay{Hour: 0, Minute: 30}},
			wraps:    true,
			duration: 60,
			str:      "23:30 - 00:30",
		},
		{
			name:     "ends at midnight",
			interval: models.Interval{Start: models.TimeOfDay{Hour: 22}, End: models.TimeOfDay{Hour: 0}},
			wraps:    true,
			duration: 120,
			str:      "22:00 - 00:00",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.wraps, test.interval.WrapsMidnight())
			assert.Equal(t, test.duration, test.interval.DurationMinutes())
			assert.Equal(t, test.str, test.interval.String())
		})
	}
}

func Test_RuleRecord_RoundTrip(t *testing.T) {

	rules := []models.Rule{
		{ID: "a", DeviceID: "D1", LightMode: models.LightModeWarm, Brightness: 80,
			Interval: models.Interval{Start: models.TimeOfDay{Hour: 7}, End: models.TimeOfDay{Hour: 8}}},
		{ID: "b", DeviceID: "D1", LightMode: models.LightModeBoth, Brightness: 0,
			Interval: models.Interval{Start: models.TimeOfDay{Hour: 23, Minute: 30}, End: models.TimeOfDay{Hour: 0, Minute: 30}}},
		{ID: "c", DeviceID: "192.168.101.101", LightMode: models.LightModeNatural, Brightness: 100,
			Interval: models.Interval{Start: models.TimeOfDay{Hour: 18, Minute: 30}, End: models.TimeOfDay{Hour: 20}}},
	}

	records := models.ToRecords(rules)
	assert.Equal(t, "2000-01-01T07:00:00Z", records[0].StartTime)
	assert.Equal(t, "warm", records[0].LightType)

	back, err := models.FromRecords(records)
	require.NoError(t, err)
	assert.Equal(t, rules, back)
}

func Test_ParseRecordTime(t *testing.T) {
	// only the hour/minute components are read, whatever the date or offset
	tests := map[string]models.TimeOfDay{
		"2023-10-27T08:00:00Z":          {Hour: 8},
		"1899-12-31T22:15:00.000Z":      {Hour: 22, Minute: 15},
		"2024-06-01T06:45:00+02:00":     {Hour: 6, Minute: 45},
		"14:30":                         {Hour: 14, Minute: 30},
	}

	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			tod, err := models.ParseRecordTime(input)
			require.NoError(t, err)
			assert.Equal(t, expected, tod)
		})
	}

	_, err := models.ParseRecordTime("2023-10-27Tnope")
	assert.Error(t, err)
}

func Test_RuleRecord_ToRule_InvalidMode(t *testing.T) {
	_, err := models.RuleRecord{ID: "x", LightType: "purple", StartTime: "07:00", EndTime: "08:00"}.ToRule()
	assert.Error(t, err)
}

func Test_ParseChannel(t *testing.T) {
	c, err := models.ParseChannel(" Warm ")
	require.NoError(t, err)
	assert.Equal(t, models.ChannelWarm, c)

	c, err = models.ParseChannel("natural")
	require.NoError(t, err)
	assert.Equal(t, models.ChannelNatural, c)

	_, err = models.ParseChannel("both")
	assert.Error(t, err)
	assert.False(t, models.Channel("both").Valid())
}
