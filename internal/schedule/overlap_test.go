package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
)

func hm(hour int, minute int) models.TimeOfDay {
	return models.TimeOfDay{Hour: hour, Minute: minute}
}

func interval(sh, sm, eh, em int) models.Interval {
	return models.Interval{Start: hm(sh, sm), End: hm(eh, em)}
}

func rule(id string, deviceID string, i models.Interval) models.Rule {
	return models.Rule{ID: id, DeviceID: deviceID, LightMode: models.LightModeWarm, Brightness: 80, Interval: i}
}

func Test_IntervalsOverlap(t *testing.T) {

	tests := []struct {
		name     string
		a        models.Interval
		b        models.Interval
		expected bool
	}{
		{name: "identical", a: interval(7, 0, 8, 0), b: interval(7, 0, 8, 0), expected: true},
		{name: "partial overlap", a: interval(7, 0, 8, 0), b: interval(7, 30, 9, 0), expected: true},
		{name: "contained", a: interval(6, 0, 10, 0), b: interval(7, 0, 8, 0), expected: true},
		{name: "shared endpoint", a: interval(8, 0, 9, 0), b: interval(9, 0, 10, 0), expected: false},
		{name: "shared endpoint reversed", a: interval(9, 0, 10, 0), b: interval(8, 0, 9, 0), expected: false},
		{name: "disjoint", a: interval(7, 0, 8, 0), b: interval(18, 30, 20, 0), expected: false},
		{name: "wrapping vs morning", a: interval(7, 0, 8, 0), b: interval(23, 30, 0, 30), expected: false},
		{name: "wrapping vs early morning", a: interval(23, 0, 0, 30), b: interval(0, 15, 1, 0), expected: true},
		{name: "wrapping vs late evening", a: interval(23, 0, 0, 30), b: interval(22, 0, 23, 15), expected: true},
		{name: "both wrapping", a: interval(22, 0, 1, 0), b: interval(23, 30, 0, 30), expected: true},
		{name: "wrapping touching end", a: interval(23, 0, 0, 30), b: interval(0, 30, 2, 0), expected: false},
		{name: "wrapping touching start", a: interval(23, 0, 0, 30), b: interval(21, 0, 23, 0), expected: false},
		{name: "ends at midnight vs early morning", a: interval(22, 0, 0, 0), b: interval(0, 0, 1, 0), expected: false},
		{name: "ends at midnight vs late evening", a: interval(22, 0, 0, 0), b: interval(23, 0, 23, 30), expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, schedule.IntervalsOverlap(test.a, test.b))
			// order never matters
			assert.Equal(t, test.expected, schedule.IntervalsOverlap(test.b, test.a))
		})
	}
}

func Test_FindConflict(t *testing.T) {

	existing := []models.Rule{
		rule("1", "D1", interval(7, 0, 8, 0)),
		rule("2", "D1", interval(23, 0, 0, 30)),
		rule("3", "D2", interval(12, 0, 13, 0)),
	}

	t.Run("reports the conflicting rule", func(t *testing.T) {
		conflict, found := schedule.FindConflict(interval(7, 30, 9, 0), "D1", existing)
		assert.True(t, found)
		assert.Equal(t, "1", conflict.ID)
		assert.Equal(t, "07:00 - 08:00", conflict.Interval.String())
	})

	t.Run("wrapping rule conflicts after midnight", func(t *testing.T) {
		conflict, found := schedule.FindConflict(interval(0, 15, 1, 0), "D1", existing)
		assert.True(t, found)
		assert.Equal(t, "2", conflict.ID)
	})

	t.Run("other devices never conflict", func(t *testing.T) {
		assert.False(t, schedule.HasConflict(interval(12, 0, 13, 0), "D1", existing))
		assert.False(t, schedule.HasConflict(interval(7, 0, 8, 0), "D2", existing))
		assert.False(t, schedule.HasConflict(interval(7, 0, 8, 0), "D3", existing))
	})

	t.Run("exact replacement is still a conflict", func(t *testing.T) {
		assert.True(t, schedule.HasConflict(interval(12, 0, 13, 0), "D2", existing))
	})

	t.Run("free slot", func(t *testing.T) {
		assert.False(t, schedule.HasConflict(interval(8, 0, 9, 0), "D1", existing))
	})

	t.Run("light mode is ignored", func(t *testing.T) {
		natural := append([]models.Rule{}, existing...)
		natural[0].LightMode = models.LightModeNatural
		assert.True(t, schedule.HasConflict(interval(7, 0, 7, 30), "D1", natural))
	})
}
