package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
)

func Test_PatternResolver_Resolve(t *testing.T) {

	// with this lat/lng and base date
	// sunrise will be 05:59 and sunset will be 18:06 (UTC)
	resolver := schedule.NewPatternResolver("0,0", time.UTC)
	baseDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		pattern  string
		expected models.TimeOfDay
	}{
		{pattern: "19:30", expected: hm(19, 30)},
		{pattern: "sunrise", expected: hm(5, 59)},
		{pattern: "sunset", expected: hm(18, 6)},
		{pattern: "sunrise+30m", expected: hm(6, 29)},
		{pattern: "sunset-1h", expected: hm(17, 6)},
		{pattern: "Sunset - 30m", expected: hm(17, 36)},
	}

	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			tod, err := resolver.Resolve(test.pattern, baseDate)
			require.NoError(t, err)
			assert.Equal(t, test.expected, tod)
		})
	}
}

func Test_PatternResolver_Errors(t *testing.T) {
	baseDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := schedule.NewPatternResolver("", time.UTC).Resolve("sunset", baseDate)
	assert.True(t, errors.Is(err, schedule.ErrNoGeoLocation))

	// fixed times never need a location
	tod, err := schedule.NewPatternResolver("", time.UTC).Resolve("07:15", baseDate)
	require.NoError(t, err)
	assert.Equal(t, hm(7, 15), tod)

	_, err = schedule.NewPatternResolver("0,0", time.UTC).Resolve("sunset+soon", baseDate)
	assert.Error(t, err)

	_, err = schedule.NewPatternResolver("nowhere", time.UTC).Resolve("sunrise", baseDate)
	assert.Error(t, err)
}
