package schedule

import (
	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
)

// a half-open [start, end) range of minutes since midnight
type minuteRange struct {
	start int
	end   int
}

func (r minuteRange) overlaps(o minuteRange) bool {
	return r.start < o.end && o.start < r.end
}

// splits an interval that wraps midnight into its two same-day ranges
func ranges(i models.Interval) []minuteRange {
	s := i.Start.MinutesSinceMidnight()
	e := i.End.MinutesSinceMidnight()
	if e < s {
		return []minuteRange{{s, constants.MinutesPerDay}, {0, e}}
	}
	return []minuteRange{{s, e}}
}

// reports whether two intervals share at least one minute of the day.
// touching endpoints do not count.
func IntervalsOverlap(a models.Interval, b models.Interval) bool {
	for _, ra := range ranges(a) {
		for _, rb := range ranges(b) {
			if ra.overlaps(rb) {
				return true
			}
		}
	}
	return false
}

// returns the first existing rule for deviceID whose interval overlaps the candidate
func FindConflict(candidate models.Interval, deviceID string, existing []models.Rule) (models.Rule, bool) {
	for _, rule := range existing {
		if rule.DeviceID != deviceID {
			continue
		}
		if IntervalsOverlap(candidate, rule.Interval) {
			return rule, true
		}
	}
	return models.Rule{}, false
}

func HasConflict(candidate models.Interval, deviceID string, existing []models.Rule) bool {
	_, conflict := FindConflict(candidate, deviceID, existing)
	return conflict
}
