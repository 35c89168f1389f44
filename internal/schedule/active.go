package schedule

import (
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/models"
)

// the per channel state a device should be in
type OutputState struct {
	WarmOn            bool `json:"warmOn"`
	WarmBrightness    int  `json:"warmBrightness"`
	NaturalOn         bool `json:"naturalOn"`
	NaturalBrightness int  `json:"naturalBrightness"`
}

// the rules covering the given instant, start inclusive and end exclusive
func ActiveAt(rules []models.Rule, instant models.TimeOfDay) []models.Rule {
	minute := instant.MinutesSinceMidnight()
	return lo.Filter(rules, func(rule models.Rule, _ int) bool {
		return lo.ContainsBy(ranges(rule.Interval), func(r minuteRange) bool {
			return minute >= r.start && minute < r.end
		})
	})
}

// combines the active rules into channel state, "both" drives both channels and the
// brightest rule wins. a channel with no active rule is off.
func ResolveOutput(active []models.Rule) OutputState {
	var out OutputState
	for _, rule := range active {
		if rule.LightMode == models.LightModeWarm || rule.LightMode == models.LightModeBoth {
			out.WarmOn = true
			out.WarmBrightness = max(out.WarmBrightness, rule.Brightness)
		}
		if rule.LightMode == models.LightModeNatural || rule.LightMode == models.LightModeBoth {
			out.NaturalOn = true
			out.NaturalBrightness = max(out.NaturalBrightness, rule.Brightness)
		}
	}
	return out
}
