package schedule

import (
	"sort"

	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
)

// how much of a rule a timeline block has room to show, driven by the segment duration
type Detail int

const (
	// under 15 minutes
	DetailMinimal Detail = iota
	// 15 to 29 minutes
	DetailAbbreviated
	// 30 minutes or more
	DetailFull
)

func (d Detail) String() string {
	switch d {
	case DetailFull:
		return "full"
	case DetailAbbreviated:
		return "abbreviated"
	default:
		return "minimal"
	}
}

// the part of a rule that falls inside one hour bucket
type Segment struct {
	Rule                  models.Rule
	OffsetMinutesIntoHour int
	DurationMinutes       int
}

func (s Segment) Detail() Detail {
	switch {
	case s.DurationMinutes >= constants.DetailFullMinutes:
		return DetailFull
	case s.DurationMinutes >= constants.DetailAbbreviatedMinutes:
		return DetailAbbreviated
	default:
		return DetailMinimal
	}
}

// whether the given minute of the segment's hour is covered by the segment
func (s Segment) Covers(minute int) bool {
	return minute >= s.OffsetMinutesIntoHour && minute < s.OffsetMinutesIntoHour+s.DurationMinutes
}

// Project returns the portion of rule inside the hour bucket, or nil when the rule
// does not touch that hour. Buckets outside 0-23 never hold a segment. A wrapping rule
// that starts and ends in the same hour has two portions there, Project returns the
// earliest one and ProjectAll returns both.
func Project(rule models.Rule, bucket int) *Segment {
	segments := ProjectAll(rule, bucket)
	if len(segments) == 0 {
		return nil
	}
	return &segments[0]
}

// every portion of rule inside the hour bucket, ordered by offset into the hour
func ProjectAll(rule models.Rule, bucket int) []Segment {
	if bucket < 0 || bucket >= constants.HoursPerDay {
		return nil
	}

	hour := minuteRange{bucket * constants.MinutesPerHour, (bucket + 1) * constants.MinutesPerHour}

	var segments []Segment
	for _, r := range ranges(rule.Interval) {
		overlapStart := max(r.start, hour.start)
		overlapEnd := min(r.end, hour.end)
		if overlapStart < overlapEnd {
			segments = append(segments, Segment{
				Rule:                  rule,
				OffsetMinutesIntoHour: overlapStart - hour.start,
				DurationMinutes:       overlapEnd - overlapStart,
			})
		}
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].OffsetMinutesIntoHour < segments[j].OffsetMinutesIntoHour
	})

	return segments
}

// projects every rule onto every hour bucket, keeping rule order within each bucket
func Timeline(rules []models.Rule) [constants.HoursPerDay][]Segment {
	var timeline [constants.HoursPerDay][]Segment
	for bucket := range timeline {
		timeline[bucket] = lo.FlatMap(rules, func(rule models.Rule, _ int) []Segment {
			return ProjectAll(rule, bucket)
		})
	}
	return timeline
}
