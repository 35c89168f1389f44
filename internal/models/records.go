package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/zielww/apollo/internal/constants"
)

// the persisted/wire form of a rule, shared by the repos and the device firmware
type RuleRecord struct {
	ID         string `json:"id" yaml:"id"`
	DeviceID   string `json:"deviceId" yaml:"deviceId"`
	LightType  string `json:"lightType" yaml:"lightType"`
	Brightness int    `json:"brightness" yaml:"brightness"`
	StartTime  string `json:"startTime" yaml:"startTime"`
	EndTime    string `json:"endTime" yaml:"endTime"`
}

// formats a time of day as an RFC3339 timestamp on the record base date
func FormatRecordTime(t TimeOfDay) string {
	return time.Date(constants.RecordBaseYear, time.January, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(time.RFC3339)
}

// reads the hour and minute back out of a record time, accepting RFC3339 or "HH:MM"
func ParseRecordTime(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "T") {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid record time %q: %w", s, err)
		}
		return TimeOfDayFromTime(t), nil
	}
	return ParseTimeOfDay(s)
}

func (r Rule) ToRecord() RuleRecord {
	return RuleRecord{
		ID:         r.ID,
		DeviceID:   r.DeviceID,
		LightType:  string(r.LightMode),
		Brightness: r.Brightness,
		StartTime:  FormatRecordTime(r.Interval.Start),
		EndTime:    FormatRecordTime(r.Interval.End),
	}
}

func (rec RuleRecord) ToRule() (Rule, error) {
	mode, err := ParseLightMode(rec.LightType)
	if err != nil {
		return Rule{}, fmt.Errorf("error reading rule (%s): %w", rec.ID, err)
	}
	start, err := ParseRecordTime(rec.StartTime)
	if err != nil {
		return Rule{}, fmt.Errorf("error reading rule (%s) start time: %w", rec.ID, err)
	}
	end, err := ParseRecordTime(rec.EndTime)
	if err != nil {
		return Rule{}, fmt.Errorf("error reading rule (%s) end time: %w", rec.ID, err)
	}
	return Rule{
		ID:         rec.ID,
		DeviceID:   rec.DeviceID,
		LightMode:  mode,
		Brightness: rec.Brightness,
		Interval:   Interval{Start: start, End: end},
	}, nil
}

func ToRecords(rules []Rule) []RuleRecord {
	records := make([]RuleRecord, 0, len(rules))
	for _, r := range rules {
		records = append(records, r.ToRecord())
	}
	return records
}

func FromRecords(records []RuleRecord) ([]Rule, error) {
	rules := make([]Rule, 0, len(records))
	for _, rec := range records {
		r, err := rec.ToRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
