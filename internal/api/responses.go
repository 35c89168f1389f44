package api

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/models"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

type RuleRequest struct {
	DeviceID  string `json:"deviceId"`
	LightMode string `json:"lightMode"`
	// accepted as an alias of lightMode, it is what the device firmware calls it
	LightType  string `json:"lightType"`
	Brightness *int   `json:"brightness"`
	// "HH:MM", "sunrise", "sunset-30m" or an RFC3339 timestamp
	Start string `json:"start"`
	End   string `json:"end"`
}

// Rule resolves the request into a candidate rule, time patterns are resolved for now
func (req RuleRequest) Rule(resolver timeResolver, now time.Time) (models.Rule, error) {
	modeText := lo.Ternary(req.LightMode != "", req.LightMode, req.LightType)
	mode, err := models.ParseLightMode(modeText)
	if err != nil {
		return models.Rule{}, &rulestore.ValidationError{Field: "lightMode", Reason: err.Error()}
	}
	if req.Brightness == nil {
		return models.Rule{}, &rulestore.ValidationError{Field: "brightness", Reason: "is required"}
	}
	start, err := resolveTime(resolver, req.Start, now)
	if err != nil {
		return models.Rule{}, &rulestore.ValidationError{Field: "start", Reason: err.Error()}
	}
	end, err := resolveTime(resolver, req.End, now)
	if err != nil {
		return models.Rule{}, &rulestore.ValidationError{Field: "end", Reason: err.Error()}
	}

	return models.Rule{
		DeviceID:   strings.TrimSpace(req.DeviceID),
		LightMode:  mode,
		Brightness: *req.Brightness,
		Interval:   models.Interval{Start: start, End: end},
	}, nil
}

func resolveTime(resolver timeResolver, value string, now time.Time) (models.TimeOfDay, error) {
	if strings.Contains(value, "T") {
		return models.ParseRecordTime(value)
	}
	return resolver.Resolve(value, now)
}

type RuleResponse struct {
	ID              string `json:"id"`
	DeviceID        string `json:"deviceId"`
	LightMode       string `json:"lightMode"`
	Brightness      int    `json:"brightness"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
	WrapsMidnight   bool   `json:"wrapsMidnight"`
}

func (r RuleResponse) rule() (models.Rule, error) {
	mode, err := models.ParseLightMode(r.LightMode)
	if err != nil {
		return models.Rule{}, err
	}
	start, err := models.ParseTimeOfDay(r.Start)
	if err != nil {
		return models.Rule{}, err
	}
	end, err := models.ParseTimeOfDay(r.End)
	if err != nil {
		return models.Rule{}, err
	}
	return models.Rule{
		ID:         r.ID,
		DeviceID:   r.DeviceID,
		LightMode:  mode,
		Brightness: r.Brightness,
		Interval:   models.Interval{Start: start, End: end},
	}, nil
}

func newRuleResponse(r models.Rule) RuleResponse {
	return RuleResponse{
		ID:              r.ID,
		DeviceID:        r.DeviceID,
		LightMode:       string(r.LightMode),
		Brightness:      r.Brightness,
		Start:           r.Interval.Start.String(),
		End:             r.Interval.End.String(),
		DurationMinutes: r.Interval.DurationMinutes(),
		WrapsMidnight:   r.Interval.WrapsMidnight(),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	// the offending time range of a conflict, "HH:MM - HH:MM"
	Range         string `json:"range,omitempty"`
	ConflictingID string `json:"conflictingId,omitempty"`
}

type SegmentResponse struct {
	RuleID          string `json:"ruleId"`
	DeviceID        string `json:"deviceId"`
	LightMode       string `json:"lightMode"`
	Brightness      int    `json:"brightness"`
	OffsetMinutes   int    `json:"offsetMinutes"`
	DurationMinutes int    `json:"durationMinutes"`
	Detail          string `json:"detail"`
}

type HourResponse struct {
	Hour     int               `json:"hour"`
	Segments []SegmentResponse `json:"segments"`
}

type NowResponse struct {
	Time     string  `json:"time"`
	Position float64 `json:"position"`
}

type TimelineResponse struct {
	HourWidth int            `json:"hourWidth"`
	Now       NowResponse    `json:"now"`
	Hours     []HourResponse `json:"hours"`
}

func newSegmentResponse(s schedule.Segment) SegmentResponse {
	return SegmentResponse{
		RuleID:          s.Rule.ID,
		DeviceID:        s.Rule.DeviceID,
		LightMode:       string(s.Rule.LightMode),
		Brightness:      s.Rule.Brightness,
		OffsetMinutes:   s.OffsetMinutesIntoHour,
		DurationMinutes: s.DurationMinutes,
		Detail:          s.Detail().String(),
	}
}

type ActiveResponse struct {
	At      string                          `json:"at"`
	Devices map[string]schedule.OutputState `json:"devices"`
}

type DeviceResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Type       string     `json:"type"`
	LastOnline *time.Time `json:"lastOnline,omitempty"`
	RuleCount  int        `json:"ruleCount"`
}

type ChannelRequest struct {
	// 0 switches the channel off, 100 fully on
	Level *int `json:"level"`
}

type TimeSyncResponse struct {
	Clock string `json:"clock"`
}

func NewDeviceResponse(d models.Device, ruleCount int) DeviceResponse {
	resp := DeviceResponse{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		Type:      d.Type,
		RuleCount: ruleCount,
	}
	if !d.LastOnline.IsZero() {
		lastOnline := d.LastOnline
		resp.LastOnline = &lastOnline
	}
	return resp
}
