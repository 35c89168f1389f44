package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/zielww/apollo/internal/models"
)

var ErrNoGeoLocation = errors.New("no geoLocation configured, sunrise/sunset times are unavailable")

// resolves time patterns entered when creating a rule ("19:30", "sunrise", "sunset-30m")
// into a fixed time of day. the rule only ever stores the resolved value.
type PatternResolver struct {
	geoLocation string
	location    *time.Location
}

func NewPatternResolver(geoLocation string, location *time.Location) *PatternResolver {
	if location == nil {
		location = time.Local
	}
	return &PatternResolver{geoLocation: geoLocation, location: location}
}

func (p *PatternResolver) SunriseSunset(baseDate time.Time) (time.Time, time.Time, error) {
	if strings.TrimSpace(p.geoLocation) == "" {
		return time.Time{}, time.Time{}, ErrNoGeoLocation
	}
	latLng := strings.Split(p.geoLocation, ",")
	if len(latLng) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid geoLocation %q, expected \"lat,lng\"", p.geoLocation)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latLng[0]), 64)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid latitude in geoLocation: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(latLng[1]), 64)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid longitude in geoLocation: %w", err)
	}

	rise, set := sunrise.SunriseSunset(
		lat, lng,
		baseDate.Year(), baseDate.Month(), baseDate.Day(),
	)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("no sunrise/sunset at %s on %s", p.geoLocation, baseDate.Format("2006-01-02"))
	}
	return rise.In(p.location), set.In(p.location), nil
}

func (p *PatternResolver) Resolve(pattern string, baseDate time.Time) (models.TimeOfDay, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))

	for _, event := range []string{"sunrise", "sunset"} {
		if !strings.HasPrefix(pattern, event) {
			continue
		}
		rise, set, err := p.SunriseSunset(baseDate)
		if err != nil {
			return models.TimeOfDay{}, err
		}
		eventTime := rise
		if event == "sunset" {
			eventTime = set
		}
		t, err := timeFromAstronomicalPattern(pattern, event, eventTime)
		if err != nil {
			return models.TimeOfDay{}, err
		}
		return models.TimeOfDayFromTime(t), nil
	}

	// time e.g 19:30
	return models.ParseTimeOfDay(pattern)
}

// returns an adjusted eventTime e.g ("sunset-1h", "sunset", 2023-06-27 21:43:18) -> 2023-06-27 20:43:18
func timeFromAstronomicalPattern(pattern string, event string, eventTime time.Time) (time.Time, error) {
	if pattern == event {
		return eventTime, nil
	}
	offset, err := time.ParseDuration(strings.ReplaceAll(pattern[len(event):], " ", ""))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid offset in %q: %w", pattern, err)
	}
	return eventTime.Add(offset), nil
}
