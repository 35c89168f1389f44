package rulestore

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/zielww/apollo/internal/constants"
	"github.com/zielww/apollo/internal/models"
	"github.com/zielww/apollo/internal/schedule"
)

// Store is the ordered set of committed rules. For any one device the committed
// intervals never overlap. It does no locking, callers serialise Add/Remove/Load.
type Store struct {
	rules []models.Rule
	// every id ever handed out or loaded, so ids are never reused
	used  map[string]struct{}
	newID func() string
}

func NewStore() *Store {
	return NewStoreWithIDs(uuid.NewString)
}

func NewStoreWithIDs(newID func() string) *Store {
	return &Store{used: map[string]struct{}{}, newID: newID}
}

// Validate checks a candidate rule on its own, before any conflict check
func Validate(candidate models.Rule) error {
	if candidate.DeviceID == "" {
		return &ValidationError{Field: "deviceId", Reason: "must not be empty"}
	}
	if !candidate.LightMode.Valid() {
		return &ValidationError{Field: "lightMode", Reason: fmt.Sprintf("unknown mode %q", candidate.LightMode)}
	}
	if candidate.Brightness < constants.MinBrightness || candidate.Brightness > constants.MaxBrightness {
		return &ValidationError{Field: "brightness", Reason: fmt.Sprintf("%d is outside %d-%d", candidate.Brightness, constants.MinBrightness, constants.MaxBrightness)}
	}
	if !candidate.Interval.Start.Valid() {
		return &ValidationError{Field: "start", Reason: fmt.Sprintf("%s is not a time of day", candidate.Interval.Start)}
	}
	if !candidate.Interval.End.Valid() {
		return &ValidationError{Field: "end", Reason: fmt.Sprintf("%s is not a time of day", candidate.Interval.End)}
	}
	if candidate.Interval.Degenerate() {
		return &ValidationError{Field: "interval", Reason: "start and end must differ"}
	}
	return nil
}

// Add commits the candidate under a fresh id. On any error the store is unchanged.
func (s *Store) Add(candidate models.Rule) (models.Rule, error) {
	if err := Validate(candidate); err != nil {
		return models.Rule{}, err
	}

	conflict, found := schedule.FindConflict(candidate.Interval, candidate.DeviceID, s.ListByDevice(candidate.DeviceID))
	if found {
		return models.Rule{}, &ConflictError{Candidate: candidate.Interval, Conflicting: conflict}
	}

	rule := candidate
	rule.ID = s.nextID()
	s.rules = append(s.rules, rule)
	return rule, nil
}

func (s *Store) Remove(id string) bool {
	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i:i], s.rules[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Get(id string) (models.Rule, bool) {
	return lo.Find(s.rules, func(r models.Rule) bool { return r.ID == id })
}

func (s *Store) ListByDevice(deviceID string) []models.Rule {
	return lo.Filter(s.rules, func(r models.Rule, _ int) bool { return r.DeviceID == deviceID })
}

func (s *Store) List() []models.Rule {
	return append([]models.Rule{}, s.rules...)
}

func (s *Store) Devices() []string {
	return lo.Uniq(lo.Map(s.rules, func(r models.Rule, _ int) string { return r.DeviceID }))
}

func (s *Store) Len() int {
	return len(s.rules)
}

// Load replaces the store contents with previously persisted rules, keeping their ids.
// Either every rule is accepted or the store is left as it was.
func (s *Store) Load(rules []models.Rule) error {
	loaded := NewStoreWithIDs(s.newID)

	for _, rule := range rules {
		if rule.ID == "" {
			return &ValidationError{Field: "id", Reason: "persisted rule has no id"}
		}
		if _, dup := loaded.used[rule.ID]; dup {
			return &ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %s", rule.ID)}
		}
		if err := Validate(rule); err != nil {
			return fmt.Errorf("error loading rule (%s): %w", rule.ID, err)
		}
		conflict, found := schedule.FindConflict(rule.Interval, rule.DeviceID, loaded.ListByDevice(rule.DeviceID))
		if found {
			return fmt.Errorf("error loading rule (%s): %w", rule.ID, &ConflictError{Candidate: rule.Interval, Conflicting: conflict})
		}
		loaded.rules = append(loaded.rules, rule)
		loaded.used[rule.ID] = struct{}{}
	}

	s.rules = loaded.rules
	for id := range loaded.used {
		s.used[id] = struct{}{}
	}
	return nil
}

func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, taken := s.used[id]; !taken {
			s.used[id] = struct{}{}
			return id
		}
	}
}
