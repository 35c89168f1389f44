package rulestore_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zielww/apollo/internal/models"
	rulestore "github.com/zielww/apollo/internal/ruleStore"
	"github.com/zielww/apollo/internal/schedule"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}
}

func candidate(deviceID string, mode models.LightMode, brightness int, sh, sm, eh, em int) models.Rule {
	return models.Rule{
		DeviceID:   deviceID,
		LightMode:  mode,
		Brightness: brightness,
		Interval: models.Interval{
			Start: models.TimeOfDay{Hour: sh, Minute: sm},
			End:   models.TimeOfDay{Hour: eh, Minute: em},
		},
	}
}

func Test_Store_Scenarios(t *testing.T) {

	t.Run("add to an empty store", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())

		added, err := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))

		require.NoError(t, err)
		assert.Equal(t, "r1", added.ID)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("overlap on the same device is rejected", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())
		_, err := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
		require.NoError(t, err)

		_, err = store.Add(candidate("D1", models.LightModeNatural, 50, 7, 30, 9, 0))

		var conflictErr *rulestore.ConflictError
		require.True(t, errors.As(err, &conflictErr))
		assert.Equal(t, "07:00 - 08:00", conflictErr.Range())
		assert.Contains(t, err.Error(), "07:00 - 08:00")
		assert.Equal(t, 1, store.Len())
	})

	t.Run("overlap on another device is accepted", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())
		_, err := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
		require.NoError(t, err)

		_, err = store.Add(candidate("D2", models.LightModeNatural, 50, 7, 30, 9, 0))

		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())
		assert.Len(t, store.ListByDevice("D1"), 1)
		assert.Len(t, store.ListByDevice("D2"), 1)
	})

	t.Run("midnight wrapping rules", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())
		_, err := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
		require.NoError(t, err)
		_, err = store.Add(candidate("D1", models.LightModeWarm, 60, 23, 30, 0, 30))
		require.NoError(t, err)

		_, err = store.Add(candidate("D1", models.LightModeBoth, 60, 0, 15, 1, 0))
		var conflictErr *rulestore.ConflictError
		require.True(t, errors.As(err, &conflictErr))
		assert.Equal(t, "23:30 - 00:30", conflictErr.Range())

		_, err = store.Add(candidate("D1", models.LightModeBoth, 60, 0, 30, 1, 0))
		assert.NoError(t, err)
	})

	t.Run("shared endpoints are accepted", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())
		_, err := store.Add(candidate("D1", models.LightModeWarm, 80, 8, 0, 9, 0))
		require.NoError(t, err)
		_, err = store.Add(candidate("D1", models.LightModeWarm, 80, 9, 0, 10, 0))
		assert.NoError(t, err)
		_, err = store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
		assert.NoError(t, err)
	})
}

func Test_Store_Validation(t *testing.T) {

	tests := []struct {
		name      string
		candidate models.Rule
		field     string
	}{
		{name: "brightness too high", candidate: candidate("D1", models.LightModeWarm, 101, 7, 0, 8, 0), field: "brightness"},
		{name: "brightness negative", candidate: candidate("D1", models.LightModeWarm, -1, 7, 0, 8, 0), field: "brightness"},
		{name: "zero duration", candidate: candidate("D1", models.LightModeWarm, 50, 7, 0, 7, 0), field: "interval"},
		{name: "unknown mode", candidate: candidate("D1", models.LightMode("disco"), 50, 7, 0, 8, 0), field: "lightMode"},
		{name: "no device", candidate: candidate("", models.LightModeWarm, 50, 7, 0, 8, 0), field: "deviceId"},
		{name: "bad start", candidate: candidate("D1", models.LightModeWarm, 50, 24, 0, 8, 0), field: "start"},
		{name: "bad end", candidate: candidate("D1", models.LightModeWarm, 50, 7, 0, 8, 60), field: "end"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := rulestore.NewStore()
			_, err := store.Add(test.candidate)

			var validationErr *rulestore.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, test.field, validationErr.Field)
			assert.Equal(t, 0, store.Len())
		})
	}

	t.Run("zero brightness is valid", func(t *testing.T) {
		store := rulestore.NewStore()
		_, err := store.Add(candidate("D1", models.LightModeWarm, 0, 7, 0, 8, 0))
		assert.NoError(t, err)
	})

	t.Run("validation runs before the conflict check", func(t *testing.T) {
		store := rulestore.NewStore()
		_, err := store.Add(candidate("D1", models.LightModeWarm, 50, 7, 0, 8, 0))
		require.NoError(t, err)

		_, err = store.Add(candidate("D1", models.LightModeWarm, 150, 7, 0, 8, 0))
		var validationErr *rulestore.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func Test_Store_Remove(t *testing.T) {
	store := rulestore.NewStoreWithIDs(sequentialIDs())
	a, _ := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
	b, _ := store.Add(candidate("D1", models.LightModeWarm, 80, 9, 0, 10, 0))
	c, _ := store.Add(candidate("D1", models.LightModeWarm, 80, 11, 0, 12, 0))

	listed := store.List()

	assert.True(t, store.Remove(b.ID))
	assert.False(t, store.Remove(b.ID))
	assert.False(t, store.Remove("missing"))

	assert.Equal(t, []models.Rule{a, c}, store.List())
	// earlier snapshots are not affected
	assert.Equal(t, []models.Rule{a, b, c}, listed)

	_, found := store.Get(b.ID)
	assert.False(t, found)
	got, found := store.Get(c.ID)
	assert.True(t, found)
	assert.Equal(t, c, got)

	// the freed slot can be reused, the id cannot
	again, err := store.Add(candidate("D1", models.LightModeNatural, 30, 9, 0, 10, 0))
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, again.ID)
}

func Test_Store_UniqueIDs(t *testing.T) {
	// an id source that repeats itself
	ids := []string{"x", "x", "y"}
	n := 0
	store := rulestore.NewStoreWithIDs(func() string {
		id := ids[n%len(ids)]
		n++
		return id
	})

	first, err := store.Add(candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0))
	require.NoError(t, err)
	second, err := store.Add(candidate("D1", models.LightModeWarm, 80, 9, 0, 10, 0))
	require.NoError(t, err)

	assert.Equal(t, "x", first.ID)
	assert.Equal(t, "y", second.ID)
}

func Test_Store_Load(t *testing.T) {

	persisted := []models.Rule{
		withID("a", candidate("D1", models.LightModeWarm, 80, 7, 0, 8, 0)),
		withID("b", candidate("D1", models.LightModeNatural, 50, 18, 30, 20, 0)),
		withID("c", candidate("D2", models.LightModeBoth, 100, 7, 0, 8, 0)),
	}

	t.Run("loads rules keeping ids and order", func(t *testing.T) {
		store := rulestore.NewStore()
		require.NoError(t, store.Load(persisted))
		assert.Equal(t, persisted, store.List())
		assert.ElementsMatch(t, []string{"D1", "D2"}, store.Devices())
	})

	t.Run("conflicting set leaves the store untouched", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(sequentialIDs())
		existing, _ := store.Add(candidate("D3", models.LightModeWarm, 10, 1, 0, 2, 0))

		bad := append(append([]models.Rule{}, persisted...), withID("d", candidate("D1", models.LightModeWarm, 80, 7, 30, 7, 45)))
		err := store.Load(bad)

		var conflictErr *rulestore.ConflictError
		require.True(t, errors.As(err, &conflictErr))
		assert.Equal(t, []models.Rule{existing}, store.List())
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		store := rulestore.NewStore()
		err := store.Load([]models.Rule{persisted[0], withID("a", candidate("D9", models.LightModeWarm, 80, 7, 0, 8, 0))})
		var validationErr *rulestore.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "id", validationErr.Field)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("loaded ids are never handed out again", func(t *testing.T) {
		store := rulestore.NewStoreWithIDs(func() func() string {
			ids := []string{"a", "z"}
			n := 0
			return func() string { n++; return ids[(n-1)%2] }
		}())
		require.NoError(t, store.Load(persisted))
		added, err := store.Add(candidate("D1", models.LightModeWarm, 80, 12, 0, 13, 0))
		require.NoError(t, err)
		assert.Equal(t, "z", added.ID)
	})
}

func withID(id string, r models.Rule) models.Rule {
	r.ID = id
	return r
}

func Test_Store_NonOverlapInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	store := rulestore.NewStore()
	devices := []string{"D1", "D2", "D3"}

	for i := 0; i < 500; i++ {
		c := candidate(
			devices[rnd.Intn(len(devices))],
			models.LightModeWarm,
			rnd.Intn(101),
			rnd.Intn(24), rnd.Intn(60), rnd.Intn(24), rnd.Intn(60),
		)
		_, _ = store.Add(c)
	}

	require.GreaterOrEqual(t, store.Len(), 3)

	rules := store.List()
	for i, a := range rules {
		for _, b := range rules[i+1:] {
			if a.DeviceID != b.DeviceID {
				continue
			}
			assert.False(t, schedule.IntervalsOverlap(a.Interval, b.Interval), "%s and %s overlap on %s", a.Interval, b.Interval, a.DeviceID)
		}
	}
}
