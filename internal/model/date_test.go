package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_Arithmetic(t *testing.T) {
	t.Parallel()

	start := NewDate(2025, time.December, 5)

	assert.Equal(t, "2025-12-10", start.AddDays(5).String())
	assert.Equal(t, "2026-01-04", start.AddDays(30).String())
	assert.Equal(t, 5, start.DaysUntil(start.AddDays(5)))
	assert.Equal(t, -2, start.DaysUntil(start.AddDays(-2)))
	assert.True(t, start.Before(start.AddDays(1)))
	assert.True(t, start.AddDays(1).After(start))
	assert.True(t, start.Equal(MustParseDate("2025-12-05")))
}

func TestDate_DaysUntilCountsCalendarDays(t *testing.T) {
	t.Parallel()

	start := NewDate(2025, time.December, 5)
	far := start.AddDays(200_000)

	assert.Equal(t, 200_000, start.DaysUntil(far), "spans beyond time.Duration stay exact")
	assert.Equal(t, -200_000, far.DaysUntil(start))
	assert.Equal(t, 1, NewDate(2026, time.March, 28).DaysUntil(NewDate(2026, time.March, 29)))
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	d := DateOf(time.Date(2025, time.December, 5, 23, 45, 0, 0, ist))

	assert.Equal(t, "2025-12-05", d.String())
	assert.True(t, d.Equal(NewDate(2025, time.December, 5)))
}

func TestDate_ParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseDate("05/12/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestDate_TextEncoding(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Start Date `json:"start" yaml:"start"`
	}

	t.Run("json round trip", func(t *testing.T) {
		raw, err := json.Marshal(wrapper{Start: NewDate(2025, time.December, 5)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"start":"2025-12-05"}`, string(raw))

		var back wrapper
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.True(t, back.Start.Equal(NewDate(2025, time.December, 5)))
	})

	t.Run("yaml scalar", func(t *testing.T) {
		var w wrapper
		require.NoError(t, yaml.Unmarshal([]byte("start: \"2025-12-05\"\n"), &w))
		assert.Equal(t, "2025-12-05", w.Start.String())
	})

	t.Run("empty leaves date unset", func(t *testing.T) {
		var w wrapper
		require.NoError(t, json.Unmarshal([]byte(`{"start":""}`), &w))
		assert.True(t, w.Start.IsZero())
	})
}

func TestDatesBetween(t *testing.T) {
	t.Parallel()

	start := MustParseDate("2025-12-30")
	days := DatesBetween(start, start.AddDays(3))

	require.Len(t, days, 4)
	assert.Equal(t, "2025-12-30", days[0].String())
	assert.Equal(t, "2026-01-02", days[3].String())
	assert.Nil(t, DatesBetween(start, start.AddDays(-1)))
}

func TestResolution_RangeFor(t *testing.T) {
	t.Parallel()

	start := MustParseDate("2025-12-05")
	res := Resolution{
		Start: start,
		End:   start.AddDays(5),
		Ranges: []DestinationRange{
			{Country: "France", City: "Paris", Nights: 3, CheckIn: start, CheckOut: start.AddDays(3)},
			{Country: "Italy", City: "Rome", Nights: 2, CheckIn: start.AddDays(3), CheckOut: start.AddDays(5)},
		},
	}

	rng, ok := res.RangeFor(start.AddDays(2))
	require.True(t, ok)
	assert.Equal(t, "Paris", rng.City)

	rng, ok = res.RangeFor(start.AddDays(3))
	require.True(t, ok)
	assert.Equal(t, "Rome", rng.City, "check-out day of one stay is check-in of the next")

	rng, ok = res.RangeFor(res.End)
	require.True(t, ok)
	assert.Equal(t, "Rome", rng.City, "departure day belongs to the last destination")

	_, ok = res.RangeFor(start.AddDays(-1))
	assert.False(t, ok)
}
