package resolver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = model.MustParseDate("2025-12-05")

func TestResolve_PrimaryDestination(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		destinations  []model.Destination
		override      *model.PrimaryOverride
		wantCountry   string
		wantCity      string
		wantAmbiguous bool
		wantTied      []string
	}{
		{
			name:          "tie goes to first in visiting order",
			destinations:  []model.Destination{{Country: "France", Nights: 5}, {Country: "Italy", Nights: 5}},
			wantCountry:   "France",
			wantCity:      "Paris",
			wantAmbiguous: true,
			wantTied:      []string{"France", "Italy"},
		},
		{
			name:         "most nights wins",
			destinations: []model.Destination{{Country: "France", Nights: 3}, {Country: "Italy", Nights: 5}},
			wantCountry:  "Italy",
			wantCity:     "Rome",
		},
		{
			name:         "caller city beats table",
			destinations: []model.Destination{{Country: "Italy", City: "Florence", Nights: 4}},
			wantCountry:  "Italy",
			wantCity:     "Florence",
		},
		{
			name:         "override wins over nights",
			destinations: []model.Destination{{Country: "France", Nights: 2}, {Country: "Germany", Nights: 6}},
			override:     &model.PrimaryOverride{Country: "france", City: "Lyon"},
			wantCountry:  "France",
			wantCity:     "Lyon",
		},
		{
			name:         "unknown country falls back to its own name",
			destinations: []model.Destination{{Country: "Atlantis", Nights: 2}},
			wantCountry:  "Atlantis",
			wantCity:     "Atlantis",
		},
		{
			name: "repeated country is one tie member",
			destinations: []model.Destination{
				{Country: "Spain", Nights: 3}, {Country: "Portugal", Nights: 2}, {Country: "Spain", Nights: 3},
			},
			wantCountry: "Spain",
			wantCity:    "Madrid",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Resolve(tc.destinations, start, tc.override)
			require.NoError(t, err)

			assert.Equal(t, tc.wantCountry, res.PrimaryCountry)
			assert.Equal(t, tc.wantCity, res.PrimaryCity)
			assert.Equal(t, tc.wantAmbiguous, res.Ambiguous)
			if diff := cmp.Diff(tc.wantTied, res.Tied); diff != "" {
				t.Errorf("tied set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_DateArithmetic(t *testing.T) {
	t.Parallel()

	destinations := []model.Destination{
		{Country: "France", City: "Paris", Nights: 3},
		{Country: "Italy", Nights: 4},
		{Country: "Spain", City: "Barcelona", Nights: 2},
	}

	res, err := Resolve(destinations, start, nil)
	require.NoError(t, err)

	want := []model.DestinationRange{
		{Country: "France", City: "Paris", Nights: 3, CheckIn: model.MustParseDate("2025-12-05"), CheckOut: model.MustParseDate("2025-12-08")},
		{Country: "Italy", City: "Rome", Nights: 4, CheckIn: model.MustParseDate("2025-12-08"), CheckOut: model.MustParseDate("2025-12-12")},
		{Country: "Spain", City: "Barcelona", Nights: 2, CheckIn: model.MustParseDate("2025-12-12"), CheckOut: model.MustParseDate("2025-12-14")},
	}
	if diff := cmp.Diff(want, res.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 9, res.TotalNights)
	assert.Equal(t, "2025-12-14", res.End.String())
	assert.Equal(t, res.TotalNights, res.Start.DaysUntil(res.End), "end must equal start plus total nights")
	assert.True(t, res.Ranges[len(res.Ranges)-1].CheckOut.Equal(res.End))
}

func TestResolve_SingleDestination(t *testing.T) {
	t.Parallel()

	res, err := Resolve([]model.Destination{{Country: "France", City: "Paris", Nights: 5}}, start, nil)
	require.NoError(t, err)

	assert.Equal(t, "2025-12-10", res.End.String())
	assert.Equal(t, "France", res.PrimaryCountry)
	assert.False(t, res.Ambiguous)
	assert.Empty(t, res.Tied)
}

func TestResolve_Errors(t *testing.T) {
	t.Parallel()

	_, err := Resolve(nil, start, nil)
	assert.True(t, errors.Is(err, model.ErrEmptyDestinationList))

	_, err = Resolve([]model.Destination{{Country: "France", Nights: 2}}, start, &model.PrimaryOverride{Country: "Germany"})
	var invalid *model.InvalidPrimaryDestinationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Germany", invalid.Country)
	assert.Equal(t, []string{"France"}, invalid.Listed)
}
