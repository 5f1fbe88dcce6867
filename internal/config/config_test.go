package config

import (
	"testing"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValidAndCoversEveryCapability(t *testing.T) {
	t.Parallel()

	m := Default()

	require.NoError(t, m.Validate())
	for _, c := range model.Capabilities {
		def, ok := m.Capabilities[c]
		require.True(t, ok, "capability %s missing", c)
		require.Len(t, def.Providers, 1)
		assert.Equal(t, SampleKind, m.Providers[def.Providers[0]].Kind)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(m *Model)
		wantErr []string
	}{
		{
			name:   "default is valid",
			mutate: func(m *Model) {},
		},
		{
			name: "undeclared provider in chain",
			mutate: func(m *Model) {
				m.Capabilities[model.CapabilityFlight].Providers = []string{"sample-flight", "amadeus"}
			},
			wantErr: []string{"capability 'flight': provider 'amadeus' is not declared"},
		},
		{
			name: "provider serving another capability",
			mutate: func(m *Model) {
				m.Capabilities[model.CapabilityFlight].Providers = []string{"sample-lodging"}
			},
			wantErr: []string{"capability 'flight': provider 'sample-lodging' serves 'lodging'"},
		},
		{
			name: "retries out of range and empty chain",
			mutate: func(m *Model) {
				m.Capabilities[model.CapabilityWebSearch].MaxRetries = 3
				m.Capabilities[model.CapabilityGeneration].Providers = nil
			},
			wantErr: []string{
				"capability 'websearch': retries must be 0 or 1, got 3",
				"capability 'generation': providers list is empty",
			},
		},
		{
			name: "bad completeness and missing kind",
			mutate: func(m *Model) {
				m.Pipeline.MinCompleteness = 1.5
				m.Providers["sample-flight"].Kind = ""
			},
			wantErr: []string{
				"min_completeness must be between 0 and 1",
				"provider 'sample-flight': kind is required",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// Arrange
			m := Default()
			tc.mutate(m)

			// Act
			err := m.Validate()

			// Assert
			if len(tc.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed:")
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestProviderDefinition_Option(t *testing.T) {
	t.Parallel()

	p := &ProviderDefinition{Options: map[string]string{"currency": "INR", "empty": ""}}

	assert.Equal(t, "INR", p.Option("currency", "EUR"))
	assert.Equal(t, "EUR", p.Option("empty", "EUR"))
	assert.Equal(t, "x", p.Option("missing", "x"))
}
