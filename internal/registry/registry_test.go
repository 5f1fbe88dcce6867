package registry

import (
	"testing"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/gateway"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeKind(capability model.Capability, requires ...Setting) *RegisteredProvider {
	return &RegisteredProvider{
		Capabilities: []model.Capability{capability},
		Requires:     requires,
		Options:      []string{"currency"},
		New: func(def *config.ProviderDefinition, _ Deps) (gateway.Provider, error) {
			return testutil.NewFakeProvider(def.Name, def.Capability), nil
		},
	}
}

func TestRegisterProvider_PanicsOnDuplicate(t *testing.T) {
	t.Parallel()

	r := New()
	r.RegisterProvider("amadeus", fakeKind(model.CapabilityFlight))

	assert.PanicsWithValue(t, "provider kind 'amadeus' already registered", func() {
		r.RegisterProvider("amadeus", fakeKind(model.CapabilityFlight))
	})
}

func TestValidateRegistry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		defs    []*config.ProviderDefinition
		wantErr []string
	}{
		{
			name: "matching definitions",
			defs: []*config.ProviderDefinition{
				{Name: "amadeus", Kind: "amadeus", Capability: model.CapabilityFlight, Options: map[string]string{"currency": "INR"}},
			},
		},
		{
			name: "unknown kind",
			defs: []*config.ProviderDefinition{
				{Name: "skyscanner", Kind: "skyscanner", Capability: model.CapabilityFlight},
			},
			wantErr: []string{"provider 'skyscanner': kind 'skyscanner' is not implemented by any module"},
		},
		{
			name: "capability mismatch and unsupported option",
			defs: []*config.ProviderDefinition{
				{Name: "amadeus", Kind: "amadeus", Capability: model.CapabilityLodging, Options: map[string]string{"market": "in"}},
			},
			wantErr: []string{
				"configured for capability 'lodging' but kind 'amadeus' serves [flight]",
				"option 'market' is not supported by kind 'amadeus'",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			// Arrange
			ctx, _ := testutil.LoggerContext(t)
			r := New()
			r.RegisterProvider("amadeus", fakeKind(model.CapabilityFlight))
			m := config.New()
			for _, d := range tc.defs {
				m.Providers[d.Name] = d
			}
			r.PopulateDefinitionsFromModel(m)

			// Act
			err := r.ValidateRegistry(ctx)

			// Assert
			if len(tc.wantErr) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "registry validation failed:")
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestInstantiate_SkipsProvidersWithoutCredentials(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx, logs := testutil.LoggerContext(t)
	r := New()
	r.RegisterProvider("tavily", fakeKind(model.CapabilityWebSearch, SettingAPIKey))
	r.RegisterProvider("sample", fakeKind(model.CapabilityWebSearch))
	m := config.New()
	m.Providers["tavily"] = &config.ProviderDefinition{Name: "tavily", Kind: "tavily", Capability: model.CapabilityWebSearch}
	m.Providers["sample-websearch"] = &config.ProviderDefinition{Name: "sample-websearch", Kind: "sample", Capability: model.CapabilityWebSearch}
	r.PopulateDefinitionsFromModel(m)
	require.NoError(t, r.ValidateRegistry(ctx))

	// Act
	providers, err := r.Instantiate(ctx, Deps{})

	// Assert
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "sample-websearch", providers[0].Name())
	assert.Contains(t, logs.String(), "Provider disabled, required settings are empty.")
	assert.Contains(t, logs.String(), "provider=tavily")
}

func TestInstantiate_UnknownKind(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.LoggerContext(t)
	r := New()
	r.DefinitionRegistry["x"] = &config.ProviderDefinition{Name: "x", Kind: "nope", Capability: model.CapabilityFlight}

	_, err := r.Instantiate(ctx, Deps{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind 'nope'")
}
