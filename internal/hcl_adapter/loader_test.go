package hcl_adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineHCL = `
pipeline {
  min_completeness     = 0.6
  itinerary_chunk_days = 7
  max_options          = 2
}

provider "amadeus" {
  capability = "flight"
  base_url   = "https://test.api.amadeus.com"
  api_key    = env("AMADEUS_CLIENT_ID")
  api_secret = env("AMADEUS_CLIENT_SECRET", "fallback-secret")
  timeout    = "8s"
  options = {
    currency = "INR"
  }
}

provider "backup-flights" {
  kind       = "sample"
  capability = "flight"
}

capability "flight" {
  providers = ["amadeus", "backup-flights"]
  timeout   = "10s"
  backoff   = "250ms"
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fakeEnv(vars map[string]string) LoaderOption {
	return WithEnvLookup(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	// Arrange
	dir := t.TempDir()
	writeFile(t, dir, "pipeline.hcl", pipelineHCL)
	writeFile(t, dir, "README.md", "not configuration")
	loader := NewLoader(fakeEnv(map[string]string{"AMADEUS_CLIENT_ID": "client-123"}))

	// Act
	ctx, _ := testutil.LoggerContext(t)
	m, err := loader.Load(ctx, dir)

	// Assert
	require.NoError(t, err)

	wantPipeline := config.Pipeline{MinCompleteness: 0.6, ItineraryChunkDays: 7, MaxOptions: 2}
	if diff := cmp.Diff(wantPipeline, m.Pipeline); diff != "" {
		t.Errorf("pipeline mismatch (-want +got):\n%s", diff)
	}

	wantAmadeus := &config.ProviderDefinition{
		Name:       "amadeus",
		Kind:       "amadeus",
		Capability: model.CapabilityFlight,
		BaseURL:    "https://test.api.amadeus.com",
		APIKey:     "client-123",
		APISecret:  "fallback-secret",
		Timeout:    8 * time.Second,
		Options:    map[string]string{"currency": "INR"},
	}
	if diff := cmp.Diff(wantAmadeus, m.Providers["amadeus"]); diff != "" {
		t.Errorf("amadeus provider mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "sample", m.Providers["backup-flights"].Kind)

	wantChain := &config.CapabilityDefinition{
		Capability: model.CapabilityFlight,
		Providers:  []string{"amadeus", "backup-flights"},
		Timeout:    10 * time.Second,
		Backoff:    250 * time.Millisecond,
		MaxRetries: 1,
	}
	if diff := cmp.Diff(wantChain, m.Capabilities[model.CapabilityFlight]); diff != "" {
		t.Errorf("flight chain mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_UnsetEnvWithoutFallbackIsEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "p.hcl", `
provider "tavily" {
  capability = "websearch"
  api_key    = env("TAVILY_API_KEY")
}
capability "websearch" {
  providers = ["tavily"]
  retries   = 0
}
`)

	ctx, _ := testutil.LoggerContext(t)
	m, err := NewLoader(fakeEnv(nil)).Load(ctx, path)

	require.NoError(t, err)
	assert.Empty(t, m.Providers["tavily"].APIKey)
	assert.Equal(t, 0, m.Capabilities[model.CapabilityWebSearch].MaxRetries)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"a.hcl": `provider "x" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "missing required attribute",
			files:   map[string]string{"a.hcl": `provider "x" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name: "duplicate provider across files",
			files: map[string]string{
				"a.hcl": `provider "x" { capability = "flight" }`,
				"b.hcl": `provider "x" { capability = "flight" }`,
			},
			wantErr: "provider 'x' declared more than once",
		},
		{
			name: "bad duration",
			files: map[string]string{"a.hcl": `
capability "flight" {
  providers = ["x"]
  timeout   = "soon"
}`},
			wantErr: "capability 'flight': timeout",
		},
		{
			name: "chain names undeclared provider",
			files: map[string]string{"a.hcl": `
capability "lodging" {
  providers = ["hotelbeds"]
}`},
			wantErr: "provider 'hotelbeds' is not declared",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}

			ctx, _ := testutil.LoggerContext(t)
			_, err := NewLoader(fakeEnv(nil)).Load(ctx, dir)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoader_NoFiles(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.LoggerContext(t)
	_, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .hcl files found")
}
