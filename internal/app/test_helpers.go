package app

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/visapack/internal/config"
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The app logs at
// debug level into the returned buffer and is closed when the test ends.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp, err := NewApp(context.Background(), logBuffer, appConfig, loader, modules...)
	if err != nil {
		t.Fatalf("failed to build app: %v\n%s", err, logBuffer.String())
	}

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("VISAPACK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
