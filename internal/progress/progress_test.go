package progress

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/visapack/internal/model"
	"github.com/specialistvlad/visapack/internal/testutil"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestLog_WritesStageTransitions(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx, logs := testutil.LoggerContext(t)

	// Act
	Log{}.Notify(ctx, Event{Stage: model.StageFlights, Phase: PhaseStarted, Status: model.StatusPending})
	Log{}.Notify(ctx, Event{Stage: model.StageFlights, Phase: PhaseFinished, Status: model.StatusDegraded})

	// Assert
	out := logs.String()
	assert.Contains(t, out, "level=DEBUG msg=\"Stage started.\" stage=flights")
	assert.Contains(t, out, "level=WARN msg=\"Stage finished.\" stage=flights status=degraded")
}

func TestMulti_FansOut(t *testing.T) {
	t.Parallel()

	a, b := &recordingNotifier{}, &recordingNotifier{}
	ev := Event{RunID: "run-1", Stage: model.StageHotels, Phase: PhaseFinished, Status: model.StatusOK}

	Multi{a, nil, Nop{}, b}.Notify(context.Background(), ev)

	assert.Equal(t, []Event{ev}, a.events)
	assert.Equal(t, []Event{ev}, b.events)
}

func TestDialSocketIO_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	_, err := DialSocketIO(context.Background(), SocketIOConfig{URL: "/socket.io/"})

	assert.ErrorContains(t, err, "must be absolute")
}

func TestDialSocketIO_FailsAgainstNonSocketServer(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	// Act
	started := time.Now()
	_, err := DialSocketIO(context.Background(), SocketIOConfig{URL: srv.URL + "/socket.io/", ConnectTimeout: 500 * time.Millisecond})

	// Assert
	require.Error(t, err)
	assert.Less(t, time.Since(started), 5*time.Second)
}
