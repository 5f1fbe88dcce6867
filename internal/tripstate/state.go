package tripstate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/visapack/internal/model"
)

// ErrNotYetAvailable is returned by Read for a namespace nothing has written.
var ErrNotYetAvailable = errors.New("not yet available")

// DuplicateWriteError is returned when a namespace or a stage status is
// written a second time.
type DuplicateWriteError struct {
	Namespace model.StageName
	What      string
}

func (e *DuplicateWriteError) Error() string {
	return fmt.Sprintf("duplicate %s write to namespace %q", e.What, e.Namespace)
}

// State is the shared state of a single run.
//
// The request is fixed at construction. Payloads and statuses live in two
// independent sync.Maps keyed by namespace.
type State struct {
	request  model.TripRequest
	payloads sync.Map // Key: model.StageName, Value: any
	statuses sync.Map // Key: model.StageName, Value: model.StageStatus
}

// New creates the state for one run.
func New(req model.TripRequest) *State {
	return &State{request: req}
}

// Request returns the raw request the run was started with.
func (s *State) Request() model.TripRequest {
	return s.request
}

// Write stores the payload for a namespace. It fails if the namespace has
// already been written.
func (s *State) Write(ns model.StageName, payload any) error {
	if _, loaded := s.payloads.LoadOrStore(ns, payload); loaded {
		return &DuplicateWriteError{Namespace: ns, What: "payload"}
	}
	return nil
}

// Read returns the payload of a namespace, or ErrNotYetAvailable.
func (s *State) Read(ns model.StageName) (any, error) {
	v, ok := s.payloads.Load(ns)
	if !ok {
		return nil, fmt.Errorf("namespace %q: %w", ns, ErrNotYetAvailable)
	}
	return v, nil
}

// ReadAs reads a namespace and asserts its payload type.
func ReadAs[T any](s *State, ns model.StageName) (T, error) {
	var zero T
	v, err := s.Read(ns)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("namespace %q holds %T, not %T", ns, v, zero)
	}
	return typed, nil
}

// SetStatus records the terminal status of a stage. Setting pending is a
// no-op; a second terminal status is rejected.
func (s *State) SetStatus(ns model.StageName, status model.StageStatus) error {
	if !status.Terminal() {
		return nil
	}
	if _, loaded := s.statuses.LoadOrStore(ns, status); loaded {
		return &DuplicateWriteError{Namespace: ns, What: "status"}
	}
	return nil
}

// Status returns the status of a stage. If none has been set, it returns
// StatusPending.
func (s *State) Status(ns model.StageName) model.StageStatus {
	v, ok := s.statuses.Load(ns)
	if !ok {
		return model.StatusPending
	}
	return v.(model.StageStatus)
}

// Intake returns the normalized request written by the intake stage.
func (s *State) Intake() (model.Intake, error) {
	return ReadAs[model.Intake](s, model.StageIntake)
}

// Resolution returns the pipeline-wide trip geometry.
func (s *State) Resolution() (model.Resolution, error) {
	return ReadAs[model.Resolution](s, model.StageResolve)
}

// Snapshot is an immutable copy of the state at a point in time.
type Snapshot struct {
	Request  model.TripRequest
	Payloads map[model.StageName]any
	Statuses map[model.StageName]model.StageStatus
}

// Snapshot copies the current payloads and statuses into fresh maps.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Request:  s.request,
		Payloads: make(map[model.StageName]any),
		Statuses: make(map[model.StageName]model.StageStatus),
	}
	s.payloads.Range(func(k, v any) bool {
		snap.Payloads[k.(model.StageName)] = v
		return true
	})
	s.statuses.Range(func(k, v any) bool {
		snap.Statuses[k.(model.StageName)] = v.(model.StageStatus)
		return true
	})
	return snap
}

// Get reads a payload from the snapshot with its type asserted. A missing or
// mistyped namespace yields the zero value and false.
func Get[T any](snap Snapshot, ns model.StageName) (T, bool) {
	v, ok := snap.Payloads[ns].(T)
	return v, ok
}
