// Package progress publishes stage transitions of a pipeline run to
// observers: the structured log and, optionally, a socket.io dashboard.
package progress

import (
	"context"
	"time"

	"github.com/specialistvlad/visapack/internal/ctxlog"
	"github.com/specialistvlad/visapack/internal/model"
)

// Phase tells whether an event opens or closes a stage.
type Phase string

const (
	PhaseStarted  Phase = "started"
	PhaseFinished Phase = "finished"
)

// Event is one stage transition.
type Event struct {
	RunID  string            `json:"run_id"`
	Stage  model.StageName   `json:"stage"`
	Status model.StageStatus `json:"status"`
	Phase  Phase             `json:"phase"`
	At     time.Time         `json:"at"`
}

// Notifier receives stage events. Implementations must be safe for
// concurrent use and must not block the pipeline.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Log writes events to the context logger.
type Log struct{}

func (Log) Notify(ctx context.Context, ev Event) {
	logger := ctxlog.FromContext(ctx).With("stage", ev.Stage, "status", ev.Status)
	if ev.Phase == PhaseStarted {
		logger.Debug("Stage started.")
		return
	}
	if ev.Status == model.StatusOK {
		logger.Info("Stage finished.")
		return
	}
	logger.Warn("Stage finished.")
}

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}
