package progress

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/specialistvlad/visapack/internal/ctxlog"
)

// DefaultEventName is the socket.io event stage updates are emitted as.
const DefaultEventName = "stage"

// SocketIOConfig configures a SocketIO notifier.
type SocketIOConfig struct {
	// URL of the dashboard, including the socket.io path.
	URL                string
	Namespace          string
	EventName          string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// SocketIO emits stage events to a socket.io server. Events produced while
// the connection is down are dropped.
type SocketIO struct {
	io        *socket.Socket
	eventName string
	connected atomic.Bool
}

// DialSocketIO connects to the dashboard and waits for the first successful
// connection.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", cfg.URL)

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("dashboard URL %q must be absolute", cfg.URL)
	}
	if cfg.EventName == "" {
		cfg.EventName = DefaultEventName
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	n := &SocketIO{io: manager.Socket(cfg.Namespace, opts), eventName: cfg.EventName}

	ready := make(chan error, 1)
	n.io.On(types.EventName("connect"), func(...any) {
		n.connected.Store(true)
		logger.Info("Connected to progress dashboard.", "sid", n.io.Id())
		select {
		case ready <- nil:
		default:
		}
	})
	n.io.On(types.EventName("disconnect"), func(...any) {
		n.connected.Store(false)
		logger.Warn("Progress dashboard disconnected.")
	})
	n.io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case ready <- err:
		default:
		}
	})
	n.io.Connect()

	timer := time.NewTimer(cfg.ConnectTimeout)
	defer timer.Stop()
	select {
	case err := <-ready:
		if err != nil {
			n.io.Disconnect()
			return nil, fmt.Errorf("connect to progress dashboard: %w", err)
		}
		return n, nil
	case <-timer.C:
		n.io.Disconnect()
		return nil, fmt.Errorf("timed out after %s while waiting for dashboard connection", cfg.ConnectTimeout)
	case <-ctx.Done():
		n.io.Disconnect()
		return nil, ctx.Err()
	}
}

// Notify implements Notifier.
func (n *SocketIO) Notify(ctx context.Context, ev Event) {
	if !n.connected.Load() {
		ctxlog.FromContext(ctx).Debug("Dashboard not connected, dropping stage event.", "stage", ev.Stage)
		return
	}
	err := n.io.Emit(n.eventName, map[string]any{
		"run_id": ev.RunID,
		"stage":  string(ev.Stage),
		"status": string(ev.Status),
		"phase":  string(ev.Phase),
		"at":     ev.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit stage event.", "stage", ev.Stage, "error", err)
	}
}

// Close disconnects from the dashboard.
func (n *SocketIO) Close() error {
	n.connected.Store(false)
	n.io.Disconnect()
	return nil
}
