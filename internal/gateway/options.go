package gateway

import "time"

// Chain is the ordered provider list and retry policy of one capability.
type Chain struct {
	Providers  []string
	Timeout    time.Duration
	Backoff    time.Duration
	MaxRetries int
}

// Default policy values, used when a chain leaves them unset.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultBackoff         = 250 * time.Millisecond
	DefaultMinCompleteness = 0.5
)

func (c Chain) withDefaults() Chain {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Backoff < 0 {
		c.Backoff = 0
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries > 1 {
		c.MaxRetries = 1
	}
	return c
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecorder sets the sink for per-attempt diagnostics.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithMinCompleteness sets the share of complete records below which a
// result counts as empty.
func WithMinCompleteness(v float64) Option {
	return func(g *Gateway) {
		if v >= 0 && v <= 1 {
			g.minCompleteness = v
		}
	}
}

type callConfig struct {
	providers []string
	timeout   time.Duration
	degrade   func() Payload
	noDegrade bool
}

// CallOption adjusts a single Call.
type CallOption func(*callConfig)

// WithProviders replaces the configured chain for this call.
func WithProviders(primary string, fallbacks ...string) CallOption {
	return func(c *callConfig) {
		c.providers = append([]string{primary}, fallbacks...)
	}
}

// WithTimeout overrides the per-attempt timeout for this call.
func WithTimeout(d time.Duration) CallOption {
	return func(c *callConfig) {
		c.timeout = d
	}
}

// WithDegradation supplies the placeholder used when every provider fails.
func WithDegradation(fn func() Payload) CallOption {
	return func(c *callConfig) {
		c.degrade = fn
	}
}

// WithoutDegradation makes exhaustion an error even if a generator is set.
func WithoutDegradation() CallOption {
	return func(c *callConfig) {
		c.noDegrade = true
	}
}
