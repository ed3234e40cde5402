package transform

import (
	"time"

	"go.uber.org/zap"

	"github.com/ChihweiLHBird/wing/core/naming"
)

// Option configures an InflightTransformer.
type Option func(*config)

// TelemetryMode controls telemetry collection.
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // No collection (default)
	TelemetryBasic                       // Counters only
	TelemetryTiming                      // Counters + total pass time
)

type config struct {
	namer     naming.Namer
	logger    *zap.Logger
	telemetry TelemetryMode
}

// WithNamer sets how lifted resource classes are named.
// Defaults to a fresh naming.NewCounterNamer per transformer.
func WithNamer(n naming.Namer) Option {
	return func(c *config) {
		c.namer = n
	}
}

// WithLogger sets the logger. Lifts are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithTelemetryBasic enables counters.
func WithTelemetryBasic() Option {
	return func(c *config) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables counters and pass timing.
func WithTelemetryTiming() Option {
	return func(c *config) {
		c.telemetry = TelemetryTiming
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.namer == nil {
		c.namer = naming.NewCounterNamer()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Telemetry holds transform metrics. Zero unless telemetry is enabled.
type Telemetry struct {
	Lifted           int           // Closures replaced by resources
	FunctionsEntered int           // Function definitions folded
	RuntimeSkips     int           // Expressions returned as-is under runtime context
	MaxDepth         int           // Deepest function nesting reached
	TotalTime        time.Duration // Time spent in Transform* calls (TelemetryTiming only)
}
