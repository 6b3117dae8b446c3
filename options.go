package tabgo

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Store behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring
// operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tabgo.BasicMetricsCollector{}
//	store, _ := tabgo.RowMajor(tabgo.WithMetricsCollector(metrics))
//	// ... use store ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := tabgo.NewJSONLogger(slog.LevelInfo)
//	store, _ := tabgo.RowMajor(tabgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
