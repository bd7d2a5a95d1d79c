// Package obs configures the global structured logger and carries
// per-scenario correlation fields through context.
package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

type correlationContextKey struct{}

// Correlation carries per-scenario correlation identifiers.
type Correlation struct {
	RunID     string // one harness session
	Token     string // correlation token namespacing one scenario
	Scenario  string // scenario name
	SeedIndex int64  // reserved seed row, 0 when none
}

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
)

// Init configures the global structured logger.
func Init() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		return
	}
	logger = newLogger(os.Stderr)
	slog.SetDefault(logger)
}

// SetOutputForTests overrides the global logger output for tests.
func SetOutputForTests(w io.Writer) func() {
	loggerMu.Lock()
	prev := logger
	logger = newLogger(w)
	slog.SetDefault(logger)
	loggerMu.Unlock()

	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if prev != nil {
			logger = prev
		} else {
			logger = newLogger(os.Stderr)
		}
		slog.SetDefault(logger)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				t, ok := attr.Value.Any().(time.Time)
				if ok {
					return slog.String(slog.TimeKey, t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
	return slog.New(handler)
}

func globalLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Pkg returns a logger tagged with package name.
func Pkg(pkg string) *slog.Logger {
	return globalLogger().With("pkg", pkg)
}

// From returns a logger with correlation fields from context.
func From(ctx context.Context) *slog.Logger {
	l := globalLogger()
	corr := CorrelationFromContext(ctx)
	attrs := correlationAttrs(corr)
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// WithCorrelation stores scenario correlation fields in context.
// Non-zero fields override previously stored values.
func WithCorrelation(ctx context.Context, corr Correlation) context.Context {
	existing := CorrelationFromContext(ctx)
	if corr.RunID != "" {
		existing.RunID = corr.RunID
	}
	if corr.Token != "" {
		existing.Token = corr.Token
	}
	if corr.Scenario != "" {
		existing.Scenario = corr.Scenario
	}
	if corr.SeedIndex != 0 {
		existing.SeedIndex = corr.SeedIndex
	}
	return context.WithValue(ctx, correlationContextKey{}, existing)
}

// WithToken stores the scenario correlation token in context.
func WithToken(ctx context.Context, token string) context.Context {
	corr := CorrelationFromContext(ctx)
	corr.Token = strings.TrimSpace(token)
	return context.WithValue(ctx, correlationContextKey{}, corr)
}

// TokenFromContext returns the correlation token from context, or "unknown".
func TokenFromContext(ctx context.Context) string {
	corr := CorrelationFromContext(ctx)
	if corr.Token == "" {
		return "unknown"
	}
	return corr.Token
}

// CorrelationFromContext returns scenario correlation fields from context.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	corr, ok := ctx.Value(correlationContextKey{}).(Correlation)
	if !ok {
		return Correlation{}
	}
	return corr
}

func correlationAttrs(corr Correlation) []any {
	attrs := make([]any, 0, 8)
	if corr.RunID != "" {
		attrs = append(attrs, "run_id", corr.RunID)
	}
	if corr.Token != "" {
		attrs = append(attrs, "token", corr.Token)
	}
	if corr.Scenario != "" {
		attrs = append(attrs, "scenario", corr.Scenario)
	}
	if corr.SeedIndex != 0 {
		attrs = append(attrs, "seed_index", corr.SeedIndex)
	}
	return attrs
}
