package goGuard

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/signal"
	"github.com/MrEthical07/goGuard/permission"
	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/upload"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goGuard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	registry  *rules.Registry
	auditSink AuditSink
	metrics   *Metrics
	logger    *slog.Logger
	entropy   io.Reader

	built bool
}

// New describes the new operation and its observable behavior.
//
// New starts from DefaultConfig and the default rule table.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// The configuration is copied; later changes to cfg do not reach the Builder.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRules replaces the default rule table. Contexts in
// Config.Validation must resolve against reg.
func (b *Builder) WithRules(reg *rules.Registry) *Builder {
	b.registry = reg
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// The client is only used when Config.Signals is enabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// The sink runs on the dispatcher goroutine and only when Config.Audit is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetrics injects a shared counter set. Per-rule counters exist only for
// the rule ids it was created with.
func (b *Builder) WithMetrics(m *Metrics) *Builder {
	b.metrics = m
	return b
}

// WithLogger sets the logger for operational messages. Defaults to slog.Default.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithEntropy replaces crypto/rand.Reader as the token source. Intended for tests.
func (b *Builder) WithEntropy(r io.Reader) *Builder {
	b.entropy = r
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when the configuration is invalid, a validation
// context names an unregistered rule, or signals are enabled without Redis.
// A Builder can be used once.
func (b *Builder) Build() (*Monitor, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- RULES --------
	registry := b.registry
	if registry == nil {
		registry = rules.Default()
	}
	if _, ok := registry.Rule(cfg.Validation.DefaultRule); !ok {
		return nil, fmt.Errorf("%w: Validation DefaultRule %q: %w", ErrInvalidConfig, cfg.Validation.DefaultRule, ErrUnknownRule)
	}
	for context, id := range cfg.Validation.Contexts {
		if _, ok := registry.Rule(id); !ok {
			return nil, fmt.Errorf("%w: Validation context %q -> %q: %w", ErrInvalidConfig, context, id, ErrUnknownRule)
		}
	}

	// -------- ROLES --------
	roles := permission.DefaultHierarchy()
	if len(cfg.Roles.Levels) > 0 {
		h, err := permission.HierarchyFromLevels(cfg.Roles.Levels)
		if err != nil {
			return nil, fmt.Errorf("%w: Roles: %v", ErrInvalidConfig, err)
		}
		roles = h
	}

	// -------- UPLOADS --------
	uploads, err := upload.NewPolicy(cfg.Upload.MaxSizeBytes, cfg.Upload.AllowedTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: Upload: %v", ErrInvalidConfig, err)
	}

	// -------- OBSERVATION --------
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := b.metrics
	if metrics == nil {
		metrics = NewMetrics(cfg.Metrics, registry.IDs()...)
	}

	var tracker *signal.Tracker
	sink := b.auditSink
	if cfg.Signals.Enabled {
		if b.redis == nil {
			return nil, ErrRedisRequired
		}
		tracker = signal.New(b.redis, signal.Config{
			Prefix:    cfg.Signals.Prefix,
			Window:    cfg.Signals.Window,
			Threshold: cfg.Signals.Threshold,
		})
		sink = audit.MultiSink{sink, &signalSink{tracker: tracker, metrics: metrics, logger: logger}}
	}

	dispatcher := audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		OnSinkPanic: func(r any) {
			metrics.Inc(MetricObserverFailure)
			logger.Debug("goGuard: audit sink panicked", slog.Any("panic", r))
		},
	}, sink)

	entropy := b.entropy
	if entropy == nil {
		entropy = rand.Reader
	}

	b.built = true

	return &Monitor{
		config:  cfg,
		rules:   registry,
		roles:   roles,
		uploads: uploads,
		metrics: metrics,
		audit:   dispatcher,
		signals: tracker,
		entropy: entropy,
		logger:  logger,
	}, nil
}
