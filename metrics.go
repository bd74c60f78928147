package goGuard

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by goGuard APIs.
//
// MetricID values are stable for the lifetime of the process and index the
// Metrics counter table.
type MetricID uint16

const (
	// MetricValidateAccepted counts validations that accepted the input.
	MetricValidateAccepted MetricID = iota
	// MetricValidateRejected counts validations that rejected the input.
	MetricValidateRejected
	// MetricValidateUnknownRule counts calls that referenced an unregistered rule.
	MetricValidateUnknownRule
	// MetricSanitizeHTML counts HTML sanitizations.
	MetricSanitizeHTML
	// MetricSanitizeFilename counts filename sanitizations.
	MetricSanitizeFilename
	// MetricSanitizeInput counts general input sanitizations.
	MetricSanitizeInput
	// MetricSanitizeURL counts URL sanitizations.
	MetricSanitizeURL
	// MetricSanitizeURLRejected counts URLs blanked by the URL sanitizer.
	MetricSanitizeURLRejected
	// MetricSanitizeStripTags counts markup stripping calls.
	MetricSanitizeStripTags
	// MetricTokenIssued counts generated tokens.
	MetricTokenIssued
	// MetricTokenFailure counts token generation failures.
	MetricTokenFailure
	// MetricUploadValid counts accepted uploads.
	MetricUploadValid
	// MetricUploadTooLarge counts uploads rejected for size.
	MetricUploadTooLarge
	// MetricUploadTypeRejected counts uploads rejected for content type.
	MetricUploadTypeRejected
	// MetricPermissionGranted counts granted permission checks.
	MetricPermissionGranted
	// MetricPermissionDenied counts denied permission checks.
	MetricPermissionDenied
	// MetricPermissionUnknownRole counts checks involving an unregistered role.
	MetricPermissionUnknownRole
	// MetricRejectionBurst counts signal windows that crossed the threshold.
	MetricRejectionBurst
	// MetricObserverFailure counts swallowed observation failures.
	MetricObserverFailure
	// MetricValidateLatency is the validation latency histogram.
	MetricValidateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

type ruleCounter struct {
	accepted atomic.Uint64
	rejected atomic.Uint64
}

// Metrics holds in-process counters for every Monitor call. Counters are
// atomic; the per-rule table is fixed at construction, so recording never
// takes a lock.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
	rules         map[string]*ruleCounter
}

// RuleCounts is the accepted/rejected split for one rule.
type RuleCounts struct {
	Accepted uint64
	Rejected uint64
}

// MetricsSnapshot defines a public type used by goGuard APIs.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
	Rules      map[string]RuleCounts
}

// NewMetrics creates a counter set. ruleIDs pre-registers per-rule counters;
// observations for other ids only reach the global counters.
func NewMetrics(cfg MetricsConfig, ruleIDs ...string) *Metrics {
	m := &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
		rules:         make(map[string]*ruleCounter, len(ruleIDs)),
	}
	for _, id := range ruleIDs {
		m.rules[id] = &ruleCounter{}
	}
	return m
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc increments a counter. Unknown ids and disabled metrics are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// IncRule records one outcome for ruleID.
func (m *Metrics) IncRule(ruleID string, accepted bool) {
	if m == nil || !m.enabled {
		return
	}
	rc, ok := m.rules[ruleID]
	if !ok {
		return
	}
	if accepted {
		rc.accepted.Add(1)
		return
	}
	rc.rejected.Add(1)
}

// Observe records a latency sample in the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricValidateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// RuleValue returns the per-rule counts for ruleID.
func (m *Metrics) RuleValue(ruleID string) RuleCounts {
	if m == nil {
		return RuleCounts{}
	}
	rc, ok := m.rules[ruleID]
	if !ok {
		return RuleCounts{}
	}
	return RuleCounts{Accepted: rc.accepted.Load(), Rejected: rc.rejected.Load()}
}

// Snapshot copies every counter. Disabled metrics yield empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
			Rules:      map[string]RuleCounts{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
		Rules:      make(map[string]RuleCounts, len(m.rules)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	for id, rc := range m.rules {
		s.Rules[id] = RuleCounts{Accepted: rc.accepted.Load(), Rejected: rc.rejected.Load()}
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricValidateLatency].buckets[i])
		}
		s.Histograms[MetricValidateLatency] = buckets
	}

	return s
}

// bucketIndex maps a latency onto bounds of 1µs, 5µs, 10µs, 50µs, 100µs,
// 500µs, 1ms and +Inf. Validation is in-memory work, so the scale is
// microseconds rather than request-level milliseconds.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 1:
		return 0
	case us <= 5:
		return 1
	case us <= 10:
		return 2
	case us <= 50:
		return 3
	case us <= 100:
		return 4
	case us <= 500:
		return 5
	case us <= 1000:
		return 6
	default:
		return 7
	}
}
