package goGuard

import (
	"testing"
	"time"

	"github.com/MrEthical07/goGuard/upload"
)

func BenchmarkMetricsIncParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricValidateAccepted)
		}
	})
}

func BenchmarkMetricsIncRuleParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true}, "searchInput", "email")
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		accepted := false
		for pb.Next() {
			accepted = !accepted
			m.IncRule("searchInput", accepted)
		}
	})
}

func BenchmarkMetricsObserveLatencyParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	d := 12 * time.Microsecond
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Observe(MetricValidateLatency, d)
		}
	})
}

func benchMonitor(b *testing.B, cfg Config) *Monitor {
	b.Helper()
	m, err := New().WithConfig(cfg).Build()
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	b.Cleanup(m.Close)
	return m
}

func BenchmarkMonitorValidateParallel(b *testing.B) {
	m := benchMonitor(b, DefaultConfig())
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = m.Validate("email", "alice@example.com")
		}
	})
}

func BenchmarkMonitorValidateWithAudit(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 4096
	m := benchMonitor(b, cfg)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = m.Validate("searchInput", "hello world")
	}
}

func BenchmarkMonitorHasPermission(b *testing.B) {
	m := benchMonitor(b, DefaultConfig())
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = m.HasPermission("manager", "editor")
	}
}

func BenchmarkMonitorValidateUpload(b *testing.B) {
	m := benchMonitor(b, DefaultConfig())
	c := upload.Candidate{Size: 4096, ContentType: "image/png"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = m.ValidateUpload(c)
	}
}
