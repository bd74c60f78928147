package goGuard

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/upload"
	"github.com/google/uuid"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

type panicSink struct{}

func (panicSink) Emit(context.Context, AuditEvent) {
	panic("sink exploded")
}

func buildAuditTestMonitor(t *testing.T, bufferSize int, sink AuditSink) *Monitor {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = bufferSize

	m, err := New().WithConfig(cfg).WithAuditSink(sink).WithLogger(discardLogger()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	sink := &countingSink{}
	m, err := New().WithAuditSink(sink).WithLogger(discardLogger()).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	_, _ = m.Validate(rules.Email, "nope")
	m.Close()

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
	if m.AuditDropped() != 0 {
		t.Fatal("disabled audit must not count drops")
	}
}

func TestAuditEventsCarryNoSensitiveValues(t *testing.T) {
	sink := NewChannelSink(16)
	m := buildAuditTestMonitor(t, 16, sink)

	const secret = "Tr0ub4dor&3-correct-horse"
	_ = m.ValidateInput(secret, "password")
	tok, err := m.GenerateToken(0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_ = m.ValidateUpload(upload.Candidate{Name: "cv.pdf", Size: 10, ContentType: "application/pdf"})
	_ = m.HasPermission("viewer", "admin")
	m.Close()

	var events []AuditEvent
	for len(events) < 4 {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 4 events, got %d", len(events))
		}
	}

	wantTypes := []string{EventValidate, EventToken, EventUpload, EventPermission}
	for i, ev := range events {
		if ev.EventType != wantTypes[i] {
			t.Fatalf("event %d: type %q, want %q", i, ev.EventType, wantTypes[i])
		}
		if _, err := uuid.Parse(ev.ID); err != nil {
			t.Fatalf("event %d: id %q is not a uuid", i, ev.ID)
		}
		if ev.Timestamp.IsZero() {
			t.Fatalf("event %d: missing timestamp", i)
		}
		for _, field := range append([]string{ev.Subject, ev.Context, ev.Reason}, metadataValues(ev)...) {
			if strings.Contains(field, secret) || strings.Contains(field, tok) {
				t.Fatalf("event %d leaked a sensitive value: %+v", i, ev)
			}
		}
	}

	if events[0].Subject != rules.StrongPassword || events[0].Context != "password" || !events[0].Success {
		t.Fatalf("unexpected validate event %+v", events[0])
	}
	if events[3].Success || events[3].Reason != "insufficient role" {
		t.Fatalf("unexpected permission event %+v", events[3])
	}
}

func metadataValues(ev AuditEvent) []string {
	out := make([]string, 0, len(ev.Metadata))
	for _, v := range ev.Metadata {
		out = append(out, v)
	}
	return out
}

func TestAuditFullBufferNeverBlocksValidation(t *testing.T) {
	sink := newGateSink()
	m := buildAuditTestMonitor(t, 1, sink)
	defer func() {
		close(sink.gate)
		m.Close()
	}()

	start := time.Now()
	for i := 0; i < 50; i++ {
		if _, err := m.Validate(rules.SearchInput, "query"); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected validation to proceed while the sink is stuck")
	}
	if m.AuditDropped() == 0 {
		t.Fatal("expected dropped events to be counted")
	}
}

func TestAuditSinkPanicIsSwallowed(t *testing.T) {
	counter := &countingSink{}
	m := buildAuditTestMonitor(t, 8, MultiSink{counter, panicSink{}})

	out, err := m.Validate(rules.Email, "alice@example.com")
	if err != nil || !out.IsAccepted() {
		t.Fatalf("validation must be unaffected by sink panics, got %s err=%v", out, err)
	}
	_ = m.HasPermission("admin", "viewer")
	m.Close()

	if got := counter.Count(); got != 2 {
		t.Fatalf("expected 2 delivered events, got %d", got)
	}
	if got := m.MetricsSnapshot().Counters[MetricObserverFailure]; got != 2 {
		t.Fatalf("expected 2 observer failures, got %d", got)
	}
}

func TestJSONWriterSinkThroughMonitor(t *testing.T) {
	var buf strings.Builder
	m := buildAuditTestMonitor(t, 8, NewJSONWriterSink(&buf))

	_, _ = m.Validate(rules.URL, "ftp://example.com")
	m.Close()

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"event_type":"validate"`) || !strings.Contains(line, `"reason":"invalid url"`) {
		t.Fatalf("unexpected json line %q", line)
	}
	if strings.Contains(line, "ftp://example.com") {
		t.Fatal("validated value must not be written")
	}
}
