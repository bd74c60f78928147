package audit

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{
		gate: make(chan struct{}),
	}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

type panicSink struct{}

func (panicSink) Emit(context.Context, Event) {
	panic("sink exploded")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}

	// nil dispatcher is safe to use
	d.Emit(Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestDispatcherDeliversAllEventsBeforeClose(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(Event{EventType: "validate"})
	}
	d.Close()

	if got := sink.count.Load(); got != 50 {
		t.Fatalf("expected 50 events, got %d", got)
	}
}

func TestDispatcherBufferFullDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(Event{EventType: "e1"})
	d.Emit(Event{EventType: "e2"})

	start := time.Now()
	d.Emit(Event{EventType: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit when buffer is full")
	}
	if d.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment when queue is full")
	}
}

func TestDispatcherRecoversFromSinkPanic(t *testing.T) {
	counter := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, MultiSink{counter, panicSink{}})

	d.Emit(Event{EventType: "e1"})
	d.Emit(Event{EventType: "e2"})
	d.Close()

	if got := d.SinkPanics(); got != 2 {
		t.Fatalf("expected 2 recovered panics, got %d", got)
	}
	if got := counter.count.Load(); got != 2 {
		t.Fatalf("expected sinks before the panic to run, got %d", got)
	}
}

func TestDispatcherReportsSinkPanic(t *testing.T) {
	var reported atomic.Int64
	d := NewDispatcher(Config{
		Enabled:     true,
		BufferSize:  4,
		OnSinkPanic: func(any) { reported.Add(1) },
	}, panicSink{})

	d.Emit(Event{EventType: "e1"})
	d.Close()

	if got := reported.Load(); got != 1 {
		t.Fatalf("expected panic hook to run once, got %d", got)
	}
}

func TestDispatcherCloseIdempotentAndEmitAfterCloseSafe(t *testing.T) {
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, &countingSink{})

	d.Emit(Event{EventType: "e1"})
	d.Close()
	d.Close()
	d.Emit(Event{EventType: "e2"})
}

func TestJSONWriterSinkWritesJSONLines(t *testing.T) {
	var buf syncBuffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{
		ID:        "0b6f",
		Timestamp: time.Now().UTC(),
		EventType: "validate",
		Subject:   "searchInput",
		Reason:    "disallowed characters detected",
	})
	sink.Emit(context.Background(), Event{EventType: "upload", Success: true})

	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", out)
	}
	if !strings.Contains(out, `"subject":"searchInput"`) {
		t.Fatalf("expected subject field, got %q", out)
	}
	if !strings.Contains(out, `"success":true`) {
		t.Fatalf("expected success field, got %q", out)
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), Event{EventType: "first"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Emit(ctx, Event{EventType: "second"})

	ev := <-sink.Events()
	if ev.EventType != "first" {
		t.Fatalf("expected first event, got %q", ev.EventType)
	}
	select {
	case ev := <-sink.Events():
		t.Fatalf("unexpected event %q", ev.EventType)
	default:
	}
}
