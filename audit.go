package goGuard

import (
	"io"

	"github.com/MrEthical07/goGuard/internal/audit"
)

// Event types emitted by the Monitor.
const (
	EventValidate   = "validate"
	EventToken      = "token"
	EventUpload     = "upload"
	EventPermission = "permission"
)

// AuditEvent is one recorded Monitor call. It never carries the validated
// value, the generated token, or file content.
type AuditEvent = audit.Event

// AuditSink receives observation events on the dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops events.
type NoOpSink = audit.NoOpSink

// ChannelSink forwards events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// MultiSink fans events out to several sinks.
type MultiSink = audit.MultiSink

// NewChannelSink creates a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a JSONWriterSink over w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
