package goGuard

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/MrEthical07/goGuard/csrf"
	"github.com/MrEthical07/goGuard/internal/audit"
	"github.com/MrEthical07/goGuard/internal/signal"
	"github.com/MrEthical07/goGuard/permission"
	"github.com/MrEthical07/goGuard/rules"
	"github.com/MrEthical07/goGuard/sanitize"
	"github.com/MrEthical07/goGuard/token"
	"github.com/MrEthical07/goGuard/upload"
	"github.com/google/uuid"
)

// Monitor is the single entry point for validation, sanitization, token
// generation, upload checks and permission checks. Every call is recorded in
// Metrics and, when auditing is enabled, emitted as an AuditEvent.
//
// A Monitor is immutable after Build and safe for concurrent use. Recording
// never blocks and never changes a result.
type Monitor struct {
	config  Config
	rules   *rules.Registry
	roles   *permission.Hierarchy
	uploads *upload.Policy
	metrics *Metrics
	audit   *audit.Dispatcher
	signals *signal.Tracker
	entropy io.Reader
	logger  *slog.Logger
}

/*
====================================
VALIDATION
====================================
*/

// Validate applies the rule registered under ruleID. An unregistered id is a
// caller bug and returns ErrUnknownRule instead of a rejection.
func (m *Monitor) Validate(ruleID, input string) (rules.Outcome, error) {
	return m.validate(ruleID, input, "")
}

// ValidateInput validates input against the rule mapped to context in
// Config.Validation. Unmapped contexts use the default rule.
func (m *Monitor) ValidateInput(input, inputContext string) rules.Outcome {
	ruleID := m.ruleForContext(inputContext)
	if m.config.Validation.NormalizeUnicode {
		input = sanitize.Normalize(input)
	}

	out, err := m.validate(ruleID, input, inputContext)
	if err != nil {
		// Build resolves every context, so this only triggers on a broken registry.
		return rules.Rejected("validation unavailable")
	}
	return out
}

func (m *Monitor) validate(ruleID, input, inputContext string) (rules.Outcome, error) {
	start := time.Now()
	out, err := m.rules.Validate(ruleID, input)
	latency := time.Since(start)

	if err != nil {
		m.logger.Error("goGuard: unknown validation rule", slog.String("rule", ruleID))
		m.record(audit.Event{
			EventType: EventValidate,
			Subject:   ruleID,
			Context:   inputContext,
			Reason:    "unknown rule",
		}, MetricValidateUnknownRule)
		return out, err
	}

	m.metrics.Observe(MetricValidateLatency, latency)
	m.metrics.IncRule(ruleID, out.IsAccepted())

	id := MetricValidateRejected
	if out.IsAccepted() {
		id = MetricValidateAccepted
	}
	m.record(audit.Event{
		EventType: EventValidate,
		Subject:   ruleID,
		Context:   inputContext,
		Success:   out.IsAccepted(),
		Reason:    out.Message(),
		Latency:   latency,
	}, id)

	return out, nil
}

func (m *Monitor) ruleForContext(inputContext string) string {
	key := strings.ToLower(strings.TrimSpace(inputContext))
	if id, ok := m.config.Validation.Contexts[key]; ok {
		return id
	}
	return m.config.Validation.DefaultRule
}

/*
====================================
SANITIZATION
====================================
*/

// SanitizeHTML escapes markup for an HTML text or attribute context. With
// Config.Sanitize.EscapeAmpersand it also escapes '&'.
func (m *Monitor) SanitizeHTML(s string) string {
	m.metrics.Inc(MetricSanitizeHTML)
	if m.config.Sanitize.EscapeAmpersand {
		return sanitize.HTMLStrict(s)
	}
	return sanitize.HTML(s)
}

// SanitizeFilename replaces path and shell metacharacters with '_'.
func (m *Monitor) SanitizeFilename(s string) string {
	m.metrics.Inc(MetricSanitizeFilename)
	return sanitize.Filename(s)
}

// SanitizeInput trims s and removes angle brackets.
func (m *Monitor) SanitizeInput(s string) string {
	m.metrics.Inc(MetricSanitizeInput)
	return sanitize.Input(s)
}

// SanitizeURL returns s when it is a safe absolute link and "" otherwise.
func (m *Monitor) SanitizeURL(s string) string {
	m.metrics.Inc(MetricSanitizeURL)
	out := sanitize.URL(s)
	if out == "" && strings.TrimSpace(s) != "" {
		m.metrics.Inc(MetricSanitizeURLRejected)
	}
	return out
}

// StripTags removes all markup from s.
func (m *Monitor) StripTags(s string) string {
	m.metrics.Inc(MetricSanitizeStripTags)
	return sanitize.StripTags(s)
}

/*
====================================
TOKENS
====================================
*/

// GenerateToken returns byteLength random bytes as lowercase hex. A
// byteLength <= 0 uses Config.Token.ByteLength. Entropy failures are returned,
// never papered over.
func (m *Monitor) GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = m.config.Token.ByteLength
	}

	tok, err := token.GenerateFrom(m.entropy, byteLength)
	meta := map[string]string{"bytes": strconv.Itoa(byteLength)}
	if err != nil {
		m.logger.Error("goGuard: token generation failed", slog.String("error", err.Error()))
		m.record(audit.Event{EventType: EventToken, Reason: "generation failed", Metadata: meta}, MetricTokenFailure)
		return "", err
	}

	m.record(audit.Event{EventType: EventToken, Success: true, Metadata: meta}, MetricTokenIssued)
	return tok, nil
}

// NewCSRFIssuer returns an anti-forgery token issuer using Config.CSRF and the
// Monitor's entropy source. key must be at least csrf.MinKeyLength bytes.
func (m *Monitor) NewCSRFIssuer(key []byte) (*csrf.Issuer, error) {
	return csrf.NewIssuer(csrf.Config{
		Key:        key,
		TTL:        m.config.CSRF.TTL,
		Issuer:     m.config.CSRF.Issuer,
		NonceBytes: m.config.CSRF.NonceBytes,
		Entropy:    m.entropy,
	})
}

/*
====================================
UPLOADS
====================================
*/

// ValidateUpload checks an upload against the configured policy. Only the
// declared size and content type are inspected.
func (m *Monitor) ValidateUpload(c upload.Candidate) upload.Verdict {
	v := m.uploads.Validate(c)

	id := MetricUploadValid
	switch {
	case v.OK():
	case strings.HasPrefix(v.Reason(), upload.ReasonTooLarge):
		id = MetricUploadTooLarge
	default:
		id = MetricUploadTypeRejected
	}

	m.record(audit.Event{
		EventType: EventUpload,
		Subject:   uploadSubject(v),
		Success:   v.OK(),
		Reason:    v.Reason(),
		Metadata: map[string]string{
			"size":         strconv.FormatInt(c.Size, 10),
			"content_type": truncate(c.ContentType, 128),
		},
	}, id)

	return v
}

func uploadSubject(v upload.Verdict) string {
	if v.OK() {
		return "accepted"
	}
	if strings.HasPrefix(v.Reason(), upload.ReasonTooLarge) {
		return "size"
	}
	return "type"
}

/*
====================================
PERMISSIONS
====================================
*/

// HasPermission reports whether a principal holding actual may perform an
// action requiring required. Unregistered names on either side deny.
func (m *Monitor) HasPermission(actual, required string) bool {
	allowed := m.roles.Allows(actual, required)

	id := MetricPermissionDenied
	if allowed {
		id = MetricPermissionGranted
	}
	ids := []MetricID{id}

	_, actualKnown := m.roles.Level(actual)
	_, requiredKnown := m.roles.Level(required)
	if !actualKnown || !requiredKnown {
		ids = append(ids, MetricPermissionUnknownRole)
		m.logger.Debug("goGuard: permission check with unknown role",
			slog.Bool("actual_known", actualKnown),
			slog.Bool("required_known", requiredKnown),
		)
	}

	reason := ""
	if !allowed {
		reason = "insufficient role"
	}
	m.record(audit.Event{
		EventType: EventPermission,
		Subject:   truncate(strings.ToLower(required), 64),
		Context:   truncate(strings.ToLower(actual), 64),
		Success:   allowed,
		Reason:    reason,
	}, ids...)

	return allowed
}

// Roles returns the registered role names, lowest level first.
func (m *Monitor) Roles() []string {
	return m.roles.Names()
}

// RuleIDs returns the registered rule ids in sorted order.
func (m *Monitor) RuleIDs() []string {
	return m.rules.IDs()
}

// UploadPolicy returns the active upload policy.
func (m *Monitor) UploadPolicy() *upload.Policy {
	return m.uploads
}

/*
====================================
OBSERVATION
====================================
*/

// MetricsSnapshot copies the in-process counters.
func (m *Monitor) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// AuditDropped returns how many events were dropped because the dispatcher
// buffer was full.
func (m *Monitor) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// RejectionCount returns the rejections counted for ruleID in the current
// signal window.
func (m *Monitor) RejectionCount(ctx context.Context, ruleID string) (int64, error) {
	if m.signals == nil {
		return 0, ErrSignalsDisabled
	}
	return m.signals.Count(ctx, signalSubject(EventValidate, ruleID))
}

// Close flushes queued audit events and stops the dispatcher. It is safe to
// call more than once.
func (m *Monitor) Close() {
	m.audit.Close()
}

// record updates counters and queues the event. It must never panic into or
// block the caller.
func (m *Monitor) record(ev audit.Event, ids ...MetricID) {
	defer func() {
		if r := recover(); r != nil {
			m.metrics.Inc(MetricObserverFailure)
		}
	}()

	for _, id := range ids {
		m.metrics.Inc(id)
	}

	if m.audit == nil {
		return
	}

	if id, err := uuid.NewRandom(); err == nil {
		ev.ID = id.String()
	}
	ev.Timestamp = time.Now().UTC()
	m.audit.Emit(ev)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
