package internaldefs

import (
	"sort"

	goGuard "github.com/MrEthical07/goGuard"
)

// CounterDef binds a Monitor counter to its exported name.
type CounterDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// HistogramDef binds a Monitor histogram to its exported name.
type HistogramDef struct {
	ID   goGuard.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goGuard.MetricValidateAccepted, Name: "goguard_validate_accepted_total", Help: "Inputs accepted by a validation rule."},
	{ID: goGuard.MetricValidateRejected, Name: "goguard_validate_rejected_total", Help: "Inputs rejected by a validation rule."},
	{ID: goGuard.MetricValidateUnknownRule, Name: "goguard_validate_unknown_rule_total", Help: "Validation calls naming an unregistered rule."},
	{ID: goGuard.MetricSanitizeHTML, Name: "goguard_sanitize_html_total", Help: "HTML escaping calls."},
	{ID: goGuard.MetricSanitizeFilename, Name: "goguard_sanitize_filename_total", Help: "Filename sanitization calls."},
	{ID: goGuard.MetricSanitizeInput, Name: "goguard_sanitize_input_total", Help: "General input sanitization calls."},
	{ID: goGuard.MetricSanitizeURL, Name: "goguard_sanitize_url_total", Help: "URL sanitization calls."},
	{ID: goGuard.MetricSanitizeURLRejected, Name: "goguard_sanitize_url_rejected_total", Help: "URLs blanked as unsafe."},
	{ID: goGuard.MetricSanitizeStripTags, Name: "goguard_sanitize_strip_tags_total", Help: "Markup stripping calls."},
	{ID: goGuard.MetricTokenIssued, Name: "goguard_token_issued_total", Help: "Generated security tokens."},
	{ID: goGuard.MetricTokenFailure, Name: "goguard_token_failure_total", Help: "Token generation failures caused by the entropy source."},
	{ID: goGuard.MetricUploadValid, Name: "goguard_upload_valid_total", Help: "Uploads accepted by policy."},
	{ID: goGuard.MetricUploadTooLarge, Name: "goguard_upload_too_large_total", Help: "Uploads rejected for size."},
	{ID: goGuard.MetricUploadTypeRejected, Name: "goguard_upload_type_rejected_total", Help: "Uploads rejected for content type."},
	{ID: goGuard.MetricPermissionGranted, Name: "goguard_permission_granted_total", Help: "Permission checks that granted access."},
	{ID: goGuard.MetricPermissionDenied, Name: "goguard_permission_denied_total", Help: "Permission checks that denied access."},
	{ID: goGuard.MetricPermissionUnknownRole, Name: "goguard_permission_unknown_role_total", Help: "Permission checks naming an unregistered role."},
	{ID: goGuard.MetricRejectionBurst, Name: "goguard_rejection_burst_total", Help: "Signal windows whose rejections crossed the threshold."},
	{ID: goGuard.MetricObserverFailure, Name: "goguard_observer_failure_total", Help: "Swallowed audit sink or signal failures."},
}

// HistogramDefs lists the exported histograms.
var HistogramDefs = []HistogramDef{
	{ID: goGuard.MetricValidateLatency, Name: "goguard_validate_latency_seconds", Help: "Rule evaluation latency histogram."},
}

// RuleOutcomesName is the per-rule counter, labelled by rule and outcome.
const RuleOutcomesName = "goguard_rule_outcomes_total"

// RuleOutcomesHelp describes RuleOutcomesName.
const RuleOutcomesHelp = "Validation outcomes per rule."

// AuditDroppedName counts events dropped by the audit dispatcher.
const AuditDroppedName = "goguard_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramBounds are the bucket upper bounds in seconds (1µs to 1ms).
var HistogramBounds = []string{
	"0.000001",
	"0.000005",
	"0.00001",
	"0.00005",
	"0.0001",
	"0.0005",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as instrument-name suffixes.
var HistogramBoundSuffix = []string{
	"1us",
	"5us",
	"10us",
	"50us",
	"100us",
	"500us",
	"1ms",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// SortedRuleIDs returns the rule ids of a snapshot in lexical order so output
// is deterministic.
func SortedRuleIDs(rules map[string]goGuard.RuleCounts) []string {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
