package goGuard

import "github.com/MrEthical07/goGuard/internal/security"

// SecurityReport summarizes the effective limits of a Monitor and the
// documented gaps that remain in its configuration.
type SecurityReport = security.Report

// SecurityReport returns the posture of m. ContentSniffing is always false:
// uploads are judged by declared metadata only.
func (m *Monitor) SecurityReport() SecurityReport {
	if m == nil {
		return SecurityReport{}
	}

	return security.BuildReport(security.ReportInput{
		TokenByteLength:      m.config.Token.ByteLength,
		UploadMaxSize:        m.uploads.MaxSize(),
		UploadTypes:          m.uploads.AllowedTypes(),
		EscapeAmpersand:      m.config.Sanitize.EscapeAmpersand,
		UnicodeNormalization: m.config.Validation.NormalizeUnicode,
		Roles:                m.roles.Names(),
		Rules:                m.rules.IDs(),
		AuditEnabled:         m.config.Audit.Enabled,
		SignalsEnabled:       m.config.Signals.Enabled,
		SignalWindow:         m.config.Signals.Window,
		SignalThreshold:      m.config.Signals.Threshold,
		MetricsEnabled:       m.config.Metrics.Enabled,
		CSRFTokenTTL:         m.config.CSRF.TTL,
	})
}
