package security

import "time"

// Gap identifiers reported in Report.Warnings.
const (
	WarnAmpersandUnescaped = "html sanitizer does not escape '&'"
	WarnContentNotSniffed  = "uploads are checked by declared content type only"
	WarnShortTokens        = "token length below 16 bytes"
	WarnNoNormalization    = "unicode look-alikes are not normalized before validation"
	WarnNoAudit            = "audit events are disabled"
)

// minRecommendedTokenBytes is the shortest token length not flagged.
const minRecommendedTokenBytes = 16

type Report struct {
	TokenByteLength      int
	UploadMaxSize        int64
	UploadTypes          []string
	ContentSniffing      bool
	EscapeAmpersand      bool
	UnicodeNormalization bool
	Roles                []string
	Rules                []string
	AuditEnabled         bool
	SignalsEnabled       bool
	SignalWindow         time.Duration
	SignalThreshold      int
	MetricsEnabled       bool
	CSRFTokenTTL         time.Duration
	Warnings             []string
}

type ReportInput struct {
	TokenByteLength      int
	UploadMaxSize        int64
	UploadTypes          []string
	EscapeAmpersand      bool
	UnicodeNormalization bool
	Roles                []string
	Rules                []string
	AuditEnabled         bool
	SignalsEnabled       bool
	SignalWindow         time.Duration
	SignalThreshold      int
	MetricsEnabled       bool
	CSRFTokenTTL         time.Duration
}

func BuildReport(input ReportInput) Report {
	r := Report{
		TokenByteLength:      input.TokenByteLength,
		UploadMaxSize:        input.UploadMaxSize,
		UploadTypes:          append([]string(nil), input.UploadTypes...),
		ContentSniffing:      false,
		EscapeAmpersand:      input.EscapeAmpersand,
		UnicodeNormalization: input.UnicodeNormalization,
		Roles:                append([]string(nil), input.Roles...),
		Rules:                append([]string(nil), input.Rules...),
		AuditEnabled:         input.AuditEnabled,
		SignalsEnabled:       input.SignalsEnabled,
		MetricsEnabled:       input.MetricsEnabled,
		CSRFTokenTTL:         input.CSRFTokenTTL,
	}
	if input.SignalsEnabled {
		r.SignalWindow = input.SignalWindow
		r.SignalThreshold = input.SignalThreshold
	}

	if !input.EscapeAmpersand {
		r.Warnings = append(r.Warnings, WarnAmpersandUnescaped)
	}
	r.Warnings = append(r.Warnings, WarnContentNotSniffed)
	if input.TokenByteLength < minRecommendedTokenBytes {
		r.Warnings = append(r.Warnings, WarnShortTokens)
	}
	if !input.UnicodeNormalization {
		r.Warnings = append(r.Warnings, WarnNoNormalization)
	}
	if !input.AuditEnabled {
		r.Warnings = append(r.Warnings, WarnNoAudit)
	}

	return r
}
