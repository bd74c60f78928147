package upload

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name       string
		candidate  Candidate
		wantOK     bool
		wantReason string
	}{
		{
			name:       "oversized pdf",
			candidate:  Candidate{Size: 11_000_000, ContentType: "application/pdf"},
			wantReason: "file too large (max 10MB)",
		},
		{
			name:       "unknown type",
			candidate:  Candidate{Size: 1000, ContentType: "application/x-evil"},
			wantReason: ReasonTypeForbidden,
		},
		{
			name:      "small pdf",
			candidate: Candidate{Size: 1000, ContentType: "application/pdf"},
			wantOK:    true,
		},
		{
			name:      "exactly at ceiling",
			candidate: Candidate{Size: DefaultMaxSize, ContentType: TypePNG},
			wantOK:    true,
		},
		{
			name:       "one byte over ceiling",
			candidate:  Candidate{Size: DefaultMaxSize + 1, ContentType: TypePNG},
			wantReason: "file too large (max 10MB)",
		},
		{
			name:       "size checked before type",
			candidate:  Candidate{Size: 50_000_000, ContentType: "application/x-evil"},
			wantReason: "file too large (max 10MB)",
		},
		{
			name:      "docx",
			candidate: Candidate{Size: 2048, ContentType: TypeDOCX},
			wantOK:    true,
		},
		{
			name:      "case and parameters ignored",
			candidate: Candidate{Size: 10, ContentType: "Image/JPEG; charset=binary"},
			wantOK:    true,
		},
		{
			name:       "empty type",
			candidate:  Candidate{Size: 10},
			wantReason: ReasonTypeForbidden,
		},
		{
			name:       "malformed type",
			candidate:  Candidate{Size: 10, ContentType: "pdf"},
			wantReason: ReasonTypeForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := p.Validate(tc.candidate)
			if v.OK() != tc.wantOK {
				t.Fatalf("expected ok=%v, got %s", tc.wantOK, v)
			}
			if v.Reason() != tc.wantReason {
				t.Fatalf("expected reason %q, got %q", tc.wantReason, v.Reason())
			}
		})
	}
}

func TestValidateNeverReadsBody(t *testing.T) {
	body := &trackingReader{}
	v := DefaultPolicy().Validate(Candidate{Size: 10, ContentType: TypePDF, Body: body})
	if !v.OK() {
		t.Fatalf("expected valid, got %s", v)
	}
	if body.reads != 0 {
		t.Fatalf("expected body untouched, got %d reads", body.reads)
	}
}

func TestNewPolicy(t *testing.T) {
	if _, err := NewPolicy(0, DefaultTypes()); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy for zero size, got %v", err)
	}
	if _, err := NewPolicy(10, nil); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy for empty list, got %v", err)
	}
	if _, err := NewPolicy(10, []string{"not a type"}); !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy for bad type, got %v", err)
	}

	p, err := NewPolicy(512*1024, []string{"TEXT/PLAIN", "text/plain", "text/csv"})
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	if got := strings.Join(p.AllowedTypes(), ","); got != "text/plain,text/csv" {
		t.Fatalf("expected normalized, deduplicated types, got %q", got)
	}
	if v := p.Validate(Candidate{Size: 600 * 1024, ContentType: "text/csv"}); v.Reason() != "file too large (max 512KB)" {
		t.Fatalf("unexpected reason %q", v.Reason())
	}
}

type trackingReader struct {
	reads int
}

func (r *trackingReader) Read(p []byte) (int, error) {
	r.reads++
	return 0, nil
}
