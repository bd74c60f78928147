package upload

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
)

// DefaultMaxSize is the default upload ceiling: 10 MiB.
const DefaultMaxSize int64 = 10 * 1024 * 1024

// Allowed content types in the default policy.
const (
	TypePDF  = "application/pdf"
	TypeDOC  = "application/msword"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
)

// Rejection reasons returned in Invalid verdicts.
const (
	ReasonTooLarge      = "file too large"
	ReasonTypeForbidden = "file type not permitted"
)

// ErrInvalidPolicy is returned by NewPolicy for unusable limits.
var ErrInvalidPolicy = errors.New("invalid upload policy")

// Candidate is a file offered for acceptance. Body is carried for the caller's
// convenience and is never read by [Policy.Validate].
type Candidate struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Verdict is either Valid or Invalid with a reason.
type Verdict struct {
	ok     bool
	reason string
}

// Valid returns an accepting verdict.
func Valid() Verdict {
	return Verdict{ok: true}
}

// Invalid returns a rejecting verdict with a human-readable reason.
func Invalid(reason string) Verdict {
	return Verdict{reason: reason}
}

// OK reports whether the candidate was accepted.
func (v Verdict) OK() bool {
	return v.ok
}

// Reason returns the rejection reason, or "" for valid verdicts.
func (v Verdict) Reason() string {
	if v.ok {
		return ""
	}
	return v.reason
}

func (v Verdict) String() string {
	if v.ok {
		return "valid"
	}
	return "invalid: " + v.reason
}

// Policy holds the size ceiling and the content type allow-list. A Policy is
// immutable after construction.
type Policy struct {
	maxSize int64
	allowed map[string]struct{}
	types   []string
}

// DefaultPolicy returns the 10 MiB policy accepting PDF, Word (legacy and
// OOXML), JPEG and PNG.
func DefaultPolicy() *Policy {
	p, _ := NewPolicy(DefaultMaxSize, DefaultTypes())
	return p
}

// DefaultTypes returns a fresh copy of the default allow-list.
func DefaultTypes() []string {
	return []string{TypePDF, TypeDOC, TypeDOCX, TypeJPEG, TypePNG}
}

// NewPolicy builds a policy. maxSize must be positive and at least one content
// type must be allowed.
func NewPolicy(maxSize int64, types []string) (*Policy, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size must be > 0", ErrInvalidPolicy)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: allow-list is empty", ErrInvalidPolicy)
	}

	p := &Policy{
		maxSize: maxSize,
		allowed: make(map[string]struct{}, len(types)),
		types:   make([]string, 0, len(types)),
	}
	for _, t := range types {
		mt, ok := mediaType(t)
		if !ok {
			return nil, fmt.Errorf("%w: bad content type %q", ErrInvalidPolicy, t)
		}
		if _, dup := p.allowed[mt]; dup {
			continue
		}
		p.allowed[mt] = struct{}{}
		p.types = append(p.types, mt)
	}

	return p, nil
}

// MaxSize returns the configured ceiling in bytes.
func (p *Policy) MaxSize() int64 {
	return p.maxSize
}

// AllowedTypes returns the normalized allow-list in configuration order.
func (p *Policy) AllowedTypes() []string {
	out := make([]string, len(p.types))
	copy(out, p.types)
	return out
}

// Validate checks size first, then the declared content type. The first failing
// check determines the reason.
func (p *Policy) Validate(c Candidate) Verdict {
	if c.Size > p.maxSize {
		return Invalid(fmt.Sprintf("%s (max %s)", ReasonTooLarge, humanSize(p.maxSize)))
	}

	mt, ok := mediaType(c.ContentType)
	if !ok {
		return Invalid(ReasonTypeForbidden)
	}
	if _, allowed := p.allowed[mt]; !allowed {
		return Invalid(ReasonTypeForbidden)
	}

	return Valid()
}

// mediaType lowercases and strips parameters, so "Application/PDF; q=1"
// compares equal to "application/pdf".
func mediaType(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil || !strings.Contains(mt, "/") {
		return "", false
	}
	return mt, true
}

func humanSize(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	if n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
