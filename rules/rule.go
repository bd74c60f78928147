package rules

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Rule describes what a valid value of one input class looks like.
//
// Pattern and Check are both optional but at least one must be set; when both
// are present the value must satisfy both. Lengths are counted in runes.
type Rule struct {
	ID      string
	MinLen  int
	MaxLen  int
	Pattern *regexp.Regexp
	Check   func(string) bool

	EmptyMessage    string
	TooShortMessage string
	TooLongMessage  string
	InvalidMessage  string
}

func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	}
	if r.Pattern == nil && r.Check == nil {
		return fmt.Errorf("%w: %s has no predicate", ErrInvalidRule, r.ID)
	}
	if r.MinLen < 0 || r.MaxLen <= 0 {
		return fmt.Errorf("%w: %s has invalid length bounds", ErrInvalidRule, r.ID)
	}
	if r.MaxLen < r.MinLen {
		return fmt.Errorf("%w: %s MaxLen < MinLen", ErrInvalidRule, r.ID)
	}
	if r.InvalidMessage == "" {
		return fmt.Errorf("%w: %s has no invalid message", ErrInvalidRule, r.ID)
	}
	return nil
}

// apply runs the ordered checks: emptiness, max length, min length, predicate.
func (r Rule) apply(input string) Outcome {
	n := utf8.RuneCountInString(input)

	if n == 0 && r.MinLen > 0 {
		return Rejected(firstNonEmpty(r.EmptyMessage, r.InvalidMessage))
	}
	if n > r.MaxLen {
		return Rejected(firstNonEmpty(r.TooLongMessage, r.InvalidMessage))
	}
	if n < r.MinLen {
		return Rejected(firstNonEmpty(r.TooShortMessage, r.InvalidMessage))
	}
	if !r.matches(input) {
		return Rejected(r.InvalidMessage)
	}

	return Accepted(input)
}

func (r Rule) matches(input string) bool {
	if !utf8.ValidString(input) {
		return false
	}
	if r.Pattern != nil && !r.Pattern.MatchString(input) {
		return false
	}
	if r.Check != nil && !r.Check(input) {
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
