package rules

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Built-in rule ids.
const (
	SearchInput    = "searchInput"
	FileName       = "fileName"
	Email          = "email"
	URL            = "url"
	Phone          = "phone"
	StrongPassword = "strongPassword"
)

var (
	searchPattern   = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,;:!?'"()\[\]]+$`)
	fileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9_%+\-]+(?:\.[a-zA-Z0-9_%+\-]+)*@(?:[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	urlCharsPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9 ().\-]+$`)
)

const (
	minPhoneDigits    = 7
	minPasswordLength = 12
)

var defaultRegistry = mustRegistry(
	Rule{
		ID:             SearchInput,
		MinLen:         1,
		MaxLen:         200,
		Pattern:        searchPattern,
		EmptyMessage:   "search term cannot be empty",
		TooLongMessage: "search term is too long",
		InvalidMessage: "disallowed characters detected",
	},
	Rule{
		ID:             FileName,
		MinLen:         1,
		MaxLen:         255,
		Pattern:        fileNamePattern,
		EmptyMessage:   "file name cannot be empty",
		TooLongMessage: "file name is too long",
		InvalidMessage: "file name contains disallowed characters",
	},
	Rule{
		ID:             Email,
		MinLen:         1,
		MaxLen:         254,
		Pattern:        emailPattern,
		EmptyMessage:   "email cannot be empty",
		TooLongMessage: "email is too long",
		InvalidMessage: "invalid email format",
	},
	Rule{
		ID:             URL,
		MinLen:         1,
		MaxLen:         2048,
		Pattern:        urlCharsPattern,
		Check:          isWebURL,
		EmptyMessage:   "url cannot be empty",
		TooLongMessage: "url is too long",
		InvalidMessage: "invalid url",
	},
	Rule{
		ID:             Phone,
		MinLen:         1,
		MaxLen:         20,
		Pattern:        phonePattern,
		Check:          hasPhoneDigits,
		EmptyMessage:   "phone number cannot be empty",
		TooLongMessage: "phone number is too long",
		InvalidMessage: "invalid phone number",
	},
	Rule{
		ID:             StrongPassword,
		MinLen:         1,
		MaxLen:         128,
		Check:          isStrongPassword,
		EmptyMessage:   "password cannot be empty",
		TooLongMessage: "password is too long",
		InvalidMessage: "password must be at least 12 characters and mix upper case, lower case, digits and symbols",
	},
)

// Default returns the built-in registry. It is shared and immutable.
func Default() *Registry {
	return defaultRegistry
}

// Validate applies a built-in rule. See [Registry.Validate].
func Validate(id, input string) (Outcome, error) {
	return defaultRegistry.Validate(id, input)
}

func mustRegistry(rs ...Rule) *Registry {
	reg, err := NewRegistry(rs...)
	if err != nil {
		panic(err)
	}
	return reg
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

func hasPhoneDigits(s string) bool {
	digits := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

func isStrongPassword(s string) bool {
	if len(s) < minPasswordLength {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, c := range s {
		// printable ASCII only, space included
		if c < 0x20 || c > 0x7e {
			return false
		}
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case c != ' ' && strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c):
			symbol = true
		}
	}

	return upper && lower && digit && symbol
}
